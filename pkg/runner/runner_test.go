// This file is part of rsnap
//
// Copyright (C) 2026  The rsnap authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>

package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rsnap/rsnap/pkg/config"
)

func fakeRsync(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rsync")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	r, err := New(WithLogger(zap.NewNop()), WithOutput(&buf))
	require.NoError(t, err)
	return r, &buf
}

func TestRunReportsPerJob(t *testing.T) {
	ok := fakeRsync(t, "exit 0")
	broken := fakeRsync(t, "echo disk on fire\nexit 11")

	jobs := []config.Job{
		{Name: "good", Source: t.TempDir() + "/", Storage: t.TempDir(), Profile: "weekday", RsyncBin: ok},
		{Name: "bad", Source: t.TempDir() + "/", Storage: t.TempDir(), Profile: "weekday", RsyncBin: broken},
		{Name: "alsogood", Source: t.TempDir() + "/", Storage: t.TempDir(), Profile: "weekday", RsyncBin: ok},
	}

	r, buf := newTestRunner(t)
	err := r.Run(context.Background(), jobs)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "Backup of good: OK\n")
	assert.Contains(t, out, "Backup of bad failed: rsync exited with code 11\n")
	assert.Contains(t, out, "\tdisk on fire\n")
	// A failed job never stops the remaining ones.
	assert.Contains(t, out, "Backup of alsogood: OK\n")
}

func TestRunUnknownProfileIsFatalForTheJob(t *testing.T) {
	jobs := []config.Job{
		{Name: "bogus", Source: t.TempDir() + "/", Storage: t.TempDir(), Profile: "no-such"},
	}

	r, buf := newTestRunner(t)
	err := r.Run(context.Background(), jobs)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "Backup of bogus failed:")
}

func TestRunRetriesTransferFailures(t *testing.T) {
	// Fails on the first attempt, succeeds on the second.
	dir := t.TempDir()
	marker := filepath.Join(dir, "attempted")
	bin := fakeRsync(t, fmt.Sprintf("if [ -e %s ]; then exit 0; fi\ntouch %s\nexit 30", marker, marker))

	jobs := []config.Job{
		{Name: "flaky", Source: t.TempDir() + "/", Storage: t.TempDir(), Profile: "weekday", RsyncBin: bin, Retries: 3},
	}

	r, buf := newTestRunner(t)
	require.NoError(t, r.Run(context.Background(), jobs))
	assert.Contains(t, buf.String(), "Backup of flaky: OK\n")
}
