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

package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A Monday evening, late November.
var refTime = time.Date(2017, time.November, 20, 18, 49, 12, 0, time.UTC)

func identifiers(t *testing.T, p Profile) []string {
	t.Helper()
	c, ok := p.(Cyclic)
	require.True(t, ok, "profile %s is not cyclic", p.Name())
	return c.Identifiers()
}

func TestMonthlyIdentifiers(t *testing.T) {
	ids := identifiers(t, NewMonthly("/tmp/foo", refTime))
	assert.Equal(t,
		[]string{"11", "10", "09", "08", "07", "06", "05", "04", "03", "02", "01", "12"},
		ids)
}

func TestWeeklyIdentifiers(t *testing.T) {
	ids := identifiers(t, NewWeekly("/tmp/foo", refTime))
	require.Len(t, ids, 53)

	// Week 47 shows up on both ends: ISO weeks do not align with years.
	assert.Equal(t, []string{"47", "46"}, ids[:2])
	assert.Equal(t, []string{"48", "47"}, ids[len(ids)-2:])
}

func TestSubdailyIdentifiers(t *testing.T) {
	ids := identifiers(t, NewSubdaily("/tmp/foo", refTime))
	require.Len(t, ids, 24*12)

	assert.Equal(t, []string{"18.45.00", "18.40.00"}, ids[:2])
	assert.Equal(t, []string{"18.55.00", "18.50.00"}, ids[len(ids)-2:])
}

func TestHourlyIdentifiers(t *testing.T) {
	ids := identifiers(t, NewHourly("/tmp/foo", refTime))
	require.Len(t, ids, 24)

	assert.Equal(t, "18.00.00", ids[0])
	assert.Equal(t, "17.00.00", ids[1])
	assert.Equal(t, "19.00.00", ids[len(ids)-1])
}

func TestWeekdayIdentifiers(t *testing.T) {
	ids := identifiers(t, NewWeekday("/tmp/foo", refTime))
	assert.Equal(t, []string{"1", "7", "6", "5", "4", "3", "2"}, ids)
}

func TestWeekdayIdentifiersSunday(t *testing.T) {
	sunday := time.Date(2017, time.November, 26, 10, 0, 0, 0, time.UTC)
	ids := identifiers(t, NewWeekday("/tmp/foo", sunday))
	assert.Equal(t, []string{"7", "6", "5", "4", "3", "2", "1"}, ids)
}

func TestMonthdayIdentifiers(t *testing.T) {
	ids := identifiers(t, NewMonthday("/tmp/foo", refTime))
	require.Len(t, ids, 31)

	// Backwards from Nov 20 down to (but not including) Oct 20.
	assert.Equal(t, "20", ids[0])
	assert.Equal(t, "01", ids[19])
	assert.Equal(t, "31", ids[20])
	assert.Equal(t, "21", ids[len(ids)-1])
}

func TestNewUnknownProfile(t *testing.T) {
	_, err := New("no-such-profile", "/tmp/foo", refTime)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestNames(t *testing.T) {
	assert.Equal(t,
		[]string{"hourly", "monthday", "monthly", "snapshot", "subdaily", "weekday", "weekly"},
		Names())
}

func TestPreviousStorageFreshRoot(t *testing.T) {
	root := t.TempDir()
	for _, name := range Names() {
		p, err := New(name, root, refTime)
		require.NoError(t, err)
		_, ok := p.PreviousStorage()
		assert.False(t, ok, "profile %s found a previous slot in an empty root", name)
	}
}

func TestCyclicPreviousStorageSkipsGaps(t *testing.T) {
	root := t.TempDir()
	p, err := New("monthly", root, refTime)
	require.NoError(t, err)

	// Reference month is November; September exists, October does not.
	slot := filepath.Join(root, "monthly", "09")
	require.NoError(t, os.MkdirAll(slot, 0o755))

	prev, ok := p.PreviousStorage()
	require.True(t, ok)
	assert.Equal(t, mustRealPath(t, slot), prev)
}

func TestCyclicPreviousStorageIgnoresCurrentSlot(t *testing.T) {
	root := t.TempDir()
	p, err := New("monthly", root, refTime)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "monthly", "11"), 0o755))

	_, ok := p.PreviousStorage()
	assert.False(t, ok)
}

func TestCyclicCurrentStorage(t *testing.T) {
	root := t.TempDir()
	p, err := New("weekday", root, refTime)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "weekday", "1"), p.CurrentStorage())
}

func TestSnapshotCurrentStorage(t *testing.T) {
	p := NewSnapshot("/backups", refTime)
	assert.Equal(t, "/backups/snapshot/2017.11.20-18.49.12.000000", p.CurrentStorage())
}

func TestSnapshotPreviousStorage(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "snapshot")
	for _, name := range []string{
		"2017.11.18-03.00.00.000000",
		"2017.11.19-03.00.00.000000",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(base, name), 0o755))
	}
	// The latest pointer sorts after the timestamps and must not win.
	require.NoError(t, os.Symlink("2017.11.19-03.00.00.000000", filepath.Join(base, "latest")))

	p := NewSnapshot(root, refTime)
	prev, ok := p.PreviousStorage()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(base, "2017.11.19-03.00.00.000000"), prev)
}

func mustRealPath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}
