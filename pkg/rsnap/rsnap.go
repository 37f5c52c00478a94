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

// Package rsnap assembles and runs one rsync snapshot transfer: it
// picks the destination slot through a retention profile, links
// against the previous slot and maintains the per-profile "latest"
// pointer.
package rsnap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rsnap/rsnap/pkg/argset"
	"github.com/rsnap/rsnap/pkg/profile"
)

// DefaultRsyncBin is used when no binary path is configured.
const DefaultRsyncBin = "/usr/bin/rsync"

// VanishedFilesExitCode is the one rsync exit status tolerated as a
// partial success: some source files vanished while the transfer was
// running. Every other nonzero status is a hard failure.
const VanishedFilesExitCode = 23

// DefaultProfile is used when no retention profile is configured.
const DefaultProfile = "snapshot"

// excludesName is the per-storage-root exclude pattern file. Its
// presence is a convention, not a requirement.
const excludesName = "exclude.lst"

// latestName is the per-profile pointer to the last completed slot.
const latestName = "latest"

// DefaultRsyncOptions returns a fresh copy of the stock rsync option
// set, so callers may mutate the result without affecting later runs.
func DefaultRsyncOptions() argset.ArgumentSet {
	return argset.ArgumentSet{
		"acls":            false,
		"archive":         true,
		"delete":          true,
		"fake-super":      true,
		"hard-links":      true,
		"inplace":         false,
		"numeric-ids":     true,
		"one-file-system": true,
		"partial":         true,
		"progress":        true,
		"rsh":             "ssh -oPasswordAuthentication=no -oStrictHostKeyChecking=no",
		"rsync-path":      "rsync --fake-super",
		"verbose":         false,
		"xattrs":          true,
	}
}

// RSnap builds and runs a single snapshot transfer of one source into
// one storage root. Construct a fresh instance per run; it is bound to
// the reference time of its profile.
type RSnap struct {
	source  string
	storage string

	profileName string
	profile     profile.Profile

	rsyncBin  string
	rsyncOpts argset.ArgumentSet

	now    func() time.Time
	logger *zap.Logger
}

// New creates an RSnap for the given source path and storage root.
func New(source, storage string, opts ...Option) (*RSnap, error) {
	r := &RSnap{
		source:    source,
		storage:   storage,
		rsyncBin:  DefaultRsyncBin,
		rsyncOpts: DefaultRsyncOptions(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if r.logger == nil {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		r.logger = l
	}

	if r.profile == nil {
		name := r.profileName
		if name == "" {
			name = DefaultProfile
		}
		p, err := profile.New(name, r.storage, r.now())
		if err != nil {
			return nil, err
		}
		r.profile = p
	}

	return r, nil
}

// Invocation is a fully assembled rsync command, not yet executed.
type Invocation struct {
	Bin     string
	Source  string
	Dest    string
	Options argset.ArgumentSet
}

// Argv renders the complete argument vector: binary, options, then
// the fixed source and destination pair.
func (inv *Invocation) Argv() ([]string, error) {
	opts, err := inv.Options.Render()
	if err != nil {
		return nil, err
	}
	argv := make([]string, 0, len(opts)+3)
	argv = append(argv, inv.Bin)
	argv = append(argv, opts...)
	argv = append(argv, inv.Source, inv.Dest)
	return argv, nil
}

// Build assembles the rsync invocation without executing it: it picks
// up the exclude file convention, asks the profile for the link base
// and the destination slot, and merges the given per-call overrides
// over the configured option set. The result is validated; an option
// set that cannot render fails here, before anything touches disk.
func (r *RSnap) Build(overrides ...argset.ArgumentSet) (*Invocation, error) {
	opts := r.rsyncOpts.Clone()

	if path, ok := r.excludesFile(); ok {
		opts["exclude-from"] = path
		opts["delete-excluded"] = true
	}

	if prev, ok := r.profile.PreviousStorage(); ok {
		opts["link-dest"] = prev
	}

	dest := r.profile.CurrentStorage()
	// A trailing slash on the source means "copy contents, not the
	// directory itself"; mirror it onto the destination.
	if strings.HasSuffix(r.source, "/") && !strings.HasSuffix(dest, "/") {
		dest += "/"
	}

	opts.Merge(overrides...)

	inv := &Invocation{
		Bin:     r.rsyncBin,
		Source:  r.source,
		Dest:    dest,
		Options: opts,
	}
	if _, err := inv.Argv(); err != nil {
		return nil, err
	}
	return inv, nil
}

// Run builds the invocation, executes rsync and, when the transfer
// succeeded (or only tripped over vanished source files), repoints the
// profile's latest link at the new slot.
func (r *RSnap) Run(ctx context.Context, overrides ...argset.ArgumentSet) error {
	inv, err := r.Build(overrides...)
	if err != nil {
		return err
	}
	argv, err := inv.Argv()
	if err != nil {
		return err
	}

	r.logger.Info("running rsync",
		zap.String("profile", r.profile.Name()),
		zap.Strings("command", argv))

	if err := os.MkdirAll(inv.Dest, 0o755); err != nil {
		return fmt.Errorf("creating destination %s: %w", inv.Dest, err)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return fmt.Errorf("running %s: %w", inv.Bin, err)
		}
		if code := exitErr.ExitCode(); code != VanishedFilesExitCode {
			return &ExecutionError{ExitCode: code, Output: out}
		}
		r.logger.Warn("rsync reported vanished source files, continuing",
			zap.Int("exit_code", VanishedFilesExitCode))
	}

	r.updateLatest(inv.Dest)
	return nil
}

// excludesFile reports the storage root's exclude file if it exists
// and is readable. A missing file is expected and not an error.
func (r *RSnap) excludesFile() (string, bool) {
	path := filepath.Join(r.storage, excludesName)
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	f.Close()
	return path, true
}

// updateLatest repoints <slot dir>/latest at the just-written slot.
// The link target is the slot's base name, not an absolute path, so
// the pointer stays valid when the storage tree is relocated. Failures
// here are reported but never fail the completed transfer.
func (r *RSnap) updateLatest(dest string) {
	resolved := filepath.Clean(dest)
	if real, err := filepath.EvalSymlinks(dest); err == nil {
		resolved = real
	}

	target := filepath.Base(resolved)
	link := filepath.Join(filepath.Dir(resolved), latestName)

	if err := os.Remove(link); err != nil && !os.IsNotExist(err) {
		r.logger.Warn("removing latest pointer",
			zap.String("link", link), zap.Error(err))
	}
	if err := os.Symlink(target, link); err != nil {
		r.logger.Warn("unable to update latest pointer",
			zap.String("link", link), zap.String("target", target), zap.Error(err))
	}
}
