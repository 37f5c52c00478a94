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
	"time"
)

// snapshotLayout names slots with microsecond precision so every run
// gets a distinct directory and lexical order matches time order.
const snapshotLayout = "2006.01.02-15.04.05.000000"

// latestLink is the pointer maintained next to the slots; it is never
// a slot itself.
const latestLink = "latest"

type snapshotProfile struct {
	base string
	now  time.Time
}

// NewSnapshot returns the unbounded profile: every run creates a new
// timestamped slot, nothing is ever reused.
func NewSnapshot(basedir string, now time.Time) Profile {
	return &snapshotProfile{base: filepath.Join(basedir, "snapshot"), now: now}
}

func (p *snapshotProfile) Name() string { return "snapshot" }

func (p *snapshotProfile) CurrentStorage() string {
	return filepath.Join(p.base, p.now.Format(snapshotLayout))
}

// PreviousStorage returns the lexicographically last existing slot,
// which by the naming convention is the most recent one.
func (p *snapshotProfile) PreviousStorage() (string, bool) {
	entries, err := os.ReadDir(p.base)
	if err != nil {
		return "", false
	}
	// ReadDir sorts by name; walk backwards past the latest pointer.
	for i := len(entries) - 1; i >= 0; i-- {
		name := entries[i].Name()
		if name == latestLink {
			continue
		}
		return filepath.Join(p.base, name), true
	}
	return "", false
}
