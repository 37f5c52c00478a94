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
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrUnknownProfile is returned when a profile name has no registered
// constructor. This is a configuration error, not a runtime one.
var ErrUnknownProfile = errors.New("unknown storage profile")

// Profile decides where the snapshot being taken now goes and which
// previously completed snapshot, if any, serves as the hard-link base
// for the incremental transfer. A profile is bound to a storage root
// and a reference time at construction and holds no other state.
//
// Snapshots for a profile live under <storage root>/<profile name>.
type Profile interface {
	// Name returns the short profile name.
	Name() string

	// CurrentStorage returns the directory the snapshot taken at the
	// profile's reference time belongs in.
	CurrentStorage() string

	// PreviousStorage returns the closest prior snapshot directory
	// still present on disk. ok is false when no prior snapshot
	// exists, i.e. on the first ever backup for this profile.
	PreviousStorage() (path string, ok bool)
}

// Constructor builds a profile bound to a storage root and a reference time.
type Constructor func(basedir string, now time.Time) Profile

var registry = map[string]Constructor{
	"snapshot": NewSnapshot,
	"subdaily": NewSubdaily,
	"hourly":   NewHourly,
	"monthly":  NewMonthly,
	"weekly":   NewWeekly,
	"monthday": NewMonthday,
	"weekday":  NewWeekday,
}

// New constructs the profile registered under name, bound to basedir
// and now. Unknown names fail with ErrUnknownProfile.
func New(name, basedir string, now time.Time) (Profile, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return ctor(basedir, now), nil
}

// Names returns the registered profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
