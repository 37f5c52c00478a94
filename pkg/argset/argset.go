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

// Package argset models a set of command line options for the
// synchronization tool and renders it into an argument vector.
package argset

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrShortOptionValue is returned when a single-character option key
// carries a string value; short options cannot take arguments. This
// is a configuration error.
var ErrShortOptionValue = errors.New("short option cannot carry a value")

// ArgumentSet maps option names to values. A value is either a bool
// flag, a string argument, or nil for "explicitly do not apply".
// Underscores in keys render as hyphens.
type ArgumentSet map[string]interface{}

// Clone returns an independent copy of the set.
func (s ArgumentSet) Clone() ArgumentSet {
	out := make(ArgumentSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge applies the given sets over this one, later sets winning.
func (s ArgumentSet) Merge(others ...ArgumentSet) {
	for _, other := range others {
		for k, v := range other {
			s[k] = v
		}
	}
}

// Render turns the set into command line arguments, in sorted key
// order so a given set always renders the same way:
//
//	{"archive": true}  -> --archive
//	{"delete": false}  -> --no-delete
//	{"rsh": "ssh"}     -> --rsh=ssh
//	{"x": true}        -> -x
//	{"x": false}       -> (omitted)
//	{"x": nil}         -> (omitted)
func (s ArgumentSet) Render() ([]string, error) {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, len(keys))
	for _, k := range keys {
		v := s[k]
		if v == nil {
			continue
		}

		name := strings.ReplaceAll(k, "_", "-")
		if len(name) == 1 {
			flag, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: -%s=%v", ErrShortOptionValue, name, v)
			}
			if flag {
				args = append(args, "-"+name)
			}
			continue
		}

		switch val := v.(type) {
		case bool:
			if val {
				args = append(args, "--"+name)
			} else {
				args = append(args, "--no-"+name)
			}
		case string:
			args = append(args, fmt.Sprintf("--%s=%s", name, val))
		default:
			args = append(args, fmt.Sprintf("--%s=%v", name, val))
		}
	}
	return args, nil
}
