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

package rsnap

import (
	"time"

	"go.uber.org/zap"

	"github.com/rsnap/rsnap/pkg/argset"
	"github.com/rsnap/rsnap/pkg/profile"
)

// Option sets an option of RSnap.
type Option func(*RSnap) error

// WithProfile returns an Option which sets an already constructed
// retention profile, bypassing the registry lookup.
func WithProfile(p profile.Profile) Option {
	return func(r *RSnap) error {
		r.profile = p
		return nil
	}
}

// WithProfileName returns an Option which selects the retention
// profile by its registered name. An empty name keeps the default.
func WithProfileName(name string) Option {
	return func(r *RSnap) error {
		r.profileName = name
		return nil
	}
}

// WithRsyncBin returns an Option which overrides the rsync binary
// path. An empty path keeps the default.
func WithRsyncBin(bin string) Option {
	return func(r *RSnap) error {
		if bin != "" {
			r.rsyncBin = bin
		}
		return nil
	}
}

// WithRsyncOptions returns an Option which merges the given options
// over the stock rsync option set.
func WithRsyncOptions(opts argset.ArgumentSet) Option {
	return func(r *RSnap) error {
		r.rsyncOpts.Merge(opts)
		return nil
	}
}

// WithLogger returns an Option which sets the logger for RSnap.
func WithLogger(logger *zap.Logger) Option {
	return func(r *RSnap) error {
		r.logger = logger
		return nil
	}
}

// WithClock returns an Option which overrides the reference time
// source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *RSnap) error {
		r.now = now
		return nil
	}
}
