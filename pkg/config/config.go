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

// Package config defines the backup job list read from the config
// file.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/rsnap/rsnap/pkg/argset"
)

// ErrNoJobs is returned when the config file defines no jobs.
var ErrNoJobs = errors.New("no backup jobs configured")

// Job describes one configured backup operation: one source synced
// into one storage root under one retention profile.
type Job struct {
	Name     string `mapstructure:"name"`
	Source   string `mapstructure:"source"`
	Storage  string `mapstructure:"storage"`
	Profile  string `mapstructure:"profile"`
	RsyncBin string `mapstructure:"rsync_bin"`

	// RsyncOpts are merged over the stock rsync option set. A null
	// value drops the option entirely.
	RsyncOpts map[string]interface{} `mapstructure:"rsync_opts"`

	// Retries enables per-job retry of failed transfers; zero means
	// a single attempt.
	Retries int `mapstructure:"retries"`
}

// Validate checks the fields without which a job cannot run and
// defaults the job name to its source path.
func (j *Job) Validate() error {
	if j.Source == "" {
		return fmt.Errorf("job %q: source is required", j.Name)
	}
	if j.Storage == "" {
		return fmt.Errorf("job %q: storage is required", j.Name)
	}
	if j.Name == "" {
		j.Name = j.Source
	}
	return nil
}

// Options returns the job's rsync option overrides as an ArgumentSet.
func (j *Job) Options() argset.ArgumentSet {
	opts := make(argset.ArgumentSet, len(j.RsyncOpts))
	for k, v := range j.RsyncOpts {
		opts[k] = v
	}
	return opts
}

// Jobs reads the job list from the "jobs" key of the given viper
// instance.
func Jobs(v *viper.Viper) ([]Job, error) {
	var jobs []Job
	if err := v.UnmarshalKey("jobs", &jobs); err != nil {
		return nil, fmt.Errorf("parsing jobs: %w", err)
	}
	if len(jobs) == 0 {
		return nil, ErrNoJobs
	}
	for i := range jobs {
		if err := jobs[i].Validate(); err != nil {
			return nil, err
		}
	}
	return jobs, nil
}
