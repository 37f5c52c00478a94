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

// Package runner executes the configured backup jobs in order and
// reports one result line per job.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cenkalti/backoff/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/rsnap/rsnap/pkg/config"
	"github.com/rsnap/rsnap/pkg/rsnap"
)

// Runner runs backup jobs one after another. A failing job never stops
// the remaining ones; failures are aggregated into the returned error.
type Runner struct {
	out    io.Writer
	logger *zap.Logger
}

// Option sets an option of Runner.
type Option func(*Runner) error

// WithLogger returns an Option which sets the logger for Runner.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) error {
		r.logger = logger
		return nil
	}
}

// WithOutput returns an Option which redirects the per-job report
// lines, mainly for tests. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) error {
		r.out = w
		return nil
	}
}

// New creates a Runner.
func New(opts ...Option) (*Runner, error) {
	r := &Runner{out: os.Stdout}
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
	return r, nil
}

// Run executes every job in order. Each job gets one report line; a
// hard rsync failure additionally gets the captured tool output,
// indented beneath the failure line.
func (r *Runner) Run(ctx context.Context, jobs []config.Job) error {
	var errs error
	for _, job := range jobs {
		if err := r.runJob(ctx, job); err != nil {
			fmt.Fprintf(r.out, "Backup of %s failed: %v\n", job.Name, err)

			var execErr *rsnap.ExecutionError
			if errors.As(err, &execErr) && len(execErr.Output) > 0 {
				output := strings.TrimRight(string(execErr.Output), "\n")
				for _, line := range strings.Split(output, "\n") {
					fmt.Fprintf(r.out, "\t%s\n", line)
				}
			}

			errs = multierr.Append(errs, fmt.Errorf("job %s: %w", job.Name, err))
			continue
		}
		fmt.Fprintf(r.out, "Backup of %s: OK\n", job.Name)
	}
	return errs
}

func (r *Runner) runJob(ctx context.Context, job config.Job) error {
	// A job that cannot be constructed is misconfigured; that is
	// never worth a retry.
	snap, err := rsnap.New(job.Source, job.Storage,
		rsnap.WithProfileName(job.Profile),
		rsnap.WithRsyncBin(job.RsyncBin),
		rsnap.WithRsyncOptions(job.Options()),
		rsnap.WithLogger(r.logger))
	if err != nil {
		return err
	}

	if job.Retries <= 0 {
		return snap.Run(ctx)
	}

	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(job.Retries))
	return backoff.Retry(func() error {
		err := snap.Run(ctx)
		if err == nil {
			return nil
		}
		// Only transfer failures are transient. Anything else, like
		// an unrenderable option set, will not fix itself.
		var execErr *rsnap.ExecutionError
		if errors.As(err, &execErr) {
			r.logger.Warn("transfer failed, retrying",
				zap.String("job", job.Name),
				zap.Int("exit_code", execErr.ExitCode))
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(bo, ctx))
}
