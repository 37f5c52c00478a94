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

package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rsnap/rsnap/pkg/config"
	"github.com/rsnap/rsnap/pkg/runner"
)

var (
	storageDir  string
	profileName string
	rsyncBin    string
	retries     int
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [SOURCE]",
	Short: "Run the configured backup jobs, or a single ad-hoc one.",
	Long: `Without arguments, run executes every job from the config file in
order. With a SOURCE argument it runs a single ad-hoc job described by
the --storage and --profile flags instead.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		jobs, err := collectJobs(args)
		if err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}

		r, err := runner.New(runner.WithLogger(logger))
		if err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}

		if err := r.Run(context.Background(), jobs); err != nil {
			os.Exit(1)
		}
	},
}

// collectJobs builds the job list for this invocation, either the one
// ad-hoc job given on the command line or everything from the config
// file.
func collectJobs(args []string) ([]config.Job, error) {
	if len(args) == 1 {
		job := config.Job{
			Name:     args[0],
			Source:   args[0],
			Storage:  storageDir,
			Profile:  profileName,
			RsyncBin: rsyncBin,
			Retries:  retries,
		}
		if err := job.Validate(); err != nil {
			return nil, err
		}
		return []config.Job{job}, nil
	}
	return config.Jobs(viper.GetViper())
}

func init() {
	runCmd.Flags().StringVar(&storageDir, "storage", "", "storage root for the ad-hoc job.")
	runCmd.Flags().StringVar(&profileName, "profile", "", "retention profile for the ad-hoc job (default is snapshot).")
	runCmd.Flags().StringVar(&rsyncBin, "rsync-bin", "", "path of the rsync binary.")
	runCmd.Flags().IntVar(&retries, "retries", 0, "retry failed transfers up to this many times.")
	rootCmd.AddCommand(runCmd)
}
