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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rsnap/rsnap/pkg/profile"
)

// profilesCmd represents the profiles command
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the available retention profiles.",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range profile.Names() {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
