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

import "fmt"

// ExecutionError is returned when rsync exits with a status outside
// the tolerated set. Output holds the captured combined output so the
// caller can surface it per job.
type ExecutionError struct {
	ExitCode int
	Output   []byte
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("rsync exited with code %d", e.ExitCode)
}
