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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Cyclic is implemented by every profile that rotates through a fixed
// set of slot identifiers instead of creating new ones forever.
type Cyclic interface {
	Profile

	// Identifiers returns the slot identifier cycle, most recent
	// first, starting with the identifier for the reference time. The
	// sequence is bounded: it covers one day, week, month or year
	// depending on the profile.
	Identifiers() []string
}

// cyclic carries the behavior shared by all rotating profiles. A
// variant only contributes its name and identifier sequence.
type cyclic struct {
	name   string
	base   string
	idents []string
}

func newCyclic(name, basedir string, idents []string) *cyclic {
	return &cyclic{name: name, base: filepath.Join(basedir, name), idents: idents}
}

func (p *cyclic) Name() string { return p.name }

func (p *cyclic) Identifiers() []string {
	return append([]string(nil), p.idents...)
}

// CurrentStorage resolves the slot for the reference time. An existing
// slot is resolved to its real path; a slot not yet on disk is
// returned as named.
func (p *cyclic) CurrentStorage() string {
	return resolveSlot(filepath.Join(p.base, p.idents[0]))
}

// PreviousStorage walks the identifier cycle backwards in time and
// returns the first slot that exists on disk. Gaps from missed runs
// are skipped. The walk stops once the cycle wraps back to the
// current identifier.
func (p *cyclic) PreviousStorage() (string, bool) {
	for _, id := range p.idents[1:] {
		if id == p.idents[0] {
			return "", false
		}
		slot := filepath.Join(p.base, id)
		if _, err := os.Stat(slot); err != nil {
			continue
		}
		return resolveSlot(slot), true
	}
	return "", false
}

func resolveSlot(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

// DefaultSubdailyInterval is the slot width of the subdaily profile:
// one slot each five minutes, 288 per day.
const DefaultSubdailyInterval = 5 * time.Minute

// NewSubdaily returns the profile cycling through one day of
// interval-aligned slots named HH.MM.SS.
func NewSubdaily(basedir string, now time.Time) Profile {
	return NewSubdailyInterval(basedir, now, DefaultSubdailyInterval)
}

// NewHourly is the subdaily profile with a one hour interval, 24 slots.
func NewHourly(basedir string, now time.Time) Profile {
	return newSubdaily("hourly", basedir, now, time.Hour)
}

// NewSubdailyInterval returns the subdaily profile with a custom slot
// width.
func NewSubdailyInterval(basedir string, now time.Time, interval time.Duration) Profile {
	return newSubdaily("subdaily", basedir, now, interval)
}

func newSubdaily(name, basedir string, now time.Time, interval time.Duration) Profile {
	return newCyclic(name, basedir, subdailyIdentifiers(now, interval))
}

// subdailyIdentifiers floors now to the interval boundary, then steps
// backwards one interval at a time until a full day is covered. Two
// runs within the same interval therefore address the same slot.
func subdailyIdentifiers(now time.Time, interval time.Duration) []string {
	const day = 24 * time.Hour

	aligned := now.Truncate(interval)
	idents := make([]string, 0, int(day/interval))
	for diff := time.Duration(0); diff < day; diff += interval {
		idents = append(idents, aligned.Add(-diff).Format("15.04.05"))
	}
	return idents
}

// NewMonthly returns the profile cycling through 12 monthly slots.
func NewMonthly(basedir string, now time.Time) Profile {
	return newCyclic("monthly", basedir, monthlyIdentifiers(now))
}

func monthlyIdentifiers(now time.Time) []string {
	month := int(now.Month())
	idents := make([]string, 0, 12)
	for m := month + 12; m > month; m-- {
		mm := m % 12
		if mm == 0 {
			mm = 12
		}
		idents = append(idents, fmt.Sprintf("%02d", mm))
	}
	return idents
}

// NewWeekly returns the profile cycling through ISO week numbers for
// slightly over a year. ISO weeks do not align with calendar years, so
// the first and last identifiers of the cycle may repeat a week
// number; that is expected.
func NewWeekly(basedir string, now time.Time) Profile {
	return newCyclic("weekly", basedir, weeklyIdentifiers(now))
}

func weeklyIdentifiers(now time.Time) []string {
	const (
		week = 7 * 24 * time.Hour
		year = 367 * 24 * time.Hour
	)

	var idents []string
	for diff := time.Duration(0); diff < year; diff += week {
		_, wk := now.Add(-diff).ISOWeek()
		idents = append(idents, fmt.Sprintf("%02d", wk))
	}
	return idents
}

// NewMonthday returns the profile cycling through day-of-month slots,
// stepping backwards one day at a time from the reference time until
// the same day of the previous calendar month is reached. Depending on
// the month that is 28 to 31 slots.
func NewMonthday(basedir string, now time.Time) Profile {
	return newCyclic("monthday", basedir, monthdayIdentifiers(now))
}

func monthdayIdentifiers(now time.Time) []string {
	prev := now.AddDate(0, -1, 0)
	var idents []string
	for counter := now; counter.After(prev); counter = counter.AddDate(0, 0, -1) {
		idents = append(idents, fmt.Sprintf("%02d", counter.Day()))
	}
	return idents
}

// NewWeekday returns the profile cycling through the 7 ISO weekday
// slots (1=Monday .. 7=Sunday).
func NewWeekday(basedir string, now time.Time) Profile {
	return newCyclic("weekday", basedir, weekdayIdentifiers(now))
}

func weekdayIdentifiers(now time.Time) []string {
	wd := isoWeekday(now)
	idents := make([]string, 0, 7)
	for d := wd + 7; d > wd; d-- {
		n := d % 7
		if n == 0 {
			n = 7
		}
		idents = append(idents, strconv.Itoa(n))
	}
	return idents
}

// isoWeekday maps Go's Sunday-based weekday to ISO numbering.
func isoWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}
