// Package policy converts a scheduled shift into worked hours and the break
// minutes owed under the configured break policy.
package policy

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// ErrInvalidTime is returned for a time of day not in "HH:MM" form
var ErrInvalidTime = errors.New("time must be in HH:MM form")

// BreakPolicy selects which break rules apply
type BreakPolicy string

const (
	// VariantA gives minors 30 minutes unconditionally; adults 30 from 6h, 15 from 4.5h.
	VariantA BreakPolicy = "A"
	// VariantB gives minors 30 minutes from 4.5h only. For adults only the
	// first of its two ">= 6h" checks can fire, so 6h and over earns no break.
	// The adult 15 minutes from 4.5h is assumed: the recorded rule only has
	// the two 6h checks, and 4.5h to 6h is taken from VariantA.
	VariantB BreakPolicy = "B"
)

// ParseBreakPolicy parses a config value; empty means VariantA
func ParseBreakPolicy(s string) (BreakPolicy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "A":
		return VariantA, nil
	case "B":
		return VariantB, nil
	}
	return "", fmt.Errorf("unknown break policy %q (want A or B)", s)
}

// ParseClock converts "HH:MM" into fractional hours since midnight
func ParseClock(s string) (float64, error) {
	if !db.IsClock(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hour, _ := strconv.Atoi(s[:2])
	minute, _ := strconv.Atoi(s[3:])
	return float64(hour) + float64(minute)/60, nil
}

// CalculateWorkHours returns end minus start in hours, adding 24 hours when the
// shift crosses midnight. Either value empty yields 0. Malformed values are not
// guarded and yield NaN; use WorkHours when the input is untrusted.
func CalculateWorkHours(start, end string) float64 {
	if start == "" || end == "" {
		return 0
	}

	s := looseClock(start)
	e := looseClock(end)
	if e < s {
		e += 24
	}
	return e - s
}

// WorkHours is CalculateWorkHours with format validation
func WorkHours(start, end string) (float64, error) {
	if _, err := ParseClock(start); err != nil {
		return 0, fmt.Errorf("invalid start time: %w", err)
	}
	if _, err := ParseClock(end); err != nil {
		return 0, fmt.Errorf("invalid end time: %w", err)
	}
	return CalculateWorkHours(start, end), nil
}

// looseClock splits on ':' and converts each part, returning NaN for anything
// that is not a number
func looseClock(s string) float64 {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return math.NaN()
	}
	hour, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return math.NaN()
	}
	minute, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return math.NaN()
	}
	return hour + minute/60
}

// CalculateBreakTime returns the break minutes owed to staff for a shift of
// workHours. A nil staff member owes nothing.
func CalculateBreakTime(p BreakPolicy, staff *db.Staff, workHours float64) int {
	if staff == nil {
		return 0
	}
	return BreakMinutes(p, staff.IsUnder18, workHours)
}

// BreakMinutes applies the policy to the raw inputs
func BreakMinutes(p BreakPolicy, isMinor bool, workHours float64) int {
	if p == VariantB {
		return variantB(isMinor, workHours)
	}
	return variantA(isMinor, workHours)
}

func variantA(isMinor bool, workHours float64) int {
	if isMinor {
		return 30
	}
	switch {
	case workHours >= 6:
		return 30
	case workHours >= 4.5:
		return 15
	}
	return 0
}

func variantB(isMinor bool, workHours float64) int {
	if isMinor {
		if workHours >= 4.5 {
			return 30
		}
		return 0
	}
	switch {
	case workHours >= 6:
		return 0
	case workHours >= 4.5:
		return 15
	}
	return 0
}
