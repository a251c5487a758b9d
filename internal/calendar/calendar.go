// Package calendar abstracts the calendar system a business schedules under.
// The engine always computes in absolute time.Time values; a System only
// decides how an instant maps to calendar fields, which weekday index a rule
// row refers to, and how holiday month/day matching is evaluated.
package calendar

import (
	"errors"
	"time"
)

var ErrInvalidDate = errors.New("calendar: invalid date")

const (
	SystemGregorian = "gregorian"
	SystemJalali    = "jalali"
)

type System interface {
	Name() string

	// FromTime maps an instant (in its own location) to calendar fields.
	FromTime(t time.Time) (year, month, day int)

	// Date maps calendar fields to local midnight of that day.
	// Returns ErrInvalidDate for out-of-range fields.
	Date(year, month, day int, loc *time.Location) (time.Time, error)

	// DayOfWeek returns the 0-based weekday index under the system's week
	// convention (Gregorian weeks start Sunday, Jalali weeks start Saturday).
	// Working-hours rules are keyed by this index.
	DayOfWeek(t time.Time) int

	WeekdayName(index int) string
}

// ByName resolves a configured calendar system, defaulting to Gregorian for
// unknown values so a bad profile row cannot break slot computation.
func ByName(name string) System {
	if name == SystemJalali {
		return Jalali{}
	}
	return Gregorian{}
}
