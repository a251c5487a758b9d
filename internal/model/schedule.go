package model

import "time"

type BusinessProfile struct {
	BusinessID string
	Name       string
	Timezone   string
	Calendar   string // calendar.SystemGregorian / calendar.SystemJalali
}

type Service struct {
	ID           string
	BusinessID   string
	Name         string
	DurationMins int
	SlotStepMins int // 0 means the slot grid equals the service duration
	Active       bool
}

func (s Service) Duration() time.Duration {
	return time.Duration(s.DurationMins) * time.Minute
}

func (s Service) SlotStep() time.Duration {
	if s.SlotStepMins > 0 {
		return time.Duration(s.SlotStepMins) * time.Minute
	}
	return s.Duration()
}

// WorkingHoursRule is a weekly recurring open window. A rule with an empty
// StaffID is the organization default; a staff-specific rule for the same
// weekday overrides it. Minutes are measured from local midnight.
type WorkingHoursRule struct {
	BusinessID  string
	StaffID     string // empty for the organization default
	Weekday     int    // 0..6 under the business's calendar week convention
	StartMinute int
	EndMinute   int
	Active      bool
}

// WellFormed filters out inverted or out-of-range rows. Bad rows are treated
// as no availability rather than an error.
func (r WorkingHoursRule) WellFormed() bool {
	return r.StartMinute >= 0 && r.EndMinute <= 24*60 && r.StartMinute < r.EndMinute
}

// Holiday is a full-day closure. Recurring holidays match on month/day every
// year; the fields are interpreted under the holiday's own calendar system,
// so a Jalali 1/1 entry recurs on Nowruz whatever the Gregorian date is.
type Holiday struct {
	BusinessID string
	Name       string
	Year       int // 0 when recurring
	Month      int
	Day        int
	Recurring  bool
	Calendar   string
}

// TimeOff is an absolute blackout block for one staff member (vacation,
// appointments outside the system). Subtracted from the working window.
type TimeOff struct {
	ID        string
	StaffID   string
	StartTime time.Time
	EndTime   time.Time
	Reason    string
}
