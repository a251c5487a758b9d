package availability

import (
	"time"

	"github.com/tempora-app/tempora/internal/calendar"
	"github.com/tempora-app/tempora/internal/model"
)

// Day pins a calendar day to a concrete business: local midnight, the
// business's timezone and the calendar system its rules are written under.
type Day struct {
	Midnight time.Time // local midnight of the day being resolved
	Location *time.Location
	System   calendar.System
}

// ResolveOpenIntervals turns recurring working-hours rules, holidays and
// staff time-off blocks into the concrete open windows for one day.
//
// Rule layering: a staff-specific rule for the weekday beats the organization
// default; no rule, or an inactive or malformed one, means closed. A holiday
// matching the day closes it entirely. Time-off blocks are subtracted from
// the working window, which may split it into several disjoint windows.
//
// The result is disjoint and sorted ascending; empty means no availability.
func ResolveOpenIntervals(
	rules []model.WorkingHoursRule,
	holidays []model.Holiday,
	timeOff []model.TimeOff,
	day Day,
	staffID string,
) []Interval {
	rule, ok := pickRule(rules, day.System.DayOfWeek(day.Midnight), staffID)
	if !ok || !rule.Active || !rule.WellFormed() {
		return nil
	}
	if isHoliday(holidays, day.Midnight) {
		return nil
	}

	base := Interval{
		Start: day.Midnight.Add(time.Duration(rule.StartMinute) * time.Minute),
		End:   day.Midnight.Add(time.Duration(rule.EndMinute) * time.Minute),
	}

	var blocks []Interval
	for _, t := range timeOff {
		if staffID == "" || t.StaffID != staffID {
			continue
		}
		blocks = append(blocks, Interval{Start: t.StartTime, End: t.EndTime})
	}
	return Subtract(base, blocks)
}

func pickRule(rules []model.WorkingHoursRule, weekday int, staffID string) (model.WorkingHoursRule, bool) {
	var orgRule model.WorkingHoursRule
	var orgFound bool
	for _, r := range rules {
		if r.Weekday != weekday {
			continue
		}
		if staffID != "" && r.StaffID == staffID {
			return r, true
		}
		if r.StaffID == "" && !orgFound {
			orgRule, orgFound = r, true
		}
	}
	return orgRule, orgFound
}

// isHoliday reports whether any holiday falls on the given local day. Each
// holiday is evaluated under its own calendar system, so recurring entries
// follow that calendar's months.
func isHoliday(holidays []model.Holiday, midnight time.Time) bool {
	for _, h := range holidays {
		y, m, d := calendar.ByName(h.Calendar).FromTime(midnight)
		if m != h.Month || d != h.Day {
			continue
		}
		if h.Recurring || h.Year == y {
			return true
		}
	}
	return false
}
