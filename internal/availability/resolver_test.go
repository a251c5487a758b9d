package availability

import (
	"testing"
	"time"

	"github.com/tempora-app/tempora/internal/calendar"
	"github.com/tempora-app/tempora/internal/model"
)

const (
	bizID   = "biz-1"
	staffID = "staff-1"
)

func gregorianDay(y int, m time.Month, d int) Day {
	return Day{
		Midnight: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Location: time.UTC,
		System:   calendar.Gregorian{},
	}
}

func orgRule(weekday, startMin, endMin int) model.WorkingHoursRule {
	return model.WorkingHoursRule{
		BusinessID:  bizID,
		Weekday:     weekday,
		StartMinute: startMin,
		EndMinute:   endMin,
		Active:      true,
	}
}

func TestResolve_OrgDefaultRule(t *testing.T) {
	day := gregorianDay(2026, 3, 2) // a Monday
	rules := []model.WorkingHoursRule{orgRule(1, 9*60, 12*60)}

	got := ResolveOpenIntervals(rules, nil, nil, day, staffID)
	if len(got) != 1 {
		t.Fatalf("expected 1 window, got %d", len(got))
	}
	if !got[0].Start.Equal(day.Midnight.Add(9*time.Hour)) || !got[0].End.Equal(day.Midnight.Add(12*time.Hour)) {
		t.Fatalf("window = %v", got[0])
	}
}

func TestResolve_StaffOverrideWins(t *testing.T) {
	day := gregorianDay(2026, 3, 2)
	staff := orgRule(1, 14*60, 18*60)
	staff.StaffID = staffID
	rules := []model.WorkingHoursRule{orgRule(1, 9*60, 12*60), staff}

	got := ResolveOpenIntervals(rules, nil, nil, day, staffID)
	if len(got) != 1 {
		t.Fatalf("expected 1 window, got %d", len(got))
	}
	if !got[0].Start.Equal(day.Midnight.Add(14 * time.Hour)) {
		t.Fatalf("staff override ignored: %v", got[0])
	}

	// Another staff member still gets the organization default.
	got = ResolveOpenIntervals(rules, nil, nil, day, "staff-2")
	if len(got) != 1 || !got[0].Start.Equal(day.Midnight.Add(9*time.Hour)) {
		t.Fatalf("expected org default for other staff, got %v", got)
	}
}

func TestResolve_NoRuleOrInactive(t *testing.T) {
	day := gregorianDay(2026, 3, 2)

	if got := ResolveOpenIntervals(nil, nil, nil, day, staffID); got != nil {
		t.Fatalf("no rules should mean closed, got %v", got)
	}

	inactive := orgRule(1, 9*60, 12*60)
	inactive.Active = false
	if got := ResolveOpenIntervals([]model.WorkingHoursRule{inactive}, nil, nil, day, staffID); got != nil {
		t.Fatalf("inactive rule should mean closed, got %v", got)
	}

	// A rule for a different weekday does not apply.
	if got := ResolveOpenIntervals([]model.WorkingHoursRule{orgRule(2, 9*60, 12*60)}, nil, nil, day, staffID); got != nil {
		t.Fatalf("tuesday rule applied on monday: %v", got)
	}
}

func TestResolve_MalformedRuleIsClosedNotPanic(t *testing.T) {
	day := gregorianDay(2026, 3, 2)
	for _, r := range []model.WorkingHoursRule{
		orgRule(1, 12*60, 9*60),  // inverted
		orgRule(1, 10*60, 10*60), // zero length
		orgRule(1, -30, 9*60),    // negative start
		orgRule(1, 9*60, 25*60),  // past midnight
	} {
		if got := ResolveOpenIntervals([]model.WorkingHoursRule{r}, nil, nil, day, staffID); got != nil {
			t.Errorf("malformed rule %+v produced %v", r, got)
		}
	}
}

func TestResolve_ExactHoliday(t *testing.T) {
	day := gregorianDay(2026, 3, 2)
	rules := []model.WorkingHoursRule{orgRule(1, 9*60, 17*60)}
	holidays := []model.Holiday{{
		BusinessID: bizID, Name: "Founders Day",
		Year: 2026, Month: 3, Day: 2,
		Calendar: calendar.SystemGregorian,
	}}

	if got := ResolveOpenIntervals(rules, holidays, nil, day, staffID); got != nil {
		t.Fatalf("holiday should close the day, got %v", got)
	}

	// Same month/day a year later is open again: the holiday is not recurring.
	nextYear := gregorianDay(2027, 3, 2)
	if got := ResolveOpenIntervals(rules, holidays, nil, nextYear, staffID); len(got) != 1 {
		t.Fatalf("non-recurring holiday leaked into 2027: %v", got)
	}
}

func TestResolve_RecurringHolidayEveryYear(t *testing.T) {
	// Recurring month=3 day=21 excludes 2024-03-21 and 2025-03-21 identically.
	rules := []model.WorkingHoursRule{
		orgRule(0, 9*60, 17*60), orgRule(1, 9*60, 17*60), orgRule(2, 9*60, 17*60),
		orgRule(3, 9*60, 17*60), orgRule(4, 9*60, 17*60), orgRule(5, 9*60, 17*60),
		orgRule(6, 9*60, 17*60),
	}
	holidays := []model.Holiday{{
		BusinessID: bizID, Name: "Equinox",
		Month: 3, Day: 21, Recurring: true,
		Calendar: calendar.SystemGregorian,
	}}

	for _, y := range []int{2024, 2025} {
		day := gregorianDay(y, 3, 21)
		if got := ResolveOpenIntervals(rules, holidays, nil, day, staffID); got != nil {
			t.Errorf("%d-03-21 should be closed, got %v", y, got)
		}
		open := gregorianDay(y, 3, 22)
		if got := ResolveOpenIntervals(rules, holidays, nil, open, staffID); len(got) != 1 {
			t.Errorf("%d-03-22 should be open, got %v", y, got)
		}
	}
}

func TestResolve_JalaliRecurringHoliday(t *testing.T) {
	// Nowruz: Jalali 1/1 recurs on different Gregorian dates each year.
	rules := []model.WorkingHoursRule{
		orgRule(0, 9*60, 17*60), orgRule(1, 9*60, 17*60), orgRule(2, 9*60, 17*60),
		orgRule(3, 9*60, 17*60), orgRule(4, 9*60, 17*60), orgRule(5, 9*60, 17*60),
		orgRule(6, 9*60, 17*60),
	}
	holidays := []model.Holiday{{
		BusinessID: bizID, Name: "Nowruz",
		Month: 1, Day: 1, Recurring: true,
		Calendar: calendar.SystemJalali,
	}}

	for _, d := range []struct{ y, m, d int }{{2024, 3, 20}, {2025, 3, 21}} {
		day := gregorianDay(d.y, time.Month(d.m), d.d)
		if got := ResolveOpenIntervals(rules, holidays, nil, day, staffID); got != nil {
			t.Errorf("Nowruz %d should be closed, got %v", d.y, got)
		}
	}
}

func TestResolve_TimeOffSplitsWindow(t *testing.T) {
	day := gregorianDay(2026, 3, 2)
	rules := []model.WorkingHoursRule{orgRule(1, 9*60, 17*60)}
	timeOff := []model.TimeOff{{
		StaffID:   staffID,
		StartTime: day.Midnight.Add(12 * time.Hour),
		EndTime:   day.Midnight.Add(13 * time.Hour),
	}}

	got := ResolveOpenIntervals(rules, nil, timeOff, day, staffID)
	if len(got) != 2 {
		t.Fatalf("expected 2 windows, got %d: %v", len(got), got)
	}
	if !got[0].End.Equal(day.Midnight.Add(12*time.Hour)) || !got[1].Start.Equal(day.Midnight.Add(13*time.Hour)) {
		t.Fatalf("windows = %v", got)
	}

	// Other staff members are unaffected by this block.
	got = ResolveOpenIntervals(rules, nil, timeOff, day, "staff-2")
	if len(got) != 1 {
		t.Fatalf("time off leaked to other staff: %v", got)
	}
}

func TestResolve_JalaliWeekdayConvention(t *testing.T) {
	// Under the Jalali convention index 0 is Saturday. A weekday-0 rule must
	// open Saturdays, not Sundays.
	day := Day{
		Midnight: time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), // a Saturday
		Location: time.UTC,
		System:   calendar.Jalali{},
	}
	rules := []model.WorkingHoursRule{orgRule(0, 9*60, 12*60)}
	if got := ResolveOpenIntervals(rules, nil, nil, day, staffID); len(got) != 1 {
		t.Fatalf("saturday should be open under jalali weekday 0, got %v", got)
	}

	sunday := Day{
		Midnight: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Location: time.UTC,
		System:   calendar.Jalali{},
	}
	if got := ResolveOpenIntervals(rules, nil, nil, sunday, staffID); got != nil {
		t.Fatalf("sunday should be closed under jalali weekday 0, got %v", got)
	}
}
