package calendar

import "time"

type Gregorian struct{}

func (Gregorian) Name() string { return SystemGregorian }

func (Gregorian) FromTime(t time.Time) (int, int, int) {
	y, m, d := t.Date()
	return y, int(m), d
}

func (Gregorian) Date(year, month, day int, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, ErrInvalidDate
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	// time.Date normalizes overflow (e.g. Feb 30 becomes Mar 2); reject it.
	if y2, m2, d2 := t.Date(); y2 != year || int(m2) != month || d2 != day {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func (Gregorian) DayOfWeek(t time.Time) int { return int(t.Weekday()) }

var gregorianWeekdays = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

func (Gregorian) WeekdayName(index int) string {
	if index < 0 || index > 6 {
		return ""
	}
	return gregorianWeekdays[index]
}
