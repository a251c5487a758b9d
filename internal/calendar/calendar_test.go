package calendar

import (
	"testing"
	"time"
)

func TestGregorianDate_RejectsOverflow(t *testing.T) {
	g := Gregorian{}
	if _, err := g.Date(2024, 2, 30, time.UTC); err != ErrInvalidDate {
		t.Fatalf("expected ErrInvalidDate for Feb 30, got %v", err)
	}
	if _, err := g.Date(2024, 13, 1, time.UTC); err != ErrInvalidDate {
		t.Fatalf("expected ErrInvalidDate for month 13, got %v", err)
	}
	d, err := g.Date(2024, 2, 29, time.UTC)
	if err != nil {
		t.Fatalf("2024-02-29 should be valid: %v", err)
	}
	if !d.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %s", d)
	}
}

func TestJalaliConversion_KnownDates(t *testing.T) {
	cases := []struct {
		gy, gm, gd int
		jy, jm, jd int
	}{
		{2024, 3, 20, 1403, 1, 1},  // Nowruz 1403
		{2025, 3, 21, 1404, 1, 1},  // Nowruz 1404
		{2000, 1, 1, 1378, 10, 11},
		{1979, 2, 11, 1357, 11, 22},
		{2026, 8, 29, 1405, 6, 7},
	}
	j := Jalali{}
	for _, c := range cases {
		gt := time.Date(c.gy, time.Month(c.gm), c.gd, 0, 0, 0, 0, time.UTC)
		jy, jm, jd := j.FromTime(gt)
		if jy != c.jy || jm != c.jm || jd != c.jd {
			t.Errorf("FromTime(%04d-%02d-%02d) = %d/%d/%d, want %d/%d/%d",
				c.gy, c.gm, c.gd, jy, jm, jd, c.jy, c.jm, c.jd)
		}
		back, err := j.Date(c.jy, c.jm, c.jd, time.UTC)
		if err != nil {
			t.Fatalf("Date(%d/%d/%d) failed: %v", c.jy, c.jm, c.jd, err)
		}
		if !back.Equal(gt) {
			t.Errorf("Date(%d/%d/%d) = %s, want %s", c.jy, c.jm, c.jd, back, gt)
		}
	}
}

func TestJalaliConversion_RoundTripRange(t *testing.T) {
	j := Jalali{}
	// Walk a decade day by day and require an exact round trip.
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 3653; d++ {
		gt := start.AddDate(0, 0, d)
		jy, jm, jd := j.FromTime(gt)
		back, err := j.Date(jy, jm, jd, time.UTC)
		if err != nil {
			t.Fatalf("Date(%d/%d/%d) failed: %v", jy, jm, jd, err)
		}
		if !back.Equal(gt) {
			t.Fatalf("round trip broke at %s: got %s via %d/%d/%d", gt, back, jy, jm, jd)
		}
	}
}

func TestJalaliLeapYears(t *testing.T) {
	leap := map[int]bool{1399: true, 1403: true, 1408: true, 1400: false, 1404: false}
	for jy, want := range leap {
		if got := jalaliLeap(jy); got != want {
			t.Errorf("jalaliLeap(%d) = %v, want %v", jy, got, want)
		}
	}
	if got := jalaliMonthLen(1403, 12); got != 30 {
		t.Errorf("Esfand 1403 should have 30 days, got %d", got)
	}
	if got := jalaliMonthLen(1404, 12); got != 29 {
		t.Errorf("Esfand 1404 should have 29 days, got %d", got)
	}
}

func TestJalaliDate_RejectsInvalid(t *testing.T) {
	j := Jalali{}
	for _, c := range [][3]int{{1404, 12, 30}, {1403, 13, 1}, {1403, 0, 1}, {1403, 7, 31}, {900, 1, 1}} {
		if _, err := j.Date(c[0], c[1], c[2], time.UTC); err != ErrInvalidDate {
			t.Errorf("Date(%d/%d/%d): expected ErrInvalidDate, got %v", c[0], c[1], c[2], err)
		}
	}
}

func TestDayOfWeekConventions(t *testing.T) {
	// 2024-03-20 was a Wednesday.
	wed := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	if got := (Gregorian{}).DayOfWeek(wed); got != 3 {
		t.Errorf("Gregorian DayOfWeek(Wednesday) = %d, want 3", got)
	}
	// Jalali weeks start Saturday: Wednesday is index 4.
	if got := (Jalali{}).DayOfWeek(wed); got != 4 {
		t.Errorf("Jalali DayOfWeek(Wednesday) = %d, want 4", got)
	}
	sat := time.Date(2024, 3, 23, 0, 0, 0, 0, time.UTC)
	if got := (Jalali{}).DayOfWeek(sat); got != 0 {
		t.Errorf("Jalali DayOfWeek(Saturday) = %d, want 0", got)
	}
}

func TestByName(t *testing.T) {
	if ByName("jalali").Name() != SystemJalali {
		t.Fatal("expected jalali system")
	}
	if ByName("").Name() != SystemGregorian {
		t.Fatal("expected gregorian fallback")
	}
	if ByName("lunar-made-up").Name() != SystemGregorian {
		t.Fatal("unknown systems fall back to gregorian")
	}
}
