package availability

import (
	"testing"
	"time"
)

func at(day time.Time, h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func TestSlots_FullMorning(t *testing.T) {
	// Mon 09:00-12:00, 60 minute service, no bookings: 09:00, 10:00, 11:00.
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	win := Interval{Start: at(day, 9, 0), End: at(day, 12, 0)}

	slots := Slots(win, time.Hour, time.Hour, nil, day)
	want := []time.Time{at(day, 9, 0), at(day, 10, 0), at(day, 11, 0)}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i := range want {
		if !slots[i].Equal(want[i]) {
			t.Errorf("slot %d = %s, want %s", i, slots[i], want[i])
		}
	}
}

func TestSlots_ExistingBookingSplitsDay(t *testing.T) {
	// Same morning with a confirmed 10:00-11:00 booking: 09:00 and 11:00 only.
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	win := Interval{Start: at(day, 9, 0), End: at(day, 12, 0)}
	busy := []Interval{{Start: at(day, 10, 0), End: at(day, 11, 0)}}

	slots := Slots(win, time.Hour, time.Hour, busy, day)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if !slots[0].Equal(at(day, 9, 0)) || !slots[1].Equal(at(day, 11, 0)) {
		t.Fatalf("got %s and %s", slots[0], slots[1])
	}
}

func TestSlots_SkipsPastStarts(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	win := Interval{Start: at(day, 9, 0), End: at(day, 12, 0)}

	now := at(day, 10, 30)
	slots := Slots(win, time.Hour, time.Hour, nil, now)
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if !slots[0].Equal(at(day, 11, 0)) {
		t.Fatalf("expected 11:00, got %s", slots[0])
	}
}

func TestSlots_DurationLongerThanWindow(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	win := Interval{Start: at(day, 9, 0), End: at(day, 10, 0)}

	if slots := Slots(win, 2*time.Hour, 2*time.Hour, nil, day); slots != nil {
		t.Fatalf("expected no slots, got %v", slots)
	}
}

func TestSlots_StepFinerThanDuration(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	win := Interval{Start: at(day, 9, 0), End: at(day, 10, 0)}

	slots := Slots(win, 30*time.Minute, 15*time.Minute, nil, day)
	// 09:00, 09:15, 09:30 (09:45+30m overruns the window).
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	if !slots[2].Equal(at(day, 9, 30)) {
		t.Fatalf("last slot = %s, want 09:30", slots[2])
	}
}

func TestSlots_InvalidInputs(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	win := Interval{Start: at(day, 9, 0), End: at(day, 12, 0)}
	if Slots(win, 0, time.Hour, nil, day) != nil {
		t.Fatal("zero duration must yield nothing")
	}
	if Slots(Interval{Start: at(day, 12, 0), End: at(day, 9, 0)}, time.Hour, time.Hour, nil, day) != nil {
		t.Fatal("inverted window must yield nothing")
	}
}

func TestSubtract_SplitsAndMerges(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	base := Interval{Start: at(day, 9, 0), End: at(day, 17, 0)}
	blocks := []Interval{
		{Start: at(day, 12, 0), End: at(day, 13, 0)},
		{Start: at(day, 12, 30), End: at(day, 13, 30)}, // overlaps previous
		{Start: at(day, 8, 0), End: at(day, 9, 30)},    // clipped to base
		{Start: at(day, 20, 0), End: at(day, 21, 0)},   // outside base
	}

	got := Subtract(base, blocks)
	want := []Interval{
		{Start: at(day, 9, 30), End: at(day, 12, 0)},
		{Start: at(day, 13, 30), End: at(day, 17, 0)},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d windows, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Start.Equal(want[i].Start) || !got[i].End.Equal(want[i].End) {
			t.Errorf("window %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSubtract_FullCover(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	base := Interval{Start: at(day, 9, 0), End: at(day, 12, 0)}
	if got := Subtract(base, []Interval{{Start: at(day, 8, 0), End: at(day, 13, 0)}}); len(got) != 0 {
		t.Fatalf("expected no windows, got %v", got)
	}
}

func TestSubtract_NoBlocks(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	base := Interval{Start: at(day, 9, 0), End: at(day, 12, 0)}
	got := Subtract(base, nil)
	if len(got) != 1 || !got[0].Start.Equal(base.Start) || !got[0].End.Equal(base.End) {
		t.Fatalf("expected base back, got %v", got)
	}
}
