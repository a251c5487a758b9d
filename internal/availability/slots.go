package availability

import "time"

// Slots returns slot start times within the window where a booking of length
// duration would not overlap any of the busy intervals. Candidates step
// through the window at the given granularity; starts before now are skipped.
//
// All times are expected to be in the same location (timezone).
func Slots(window Interval, duration, step time.Duration, busy []Interval, now time.Time) []time.Time {
	if duration <= 0 || step <= 0 {
		return nil
	}
	if !window.Valid() {
		return nil
	}
	if window.Start.Add(duration).After(window.End) {
		return nil
	}

	var slots []time.Time
	for t := window.Start; !t.Add(duration).After(window.End); t = t.Add(step) {
		if t.Before(now) {
			continue
		}
		if !overlapsAny(t, t.Add(duration), busy) {
			slots = append(slots, t)
		}
	}
	return slots
}

func overlapsAny(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		// Half-open intervals: [start,end) overlaps [b.Start,b.End) iff start < b.End && b.Start < end.
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}
