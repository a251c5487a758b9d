package availability

import (
	"sort"
	"time"
)

// Interval is a half-open [Start, End) time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) Valid() bool {
	return !iv.Start.IsZero() && !iv.End.IsZero() && iv.End.After(iv.Start)
}

func (iv Interval) Contains(start, end time.Time) bool {
	return !start.Before(iv.Start) && !end.After(iv.End)
}

func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Subtract removes the given blocks from base, returning the remaining
// disjoint intervals in ascending order. Blocks outside base are ignored;
// overlapping blocks are merged first.
func Subtract(base Interval, blocks []Interval) []Interval {
	if !base.Valid() {
		return nil
	}

	var clipped []Interval
	for _, b := range blocks {
		s, e := b.Start, b.End
		if !e.After(base.Start) || !s.Before(base.End) {
			continue
		}
		if s.Before(base.Start) {
			s = base.Start
		}
		if e.After(base.End) {
			e = base.End
		}
		if e.After(s) {
			clipped = append(clipped, Interval{Start: s, End: e})
		}
	}
	if len(clipped) == 0 {
		return []Interval{base}
	}

	sort.Slice(clipped, func(i, j int) bool { return clipped[i].Start.Before(clipped[j].Start) })
	merged := clipped[:1]
	for _, cur := range clipped[1:] {
		last := &merged[len(merged)-1]
		if !cur.Start.After(last.End) {
			if cur.End.After(last.End) {
				last.End = cur.End
			}
			continue
		}
		merged = append(merged, cur)
	}

	var out []Interval
	cursor := base.Start
	for _, b := range merged {
		if b.Start.After(cursor) {
			out = append(out, Interval{Start: cursor, End: b.Start})
		}
		cursor = b.End
	}
	if base.End.After(cursor) {
		out = append(out, Interval{Start: cursor, End: base.End})
	}
	return out
}

// Bounds returns the envelope of the given intervals, skipping invalid ones.
func Bounds(intervals []Interval) (time.Time, time.Time) {
	var min, max time.Time
	for _, iv := range intervals {
		if !iv.Valid() {
			continue
		}
		if min.IsZero() || iv.Start.Before(min) {
			min = iv.Start
		}
		if max.IsZero() || iv.End.After(max) {
			max = iv.End
		}
	}
	return min, max
}
