// Package timeutil provides the interval and minute-projection arithmetic
// shared by the recurrence expander and the scheduling model builder. All
// scheduling math happens in integer minutes relative to a horizon origin;
// this package is the only place that converts between that space and
// absolute UTC datetimes.
package timeutil

import "time"

// Interval is a half-open range [Start, End) expressed in integer minutes
// relative to some horizon origin.
type Interval struct {
	Start int
	End   int
}

// Len returns the interval's length in minutes.
func (iv Interval) Len() int { return iv.End - iv.Start }

// Merge sorts and coalesces overlapping or adjacent intervals into the
// minimal disjoint set covering the same union. Intervals with Start >= End
// are treated as empty and dropped.
func Merge(intervals []Interval) []Interval {
	filtered := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Start < iv.End {
			filtered = append(filtered, iv)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	sortIntervals(filtered)

	merged := make([]Interval, 0, len(filtered))
	cur := filtered[0]
	for _, iv := range filtered[1:] {
		if iv.Start <= cur.End {
			if iv.End > cur.End {
				cur.End = iv.End
			}
			continue
		}
		merged = append(merged, cur)
		cur = iv
	}
	merged = append(merged, cur)
	return merged
}

func sortIntervals(ivs []Interval) {
	// Small slices (forbidden zones over a bounded horizon); simple
	// insertion sort avoids pulling in sort.Slice's closure overhead.
	for i := 1; i < len(ivs); i++ {
		for j := i; j > 0 && ivs[j].Start < ivs[j-1].Start; j-- {
			ivs[j], ivs[j-1] = ivs[j-1], ivs[j]
		}
	}
}

// ProjectMinutes converts an absolute UTC datetime into an integer minute
// offset relative to origin, truncating toward zero. Monotonic: t1 < t2
// implies ProjectMinutes(origin, t1) <= ProjectMinutes(origin, t2).
func ProjectMinutes(origin, t time.Time) int {
	return int(t.Sub(origin).Seconds()) / 60
}

// AbsoluteFromMinutes is the inverse of ProjectMinutes.
func AbsoluteFromMinutes(origin time.Time, minutes int) time.Time {
	return origin.Add(time.Duration(minutes) * time.Minute)
}

// ClipToHorizon clips [start, end) to [horizonStart, horizonEnd). The
// result may be empty (Start >= End) if there is no overlap.
func ClipToHorizon(start, end, horizonStart, horizonEnd time.Time) (time.Time, time.Time) {
	if start.Before(horizonStart) {
		start = horizonStart
	}
	if end.After(horizonEnd) {
		end = horizonEnd
	}
	return start, end
}

// CombineDate returns a UTC datetime at the given date with the wall-clock
// time of the day carried from wallClock (hour/minute/second only).
func CombineDate(date time.Time, wallClock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		wallClock.Hour(), wallClock.Minute(), wallClock.Second(), 0, time.UTC)
}

// EndOfDay returns the last representable instant of the given date
// (23:59:59.999999 UTC).
func EndOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		23, 59, 59, 999999000, time.UTC)
}

// StartOfDay returns midnight UTC of the given date.
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same UTC calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsWeekend reports whether t's UTC weekday is Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Weekday0Mon converts a time.Weekday (0=Sunday) to the spec's 0=Monday
// convention used by RecurringEvent.Recurrence and the GLOSSARY.
func Weekday0Mon(t time.Time) int {
	wd := int(t.Weekday())
	return (wd + 6) % 7
}
