package timeutil

import (
	"testing"
	"time"
)

func TestMerge(t *testing.T) {
	cases := []struct {
		name string
		in   []Interval
		want []Interval
	}{
		{"empty", nil, nil},
		{
			"overlapping",
			[]Interval{{1, 5}, {3, 7}, {8, 10}, {9, 12}},
			[]Interval{{1, 7}, {8, 12}},
		},
		{
			"already disjoint",
			[]Interval{{0, 1}, {5, 6}},
			[]Interval{{0, 1}, {5, 6}},
		},
		{
			"unsorted input",
			[]Interval{{10, 12}, {0, 2}, {1, 3}},
			[]Interval{{0, 3}, {10, 12}},
		},
		{
			"empty interval dropped",
			[]Interval{{5, 5}, {1, 2}},
			[]Interval{{1, 2}},
		},
		{
			"adjacent coalesce",
			[]Interval{{0, 5}, {5, 10}},
			[]Interval{{0, 10}},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Merge(c.in)
			if len(got) != len(c.want) {
				t.Fatalf("Merge(%v) = %v, want %v", c.in, got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("Merge(%v) = %v, want %v", c.in, got, c.want)
				}
			}
		})
	}
}

func TestProjectMinutesMonotonic(t *testing.T) {
	origin := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	t1 := origin.Add(90 * time.Second)
	t2 := origin.Add(3 * time.Minute)

	if ProjectMinutes(origin, t1) > ProjectMinutes(origin, t2) {
		t.Fatalf("projection not monotonic")
	}
	if ProjectMinutes(origin, origin) != 0 {
		t.Fatalf("origin should project to 0")
	}
}

func TestAbsoluteFromMinutesRoundTrip(t *testing.T) {
	origin := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	got := AbsoluteFromMinutes(origin, 90)
	want := origin.Add(90 * time.Minute)
	if !got.Equal(want) {
		t.Fatalf("AbsoluteFromMinutes = %v, want %v", got, want)
	}
}

func TestWeekday0Mon(t *testing.T) {
	mon := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	sun := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	if Weekday0Mon(mon) != 0 {
		t.Fatalf("Monday should be 0, got %d", Weekday0Mon(mon))
	}
	if Weekday0Mon(sun) != 6 {
		t.Fatalf("Sunday should be 6, got %d", Weekday0Mon(sun))
	}
}

func TestClipToHorizon(t *testing.T) {
	hs := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	he := time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)

	s, e := ClipToHorizon(hs.Add(-time.Hour), he.Add(time.Hour), hs, he)
	if !s.Equal(hs) || !e.Equal(he) {
		t.Fatalf("expected full clip to horizon, got [%v, %v)", s, e)
	}
}
