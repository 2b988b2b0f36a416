package utils

import (
	"testing"
	"time"
)

func TestWindowAtKnownPeriods(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		raw  string
		days int
	}{
		{"1d", 1},
		{"7d", 7},
		{"30d", 30},
		{"90d", 90},
	}
	for _, tc := range cases {
		w := windowAt(tc.raw, "7d", now)
		if w.Period != tc.raw {
			t.Fatalf("%s: period = %q", tc.raw, w.Period)
		}
		if got := w.Days(); got != tc.days {
			t.Fatalf("%s: days = %d, want %d", tc.raw, got, tc.days)
		}
		if !w.End.Equal(now) {
			t.Fatalf("%s: end = %v, want %v", tc.raw, w.End, now)
		}
		wantStart := now.Add(-time.Duration(tc.days) * 24 * time.Hour)
		if !w.Start.Equal(wantStart) {
			t.Fatalf("%s: start = %v, want %v", tc.raw, w.Start, wantStart)
		}
		// The comparison window immediately precedes the current one and
		// has equal length.
		if got := w.Start.Sub(w.PrevStart); got != w.End.Sub(w.Start) {
			t.Fatalf("%s: previous window length %v != current %v", tc.raw, got, w.End.Sub(w.Start))
		}
	}
}

func TestWindowAtFallback(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	for _, raw := range []string{"", "2w", "365d", "junk"} {
		w := windowAt(raw, "30d", now)
		if w.Period != "30d" || w.Days() != 30 {
			t.Fatalf("%q: fell back to %q (%d days), want 30d", raw, w.Period, w.Days())
		}
	}
}

func TestGrowth(t *testing.T) {
	cases := []struct {
		current, previous, want float64
	}{
		{250, 200, 25},
		{0, 0, 0},
		{100, 0, 0}, // zero previous window is defined as zero growth
		{50, 200, -75},
		{201, 200, 0.5},
		{1, 3, -66.67}, // rounded to two decimals
	}
	for _, tc := range cases {
		if got := Growth(tc.current, tc.previous); got != tc.want {
			t.Fatalf("Growth(%v, %v) = %v, want %v", tc.current, tc.previous, got, tc.want)
		}
	}
}
