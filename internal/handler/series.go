package handler

import (
	"time"

	"github.com/iliyamo/commerce-admin-api/internal/repository"
)

const dayLayout = "2006-01-02"

// seriesDays lists every calendar date the half-open window [since, until)
// touches, oldest first.  Windows anchor at the current time, not at
// midnight, so a 30-day window usually spans 31 calendar dates: the
// partial first day and the partial current day both get a bucket.
func seriesDays(since, until time.Time) []string {
	first := since.UTC().Truncate(24 * time.Hour)
	last := until.UTC().Add(-time.Nanosecond).Truncate(24 * time.Hour)
	var out []string
	for d := first; !d.After(last); d = d.Add(24 * time.Hour) {
		out = append(out, d.Format(dayLayout))
	}
	return out
}

// fillDailySeries expands a sparse per-day sales result into one entry per
// calendar date the window touches, oldest first.  Dates absent from rows
// get a zero bucket.  Day keys from the repository are compared as
// YYYY-MM-DD strings in UTC.
func fillDailySeries(rows []repository.DaySales, since, until time.Time) []repository.DaySales {
	byDay := make(map[string]repository.DaySales, len(rows))
	for _, r := range rows {
		byDay[r.Day] = r
	}
	days := seriesDays(since, until)
	out := make([]repository.DaySales, 0, len(days))
	for _, key := range days {
		if r, ok := byDay[key]; ok {
			out = append(out, r)
		} else {
			out = append(out, repository.DaySales{Day: key})
		}
	}
	return out
}

// fillDayCounts does the same zero-fill for per-day counters.
func fillDayCounts(rows []repository.DayCount, since, until time.Time) []repository.DayCount {
	byDay := make(map[string]int64, len(rows))
	for _, r := range rows {
		byDay[r.Day] = r.Count
	}
	days := seriesDays(since, until)
	out := make([]repository.DayCount, 0, len(days))
	for _, key := range days {
		out = append(out, repository.DayCount{Day: key, Count: byDay[key]})
	}
	return out
}
