package handler

import (
	"testing"
	"time"

	"github.com/iliyamo/commerce-admin-api/internal/repository"
)

// Thirty days of fixture sales behind a mid-afternoon window anchor.  A
// rolling 30-day window cut at 14:30 touches 31 calendar dates (the
// partial first day and the partial current day), and the series must
// carry one entry per touched date, oldest first, with gaps zero-filled.
func TestFillDailySeriesWindowsFixture(t *testing.T) {
	until := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)
	since := until.Add(-30 * 24 * time.Hour) // 2025-05-11T14:30Z

	// Emulate the repository's grouped-by-date output for the dates the
	// window touches, leaving every third date without sales.
	var rows []repository.DaySales
	day := time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 31; i++ {
		if i%3 != 0 {
			rows = append(rows, repository.DaySales{
				Day:          day.Format(dayLayout),
				Orders:       1,
				RevenueCents: 1000,
			})
		}
		day = day.Add(24 * time.Hour)
	}

	got := fillDailySeries(rows, since, until)
	if len(got) != 31 {
		t.Fatalf("expected 31 day rows, got %d", len(got))
	}
	if got[0].Day != "2025-05-11" || got[len(got)-1].Day != "2025-06-10" {
		t.Fatalf("series spans %s..%s, want 2025-05-11..2025-06-10", got[0].Day, got[len(got)-1].Day)
	}
	for i, d := range got {
		want := time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC).
			Add(time.Duration(i) * 24 * time.Hour).Format(dayLayout)
		if d.Day != want {
			t.Fatalf("row %d: day = %s, want %s", i, d.Day, want)
		}
	}

	var orders, revenue int64
	for _, d := range got {
		orders += d.Orders
		revenue += d.RevenueCents
	}
	// 31 touched dates minus the 11 gap dates (every third i in 0..30).
	if orders != 20 || revenue != 20000 {
		t.Fatalf("window totals = %d orders / %d cents, want 20 / 20000", orders, revenue)
	}

	var zeros int
	for _, d := range got {
		if d.Orders == 0 && d.RevenueCents == 0 {
			zeros++
		}
	}
	if zeros != 11 {
		t.Fatalf("zero-filled days = %d, want 11", zeros)
	}
}

// A sale recorded earlier on the current (partial) day must appear in the
// series even though the window end falls mid-day.
func TestFillDailySeriesKeepsCurrentDay(t *testing.T) {
	until := time.Date(2025, 7, 10, 14, 30, 0, 0, time.UTC)
	since := until.Add(-30 * 24 * time.Hour)

	got := fillDailySeries([]repository.DaySales{
		{Day: "2025-07-10", Orders: 3, RevenueCents: 4500},
	}, since, until)

	if len(got) != 31 {
		t.Fatalf("expected 31 day rows, got %d", len(got))
	}
	last := got[len(got)-1]
	if last.Day != "2025-07-10" {
		t.Fatalf("last day = %s, want 2025-07-10", last.Day)
	}
	var orders int64
	for _, d := range got {
		orders += d.Orders
	}
	if orders != 3 {
		t.Fatalf("current day's orders dropped: sum = %d, want 3", orders)
	}
}

// Midnight-aligned windows touch exactly N dates, not N+1.
func TestFillDailySeriesMidnightAnchor(t *testing.T) {
	until := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	since := until.Add(-7 * 24 * time.Hour)

	got := fillDailySeries(nil, since, until)
	if len(got) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(got))
	}
	if got[0].Day != "2025-06-03" || got[6].Day != "2025-06-09" {
		t.Fatalf("series spans %s..%s, want 2025-06-03..2025-06-09", got[0].Day, got[6].Day)
	}
	for _, d := range got {
		if d.Orders != 0 || d.RevenueCents != 0 {
			t.Fatalf("day %s not zero-filled: %+v", d.Day, d)
		}
	}
}

func TestFillDayCounts(t *testing.T) {
	until := time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)
	since := until.Add(-3 * 24 * time.Hour)

	got := fillDayCounts([]repository.DayCount{
		{Day: "2025-06-02", Count: 4},
		{Day: "2025-06-04", Count: 1},
	}, since, until)

	want := []repository.DayCount{
		{Day: "2025-06-01", Count: 0},
		{Day: "2025-06-02", Count: 4},
		{Day: "2025-06-03", Count: 0},
		{Day: "2025-06-04", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
