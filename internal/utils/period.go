package utils

import (
	"math"
	"time"
)

// Window is a relative reporting time range.  Start is inclusive, End is
// exclusive.  PrevStart marks the beginning of the equal-length window
// immediately preceding [Start, End), used for growth comparisons.
type Window struct {
	Period    string
	Start     time.Time
	End       time.Time
	PrevStart time.Time
}

// periodDays maps the accepted period tokens to their length in days.
var periodDays = map[string]int{
	"1d":  1,
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

// ParsePeriod resolves a period query parameter into a Window anchored at
// the current UTC time.  Unrecognized or empty values fall back to def,
// which must itself be a valid period token.
func ParsePeriod(raw, def string) Window {
	return windowAt(raw, def, time.Now().UTC())
}

// windowAt is the testable core of ParsePeriod.
func windowAt(raw, def string, now time.Time) Window {
	days, ok := periodDays[raw]
	period := raw
	if !ok {
		days = periodDays[def]
		period = def
	}
	span := time.Duration(days) * 24 * time.Hour
	start := now.Add(-span)
	return Window{
		Period:    period,
		Start:     start,
		End:       now,
		PrevStart: start.Add(-span),
	}
}

// Days returns the window length in whole days.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start) / (24 * time.Hour))
}

// Growth returns the relative change between two consecutive windows of an
// aggregate metric as a percentage rounded to two decimals.  When the
// previous window's aggregate is zero the growth is defined as zero to
// avoid division by zero.
func Growth(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return math.Round((current-previous)/previous*100*100) / 100
}
