package model

import "time"

// BehaviorEvent is a single user-behavior observation (page view, click,
// add-to-cart and so on) reported by the storefront.  Events are append
// only; nothing in this service updates or deletes them.
type BehaviorEvent struct {
	ID         uint64    `json:"id"`
	SessionID  string    `json:"session_id"`
	EventType  string    `json:"event_type"`
	PageURL    string    `json:"page_url"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PerformanceEvent captures page timing measurements in milliseconds.
type PerformanceEvent struct {
	ID         uint64    `json:"id"`
	PageURL    string    `json:"page_url"`
	LoadTimeMs int64     `json:"load_time_ms"`
	TTFBMs     int64     `json:"ttfb_ms"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BusinessMetric is an arbitrary named business measurement (conversion
// rate, cart value, campaign revenue) pushed by upstream systems.
type BusinessMetric struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Value      float64   `json:"value"`
	OccurredAt time.Time `json:"occurred_at"`
}
