// Package queue defines message payloads exchanged over the message broker.
package queue

// MonitoringEventRecorded is published after a monitoring event has been
// persisted. It carries enough for downstream consumers to log or alert
// without querying the primary database. Exactly one of the kind-specific
// field groups is populated.
type MonitoringEventRecorded struct {
	EventID    uint64  `json:"event_id"`
	Kind       string  `json:"kind"` // behavior | performance | business
	Service    string  `json:"service,omitempty"`
	SessionID  string  `json:"session_id,omitempty"`
	EventType  string  `json:"event_type,omitempty"`
	PageURL    string  `json:"page_url,omitempty"`
	LoadTimeMs int64   `json:"load_time_ms,omitempty"`
	TTFBMs     int64   `json:"ttfb_ms,omitempty"`
	MetricName string  `json:"metric_name,omitempty"`
	Value      float64 `json:"value,omitempty"`
	OccurredAt string  `json:"occurred_at"`
}
