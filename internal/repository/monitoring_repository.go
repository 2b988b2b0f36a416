package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/commerce-admin-api/internal/model"
)

// MonitoringRepo is the append-only store for behaviour, performance and
// business-metric events.  Nothing in this service updates or deletes the
// rows; the report queries only aggregate them.
type MonitoringRepo struct{ db *sql.DB }

func NewMonitoringRepo(db *sql.DB) *MonitoringRepo { return &MonitoringRepo{db: db} }

// InsertBehavior appends a behaviour event.
func (r *MonitoringRepo) InsertBehavior(ctx context.Context, ev *model.BehaviorEvent) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO behavior_events (session_id, event_type, page_url, occurred_at) VALUES (?,?,?,?)",
		ev.SessionID, ev.EventType, ev.PageURL, ev.OccurredAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	return nil
}

// InsertPerformance appends a performance-timing event.
func (r *MonitoringRepo) InsertPerformance(ctx context.Context, ev *model.PerformanceEvent) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO performance_events (page_url, load_time_ms, ttfb_ms, occurred_at) VALUES (?,?,?,?)",
		ev.PageURL, ev.LoadTimeMs, ev.TTFBMs, ev.OccurredAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	return nil
}

// InsertBusinessMetric appends a named business measurement.
func (r *MonitoringRepo) InsertBusinessMetric(ctx context.Context, ev *model.BusinessMetric) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO business_metrics (name, value, occurred_at) VALUES (?,?,?)",
		ev.Name, ev.Value, ev.OccurredAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	return nil
}

// SessionCounts returns the number of distinct sessions in a window and
// how many of them recorded exactly one behaviour event.  The customer
// analytics report derives the bounce rate from the two counts.
func (r *MonitoringRepo) SessionCounts(ctx context.Context, since, until time.Time) (total, single int64, err error) {
	const q = `SELECT COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN c = 1 THEN 1 ELSE 0 END), 0) AS single
		FROM (
			SELECT session_id, COUNT(*) AS c
			FROM behavior_events
			WHERE occurred_at >= ? AND occurred_at < ?
			GROUP BY session_id
		) s`
	err = r.db.QueryRowContext(ctx, q, since, until).Scan(&total, &single)
	return total, single, err
}

// AvgPageTiming returns mean load time and TTFB over a window, zero when
// no samples exist.
func (r *MonitoringRepo) AvgPageTiming(ctx context.Context, since, until time.Time) (loadMs, ttfbMs float64, err error) {
	const q = `SELECT COALESCE(AVG(load_time_ms), 0), COALESCE(AVG(ttfb_ms), 0)
		FROM performance_events WHERE occurred_at >= ? AND occurred_at < ?`
	err = r.db.QueryRowContext(ctx, q, since, until).Scan(&loadMs, &ttfbMs)
	return loadMs, ttfbMs, err
}
