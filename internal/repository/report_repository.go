// This file holds the read-only aggregation queries behind the dashboard
// and analytics endpoints. Every query is scoped by a half-open time
// window [since, until); growth metrics run the same aggregate twice, once
// for the current window and once for the equal-length preceding one, and
// the arithmetic happens in the handler. Canceled orders are excluded from
// every revenue aggregate.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/commerce-admin-api/internal/model"
)

type ReportRepo struct{ db *sql.DB }

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// SalesTotals is the windowed aggregate over orders.
type SalesTotals struct {
	Orders       int64 `json:"orders"`
	RevenueCents int64 `json:"revenue_cents"`
}

// DaySales is a single day bucket of the sales-by-day series.
type DaySales struct {
	Day          string `json:"date"` // YYYY-MM-DD
	Orders       int64  `json:"orders"`
	RevenueCents int64  `json:"revenue_cents"`
}

// OrderSummary is a recent-order row for the dashboard.
type OrderSummary struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	Customer   string    `json:"customer"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProductStat aggregates a product's sales inside a window.
type ProductStat struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Units        int64  `json:"units"`
	RevenueCents int64  `json:"revenue_cents"`
}

// CategoryStat aggregates sales per product category.
type CategoryStat struct {
	Category     string `json:"category"`
	Units        int64  `json:"units"`
	RevenueCents int64  `json:"revenue_cents"`
}

// StockRow is a low-stock product row.
type StockRow struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Stock int64  `json:"stock"`
}

// DayCount is a generic per-day counter (signups by day).
type DayCount struct {
	Day   string `json:"date"`
	Count int64  `json:"count"`
}

// CustomerSpend is a top-customer row.
type CustomerSpend struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Orders     int64  `json:"orders"`
	SpentCents int64  `json:"spent_cents"`
}

// SalesTotals sums orders and revenue over a window.
func (r *ReportRepo) SalesTotals(ctx context.Context, since, until time.Time) (SalesTotals, error) {
	var t SalesTotals
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_cents), 0)
		 FROM orders WHERE created_at >= ? AND created_at < ? AND status <> 'canceled'`,
		since, until).Scan(&t.Orders, &t.RevenueCents)
	return t, err
}

// DailySales buckets orders by calendar day.  Days with no orders are
// absent from the result; the handler zero-fills the series.
func (r *ReportRepo) DailySales(ctx context.Context, since, until time.Time) ([]DaySales, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DATE_FORMAT(created_at, '%Y-%m-%d') AS d, COUNT(*), COALESCE(SUM(total_cents), 0)
		 FROM orders WHERE created_at >= ? AND created_at < ? AND status <> 'canceled'
		 GROUP BY d ORDER BY d ASC`,
		since, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DaySales
	for rows.Next() {
		var d DaySales
		if err := rows.Scan(&d.Day, &d.Orders, &d.RevenueCents); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// RecentOrders lists the most recent orders with their customer names.
func (r *ReportRepo) RecentOrders(ctx context.Context, limit int) ([]OrderSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.user_id, u.name, o.status, o.total_cents, o.created_at
		 FROM orders o JOIN users u ON u.id = o.user_id
		 ORDER BY o.created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderSummary
	for rows.Next() {
		var o OrderSummary
		if err := rows.Scan(&o.ID, &o.UserID, &o.Customer, &o.Status, &o.TotalCents, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// NewCustomers counts customer signups in a window, excluding soft-deleted
// accounts.
func (r *ReportRepo) NewCustomers(ctx context.Context, since, until time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users
		 WHERE role = ? AND created_at >= ? AND created_at < ?
		   AND email NOT LIKE 'deleted\_%@deleted.com'`,
		model.RoleCustomer, since, until).Scan(&n)
	return n, err
}

// ActiveUsers counts distinct users who placed at least one order in the
// window.
func (r *ReportRepo) ActiveUsers(ctx context.Context, since, until time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM orders
		 WHERE created_at >= ? AND created_at < ? AND status <> 'canceled'`,
		since, until).Scan(&n)
	return n, err
}

// SignupsByDay buckets customer signups by calendar day.
func (r *ReportRepo) SignupsByDay(ctx context.Context, since, until time.Time) ([]DayCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DATE_FORMAT(created_at, '%Y-%m-%d') AS d, COUNT(*)
		 FROM users
		 WHERE role = ? AND created_at >= ? AND created_at < ?
		   AND email NOT LIKE 'deleted\_%@deleted.com'
		 GROUP BY d ORDER BY d ASC`,
		model.RoleCustomer, since, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DayCount
	for rows.Next() {
		var d DayCount
		if err := rows.Scan(&d.Day, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// RoleBreakdown counts live accounts per role.
func (r *ReportRepo) RoleBreakdown(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role, COUNT(*) FROM users
		 WHERE email NOT LIKE 'deleted\_%@deleted.com' GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var role string
		var n int64
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		out[role] = n
	}
	return out, rows.Err()
}

// TopProducts ranks products by revenue inside a window.
func (r *ReportRepo) TopProducts(ctx context.Context, since, until time.Time, limit int) ([]ProductStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.name,
			COALESCE(SUM(oi.quantity), 0)                        AS units,
			COALESCE(SUM(oi.quantity * oi.unit_price_cents), 0)  AS revenue
		 FROM order_items oi
		 JOIN orders o   ON o.id = oi.order_id
		 JOIN products p ON p.id = oi.product_id
		 WHERE o.created_at >= ? AND o.created_at < ? AND o.status <> 'canceled'
		 GROUP BY p.id, p.name
		 ORDER BY revenue DESC
		 LIMIT ?`,
		since, until, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductStat
	for rows.Next() {
		var p ProductStat
		if err := rows.Scan(&p.ID, &p.Name, &p.Units, &p.RevenueCents); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CategoryBreakdown aggregates windowed sales per product category.
func (r *ReportRepo) CategoryBreakdown(ctx context.Context, since, until time.Time) ([]CategoryStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.category,
			COALESCE(SUM(oi.quantity), 0),
			COALESCE(SUM(oi.quantity * oi.unit_price_cents), 0)
		 FROM order_items oi
		 JOIN orders o   ON o.id = oi.order_id
		 JOIN products p ON p.id = oi.product_id
		 WHERE o.created_at >= ? AND o.created_at < ? AND o.status <> 'canceled'
		 GROUP BY p.category
		 ORDER BY p.category ASC`,
		since, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryStat
	for rows.Next() {
		var c CategoryStat
		if err := rows.Scan(&c.Category, &c.Units, &c.RevenueCents); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// LowStock lists products whose stock fell under the threshold.
func (r *ReportRepo) LowStock(ctx context.Context, threshold, limit int) ([]StockRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, stock FROM products
		 WHERE stock < ? ORDER BY stock ASC, id ASC LIMIT ?`,
		threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StockRow
	for rows.Next() {
		var s StockRow
		if err := rows.Scan(&s.ID, &s.Name, &s.Stock); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LowStockCount counts products under the stock threshold.
func (r *ReportRepo) LowStockCount(ctx context.Context, threshold int) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products WHERE stock < ?", threshold).Scan(&n)
	return n, err
}

// ProductCount counts all products.
func (r *ReportRepo) ProductCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&n)
	return n, err
}

// BuyerCounts returns the number of distinct buyers in a window and how
// many of them placed more than one order.  The customer analytics report
// derives the repeat purchase rate from the two counts.
func (r *ReportRepo) BuyerCounts(ctx context.Context, since, until time.Time) (buyers, repeat int64, err error) {
	const q = `SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN c > 1 THEN 1 ELSE 0 END), 0)
		FROM (
			SELECT user_id, COUNT(*) AS c
			FROM orders
			WHERE created_at >= ? AND created_at < ? AND status <> 'canceled'
			GROUP BY user_id
		) b`
	err = r.db.QueryRowContext(ctx, q, since, until).Scan(&buyers, &repeat)
	return buyers, repeat, err
}

// TopCustomers ranks customers by windowed spend.
func (r *ReportRepo) TopCustomers(ctx context.Context, since, until time.Time, limit int) ([]CustomerSpend, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.email, COUNT(o.id), COALESCE(SUM(o.total_cents), 0) AS spent
		 FROM orders o
		 JOIN users u ON u.id = o.user_id
		 WHERE o.created_at >= ? AND o.created_at < ? AND o.status <> 'canceled'
		   AND u.email NOT LIKE 'deleted\_%@deleted.com'
		 GROUP BY u.id, u.name, u.email
		 ORDER BY spent DESC
		 LIMIT ?`,
		since, until, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CustomerSpend
	for rows.Next() {
		var c CustomerSpend
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Orders, &c.SpentCents); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
