// This file defines admin-facing queries over customer accounts. Customers
// live in the same users table the auth guard reads; the admin surface
// adds listing/search with pagination, per-customer order statistics and
// soft deletion. Soft deleting rewrites the email column to the deletion
// sentinel and is guarded so an already-deleted account cannot be deleted
// twice.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/commerce-admin-api/internal/model"
)

// ErrCustomerNotFound is returned when a customer cannot be found or has
// already been soft-deleted.
var ErrCustomerNotFound = errors.New("customer not found")

type CustomerRepo struct{ db *sql.DB }

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// CustomerRow is the listing shape returned to the admin dashboard.
type CustomerRow struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	OrderCount int64     `json:"order_count"`
	SpentCents int64     `json:"spent_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

// CustomerDetail extends the listing row with order history aggregates.
type CustomerDetail struct {
	CustomerRow
	LastOrderAt  *time.Time `json:"last_order_at,omitempty"`
	ReviewCount  int64      `json:"review_count"`
	AvgOrderCents int64     `json:"avg_order_cents"`
}

// List returns a page of non-deleted customers, optionally filtered by a
// case-insensitive search over name and email, together with the total
// row count for pagination.
func (r *CustomerRepo) List(ctx context.Context, search string, page, perPage int) ([]CustomerRow, int64, error) {
	where := []string{"u.role = ?", "u.email NOT LIKE 'deleted\\_%@deleted.com'"}
	args := []any{model.RoleCustomer}
	if s := strings.TrimSpace(search); s != "" {
		where = append(where, "(LOWER(u.name) LIKE ? OR LOWER(u.email) LIKE ?)")
		pat := "%" + strings.ToLower(s) + "%"
		args = append(args, pat, pat)
	}
	cond := strings.Join(where, " AND ")

	var total int64
	countSQL := "SELECT COUNT(*) FROM users u WHERE " + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := perPage
	offset := (page - 1) * perPage

	dataSQL := `SELECT
			u.id,
			u.name,
			u.email,
			COUNT(o.id)                       AS order_count,
			COALESCE(SUM(o.total_cents), 0)   AS spent_cents,
			u.created_at
		FROM users u
		LEFT JOIN orders o ON o.user_id = u.id AND o.status <> 'canceled'
		WHERE ` + cond + `
		GROUP BY u.id, u.name, u.email, u.created_at
		ORDER BY u.created_at DESC
		LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]CustomerRow, 0, limit)
	for rows.Next() {
		var c CustomerRow
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.OrderCount, &c.SpentCents, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Get returns a single non-deleted customer with order aggregates.
func (r *CustomerRepo) Get(ctx context.Context, id uint64) (CustomerDetail, error) {
	const q = `SELECT
			u.id, u.name, u.email, u.created_at,
			COUNT(o.id)                     AS order_count,
			COALESCE(SUM(o.total_cents), 0) AS spent_cents,
			MAX(o.created_at)               AS last_order_at,
			(SELECT COUNT(*) FROM reviews rv WHERE rv.user_id = u.id) AS review_count
		FROM users u
		LEFT JOIN orders o ON o.user_id = u.id AND o.status <> 'canceled'
		WHERE u.id = ? AND u.role = ? AND u.email NOT LIKE 'deleted\_%@deleted.com'
		GROUP BY u.id, u.name, u.email, u.created_at`
	var d CustomerDetail
	var lastOrder sql.NullTime
	err := r.db.QueryRowContext(ctx, q, id, model.RoleCustomer).Scan(
		&d.ID, &d.Name, &d.Email, &d.CreatedAt,
		&d.OrderCount, &d.SpentCents, &lastOrder, &d.ReviewCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CustomerDetail{}, ErrCustomerNotFound
		}
		return CustomerDetail{}, err
	}
	if lastOrder.Valid {
		t := lastOrder.Time
		d.LastOrderAt = &t
	}
	if d.OrderCount > 0 {
		d.AvgOrderCents = d.SpentCents / d.OrderCount
	}
	return d, nil
}

// Update changes a customer's name and email.  ErrCustomerNotFound is
// returned when the row is missing or already deleted; ErrEmailExists when
// the new email collides with another account.
func (r *CustomerRepo) Update(ctx context.Context, id uint64, name, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET name=?, email=? WHERE id=? AND role=? AND email NOT LIKE 'deleted\\_%@deleted.com'",
		name, email, id, model.RoleCustomer)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the row is gone or the update was a no-op; distinguish by
		// probing for the live row.
		var exists int
		err := r.db.QueryRowContext(ctx,
			"SELECT 1 FROM users WHERE id=? AND role=? AND email NOT LIKE 'deleted\\_%@deleted.com' LIMIT 1",
			id, model.RoleCustomer).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCustomerNotFound
		}
		return err
	}
	return nil
}

// SoftDelete rewrites the customer's email to the deletion sentinel.  The
// NOT LIKE guard makes the operation idempotent-safe: deleting an already
// deleted account reports ErrCustomerNotFound instead of stamping a new
// sentinel over the old one.
func (r *CustomerRepo) SoftDelete(ctx context.Context, id uint64, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET email=? WHERE id=? AND role=? AND email NOT LIKE 'deleted\\_%@deleted.com'",
		model.DeletedEmail(at), id, model.RoleCustomer)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
