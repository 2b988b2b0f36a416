package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/commerce-admin-api/internal/model"
)

// ErrDiscountNotFound is returned when a discount code id does not exist.
var ErrDiscountNotFound = errors.New("discount code not found")

type DiscountRepo struct{ db *sql.DB }

func NewDiscountRepo(db *sql.DB) *DiscountRepo { return &DiscountRepo{db: db} }

const discountColumns = "id, code, kind, value, starts_at, ends_at, max_uses, used_count, active, created_at"

func scanDiscount(scan func(dest ...any) error) (model.DiscountCode, error) {
	var d model.DiscountCode
	err := scan(&d.ID, &d.Code, &d.Kind, &d.Value, &d.StartsAt, &d.EndsAt,
		&d.MaxUses, &d.UsedCount, &d.Active, &d.CreatedAt)
	return d, err
}

// Create inserts a discount code.  The unique index on code maps a
// concurrent duplicate to ErrConflict.
func (r *DiscountRepo) Create(ctx context.Context, d *model.DiscountCode) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO discount_codes (code, kind, value, starts_at, ends_at, max_uses, active) VALUES (?,?,?,?,?,?,?)",
		d.Code, d.Kind, d.Value, d.StartsAt, d.EndsAt, d.MaxUses, d.Active)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at FROM discount_codes WHERE id=?", d.ID).Scan(&d.CreatedAt)
}

// Get fetches a single discount code by id.
func (r *DiscountRepo) Get(ctx context.Context, id uint64) (model.DiscountCode, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+discountColumns+" FROM discount_codes WHERE id=? LIMIT 1", id)
	d, err := scanDiscount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DiscountCode{}, ErrDiscountNotFound
	}
	return d, err
}

// List returns a page of discount codes, newest first.
func (r *DiscountRepo) List(ctx context.Context, page, perPage int) ([]model.DiscountCode, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM discount_codes").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+discountColumns+" FROM discount_codes ORDER BY created_at DESC LIMIT ? OFFSET ?",
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.DiscountCode, 0, perPage)
	for rows.Next() {
		d, err := scanDiscount(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update rewrites the mutable fields of a discount code.
func (r *DiscountRepo) Update(ctx context.Context, d model.DiscountCode) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE discount_codes SET code=?, kind=?, value=?, starts_at=?, ends_at=?, max_uses=?, active=? WHERE id=?",
		d.Code, d.Kind, d.Value, d.StartsAt, d.EndsAt, d.MaxUses, d.Active, d.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx,
			"SELECT 1 FROM discount_codes WHERE id=? LIMIT 1", d.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDiscountNotFound
		}
		return err
	}
	return nil
}

// Delete removes a discount code.
func (r *DiscountRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM discount_codes WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDiscountNotFound
	}
	return nil
}
