package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/commerce-admin-api/internal/model"
)

// ErrPaymentMethodNotFound is returned when a payment method is missing or
// owned by another user.
var ErrPaymentMethodNotFound = errors.New("payment method not found")

// ErrIntentNotFound is returned when a payment intent is missing or owned
// by another user.
var ErrIntentNotFound = errors.New("payment intent not found")

// PaymentRepo persists stored payment methods and payment-intent
// bookkeeping rows.  All reads are owner-scoped: a user can never see or
// mutate another user's rows through this repository.
type PaymentRepo struct{ db *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// ----- payment methods -----

// ListMethods returns every stored payment method for a user, default
// first.
func (r *PaymentRepo) ListMethods(ctx context.Context, userID uint64) ([]model.PaymentMethod, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, brand, last4, exp_month, exp_year, is_default, created_at
		 FROM payment_methods WHERE user_id=? ORDER BY is_default DESC, created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PaymentMethod
	for rows.Next() {
		var m model.PaymentMethod
		if err := rows.Scan(&m.ID, &m.UserID, &m.Brand, &m.Last4, &m.ExpMonth, &m.ExpYear,
			&m.IsDefault, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CreateMethod inserts a payment method.  When the new method is flagged
// default, the previous default is unset inside the same transaction so
// at most one default survives.
func (r *PaymentRepo) CreateMethod(ctx context.Context, m *model.PaymentMethod) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if m.IsDefault {
		if _, err := tx.ExecContext(ctx,
			"UPDATE payment_methods SET is_default=0 WHERE user_id=? AND is_default=1",
			m.UserID); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO payment_methods (user_id, brand, last4, exp_month, exp_year, is_default) VALUES (?,?,?,?,?,?)",
		m.UserID, m.Brand, m.Last4, m.ExpMonth, m.ExpYear, m.IsDefault)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	if err := tx.QueryRowContext(ctx,
		"SELECT created_at FROM payment_methods WHERE id=?", m.ID).Scan(&m.CreatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteMethod removes a payment method owned by the user.
func (r *PaymentRepo) DeleteMethod(ctx context.Context, userID, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM payment_methods WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPaymentMethodNotFound
	}
	return nil
}

// ----- payment intents -----

// CreateIntent records a provider-issued intent.
func (r *PaymentRepo) CreateIntent(ctx context.Context, in *model.PaymentIntent) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO payment_intents (id, user_id, amount_cents, currency, status, client_secret) VALUES (?,?,?,?,?,?)",
		in.ID, in.UserID, in.AmountCents, in.Currency, in.Status, in.ClientSecret)
	if err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx,
		"SELECT created_at FROM payment_intents WHERE id=?", in.ID).Scan(&in.CreatedAt)
}

// GetIntent fetches an intent owned by the user.
func (r *PaymentRepo) GetIntent(ctx context.Context, userID uint64, id string) (model.PaymentIntent, error) {
	var in model.PaymentIntent
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount_cents, currency, status, client_secret, created_at
		 FROM payment_intents WHERE id=? AND user_id=? LIMIT 1`,
		id, userID).Scan(&in.ID, &in.UserID, &in.AmountCents, &in.Currency, &in.Status,
		&in.ClientSecret, &in.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PaymentIntent{}, ErrIntentNotFound
	}
	return in, err
}

// UpdateIntentStatus transitions an intent out of a non-terminal state.
// The status list in the WHERE clause keeps terminal intents immutable
// even under concurrent cancel/confirm requests.
func (r *PaymentRepo) UpdateIntentStatus(ctx context.Context, userID uint64, id, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payment_intents SET status=?
		 WHERE id=? AND user_id=? AND status IN (?,?)`,
		status, id, userID, model.IntentRequiresPayment, model.IntentProcessing)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Missing row and terminal row are reported the same way; the
		// handler re-reads to distinguish 404 from 409.
		return ErrIntentNotFound
	}
	return nil
}
