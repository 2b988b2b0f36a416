package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/commerce-admin-api/internal/model"
)

// TokenRepo persists opaque API tokens (single 'token_hash' column).  The
// row id is the identifier half of the "<id>|<secret>" credential.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Create inserts a token hash row for a user and returns the new row id.
func (r *TokenRepo) Create(ctx context.Context, userID uint64, tokenHash string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO access_tokens (user_id, token_hash) VALUES (?,?)",
		userID, tokenHash)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// FindByIDAndHash returns the token row matching both the identifier and
// the hashed secret.  sql.ErrNoRows is passed through when no row matches;
// the guard treats that as an invalid credential.
func (r *TokenRepo) FindByIDAndHash(ctx context.Context, id uint64, tokenHash string) (model.AccessToken, error) {
	var t model.AccessToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, created_at FROM access_tokens WHERE id=? AND token_hash=? LIMIT 1",
		id, tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.CreatedAt)
	return t, err
}

// Delete removes a token row.  Called on logout and by the guard when the
// owning user turns out to be missing or deactivated.
func (r *TokenRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM access_tokens WHERE id=?", id)
	return err
}

// DeleteForUser removes every token belonging to a user.  Used when an
// account is soft-deleted so stale sessions cannot outlive the account.
func (r *TokenRepo) DeleteForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM access_tokens WHERE user_id=?", userID)
	return err
}
