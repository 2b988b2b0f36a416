package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/commerce-admin-api/internal/model"
)

// ErrReviewNotFound is returned when a review id does not exist.
var ErrReviewNotFound = errors.New("review not found")

// ErrDuplicateReview is returned when a user already reviewed the product.
var ErrDuplicateReview = errors.New("review already exists for this product")

// ErrDuplicateVote is returned when a user already voted on the review.
var ErrDuplicateVote = errors.New("vote already recorded")

type ReviewRepo struct{ db *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review.  The unique index on (user_id, product_id)
// closes the race between concurrent submissions; a duplicate surfaces as
// ErrDuplicateReview regardless of which request lost.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (user_id, product_id, rating, title, body) VALUES (?,?,?,?,?)",
		rv.UserID, rv.ProductID, rv.Rating, rv.Title, rv.Body)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateReview
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	const sel = "SELECT created_at FROM reviews WHERE id=?"
	return r.db.QueryRowContext(ctx, sel, rv.ID).Scan(&rv.CreatedAt)
}

// Vote records a helpfulness vote.  One vote per user per review is
// enforced by the unique index on (review_id, user_id).
func (r *ReviewRepo) Vote(ctx context.Context, reviewID, userID uint64, vote int) error {
	var exists int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM reviews WHERE id=? LIMIT 1", reviewID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReviewNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO review_votes (review_id, user_id, vote) VALUES (?,?,?)",
		reviewID, userID, vote)
	if isDuplicateKey(err) {
		return ErrDuplicateVote
	}
	return err
}

// ListByProduct returns a page of reviews for a product, newest first,
// with vote tallies, plus the total count for pagination.
func (r *ReviewRepo) ListByProduct(ctx context.Context, productID uint64, page, perPage int) ([]model.Review, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reviews WHERE product_id=?", productID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return r.list(ctx, "WHERE r.product_id=?", []any{productID}, page, perPage, total)
}

// ListAll returns a page over every review, newest first.  Used by the
// admin moderation screen.
func (r *ReviewRepo) ListAll(ctx context.Context, page, perPage int) ([]model.Review, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reviews").Scan(&total); err != nil {
		return nil, 0, err
	}
	return r.list(ctx, "", nil, page, perPage, total)
}

func (r *ReviewRepo) list(ctx context.Context, cond string, args []any, page, perPage int, total int64) ([]model.Review, int64, error) {
	q := `SELECT
			r.id, r.user_id, r.product_id, r.rating, r.title, r.body, r.created_at,
			COALESCE(SUM(CASE WHEN v.vote > 0 THEN 1 ELSE 0 END), 0) AS upvotes,
			COALESCE(SUM(CASE WHEN v.vote < 0 THEN 1 ELSE 0 END), 0) AS downvotes
		FROM reviews r
		LEFT JOIN review_votes v ON v.review_id = r.id
		` + cond + `
		GROUP BY r.id, r.user_id, r.product_id, r.rating, r.title, r.body, r.created_at
		ORDER BY r.created_at DESC
		LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), perPage, (page-1)*perPage)

	rows, err := r.db.QueryContext(ctx, q, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Review, 0, perPage)
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Title, &rv.Body,
			&rv.CreatedAt, &rv.Upvotes, &rv.Downvotes); err != nil {
			return nil, 0, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Delete removes a review and its votes.  Admin moderation only.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM review_votes WHERE review_id=?", id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM reviews WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReviewNotFound
	}
	return nil
}
