package model

import "time"

// Review is a customer's review of a product.  The database enforces one
// review per user per product with a unique index on (user_id, product_id).
type Review struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	ProductID uint64    `json:"product_id"`
	Rating    int       `json:"rating"` // 1..5
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Upvotes   int64     `json:"upvotes"`
	Downvotes int64     `json:"downvotes"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewVote records a single user's helpfulness vote on a review.  Vote is
// +1 or -1; uniqueness on (review_id, user_id) allows one vote per user.
type ReviewVote struct {
	ReviewID  uint64    `json:"review_id"`
	UserID    uint64    `json:"user_id"`
	Vote      int       `json:"vote"`
	CreatedAt time.Time `json:"created_at"`
}
