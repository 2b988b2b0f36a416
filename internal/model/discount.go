package model

import "time"

// Discount kinds accepted in discount_codes.kind.
const (
	DiscountPercent = "percent"
	DiscountFixed   = "fixed"
)

// DiscountCode models a promotional code.  Value is a percentage (1..100)
// for percent codes and an amount in cents for fixed codes.  The code
// column carries a unique index; concurrent create races surface as
// duplicate-key errors rather than being serialized in process.
type DiscountCode struct {
	ID        uint64    `json:"id"`
	Code      string    `json:"code"`
	Kind      string    `json:"kind"`
	Value     int64     `json:"value"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	MaxUses   int64     `json:"max_uses"`
	UsedCount int64     `json:"used_count"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
