package model

import "time"

// PaymentMethod is a stored card reference belonging to a user.  Only the
// brand and last four digits are kept; the full PAN never reaches this
// service.
type PaymentMethod struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Brand     string    `json:"brand"`
	Last4     string    `json:"last4"`
	ExpMonth  int       `json:"exp_month"`
	ExpYear   int       `json:"exp_year"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// Payment intent lifecycle states.
const (
	IntentRequiresPayment = "requires_payment"
	IntentProcessing      = "processing"
	IntentSucceeded       = "succeeded"
	IntentCanceled        = "canceled"
)

// PaymentIntent is the bookkeeping row for a payment attempt.  The id and
// client secret come from the payment provider collaborator; the current
// implementation backs them with a stub provider, not a real gateway.
type PaymentIntent struct {
	ID           string    `json:"id"` // provider id, e.g. "pi_<uuid>"
	UserID       uint64    `json:"user_id"`
	AmountCents  int64     `json:"amount_cents"`
	Currency     string    `json:"currency"`
	Status       string    `json:"status"`
	ClientSecret string    `json:"client_secret"`
	CreatedAt    time.Time `json:"created_at"`
}

// TerminalIntentStatus reports whether a payment intent status admits no
// further transitions.
func TerminalIntentStatus(s string) bool {
	return s == IntentSucceeded || s == IntentCanceled
}
