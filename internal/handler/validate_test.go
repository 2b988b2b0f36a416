package handler

import (
	"testing"
	"time"
)

// Validation runs before any store call, so each rule can be checked
// directly on the request types.

func TestDiscountValidation(t *testing.T) {
	starts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ends := starts.Add(30 * 24 * time.Hour)

	valid := discountReq{
		Code: "spring25", Kind: "percent", Value: 25,
		StartsAt: starts, EndsAt: ends, MaxUses: 100, Active: true,
	}
	if errs := valid.validate(); len(errs) != 0 {
		t.Fatalf("valid request rejected: %v", errs)
	}
	if valid.Code != "SPRING25" {
		t.Fatalf("code not upcased: %q", valid.Code)
	}

	cases := []struct {
		name  string
		mut   func(*discountReq)
		field string
	}{
		{"empty code", func(r *discountReq) { r.Code = "  " }, "code"},
		{"unknown kind", func(r *discountReq) { r.Kind = "bogus" }, "kind"},
		{"percent zero", func(r *discountReq) { r.Value = 0 }, "value"},
		{"percent over 100", func(r *discountReq) { r.Value = 101 }, "value"},
		{"fixed zero", func(r *discountReq) { r.Kind = "fixed"; r.Value = 0 }, "value"},
		{"reversed range", func(r *discountReq) { r.StartsAt, r.EndsAt = r.EndsAt, r.StartsAt }, "starts_at"},
		{"equal range", func(r *discountReq) { r.EndsAt = r.StartsAt }, "starts_at"},
		{"missing range", func(r *discountReq) { r.StartsAt, r.EndsAt = time.Time{}, time.Time{} }, "starts_at"},
		{"negative max uses", func(r *discountReq) { r.MaxUses = -1 }, "max_uses"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mut(&req)
			errs := req.validate()
			if _, ok := errs[tc.field]; !ok {
				t.Fatalf("expected error on %q, got %v", tc.field, errs)
			}
		})
	}

	// A fixed amount over 100 is fine; the 1..100 bound is percent-only.
	fixed := valid
	fixed.Kind = "fixed"
	fixed.Value = 5000
	if errs := fixed.validate(); len(errs) != 0 {
		t.Fatalf("fixed amount rejected: %v", errs)
	}
}

func TestPaymentMethodValidation(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	valid := createMethodReq{Brand: "Visa", Last4: "4242", ExpMonth: 12, ExpYear: 2027}
	if errs := valid.validate(now); len(errs) != 0 {
		t.Fatalf("valid request rejected: %v", errs)
	}
	if valid.Brand != "visa" {
		t.Fatalf("brand not normalized: %q", valid.Brand)
	}

	cases := []struct {
		name  string
		mut   func(*createMethodReq)
		field string
	}{
		{"empty brand", func(r *createMethodReq) { r.Brand = "" }, "brand"},
		{"short last4", func(r *createMethodReq) { r.Last4 = "42" }, "last4"},
		{"alpha last4", func(r *createMethodReq) { r.Last4 = "42ab" }, "last4"},
		{"month zero", func(r *createMethodReq) { r.ExpMonth = 0 }, "exp_month"},
		{"month thirteen", func(r *createMethodReq) { r.ExpMonth = 13 }, "exp_month"},
		{"expired year", func(r *createMethodReq) { r.ExpYear = 2024 }, "exp_year"},
		{"far future year", func(r *createMethodReq) { r.ExpYear = 2099 }, "exp_year"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mut(&req)
			errs := req.validate(now)
			if _, ok := errs[tc.field]; !ok {
				t.Fatalf("expected error on %q, got %v", tc.field, errs)
			}
		})
	}
}

func TestPaymentIntentValidation(t *testing.T) {
	valid := createIntentReq{AmountCents: 1999, Currency: "USD"}
	if errs := valid.validate(); len(errs) != 0 {
		t.Fatalf("valid request rejected: %v", errs)
	}
	if valid.Currency != "usd" {
		t.Fatalf("currency not normalized: %q", valid.Currency)
	}

	zero := createIntentReq{AmountCents: 0, Currency: "usd"}
	if errs := zero.validate(); errs["amount_cents"] == "" {
		t.Fatalf("zero amount accepted: %v", errs)
	}
	long := createIntentReq{AmountCents: 100, Currency: "dollars"}
	if errs := long.validate(); errs["currency"] == "" {
		t.Fatalf("bad currency accepted: %v", errs)
	}
}

func TestReviewValidation(t *testing.T) {
	valid := createReviewReq{ProductID: 7, Rating: 4, Title: "Solid", Body: "Works as described."}
	if errs := valid.validate(); len(errs) != 0 {
		t.Fatalf("valid request rejected: %v", errs)
	}

	for _, rating := range []int{0, 6, -1} {
		req := valid
		req.Rating = rating
		if errs := req.validate(); errs["rating"] == "" {
			t.Fatalf("rating %d accepted", rating)
		}
	}
	blank := valid
	blank.Body = "   "
	if errs := blank.validate(); errs["body"] == "" {
		t.Fatal("blank body accepted")
	}
	noProduct := valid
	noProduct.ProductID = 0
	if errs := noProduct.validate(); errs["product_id"] == "" {
		t.Fatal("zero product id accepted")
	}
}

func TestParseOccurredAt(t *testing.T) {
	if _, msg := parseOccurredAt(""); msg == "" {
		t.Fatal("empty timestamp accepted")
	}
	if _, msg := parseOccurredAt("yesterday"); msg == "" {
		t.Fatal("junk timestamp accepted")
	}
	future := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	if _, msg := parseOccurredAt(future); msg == "" {
		t.Fatal("future timestamp accepted")
	}
	past := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	at, msg := parseOccurredAt(past)
	if msg != "" {
		t.Fatalf("recent timestamp rejected: %s", msg)
	}
	if at.IsZero() {
		t.Fatal("parsed time is zero")
	}
}
