package model

import (
	"testing"
	"time"
)

func TestDeletedEmailSentinel(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	email := DeletedEmail(at)
	if email != "deleted_1740821400@deleted.com" {
		t.Fatalf("sentinel = %q", email)
	}
	if !IsDeletedEmail(email) {
		t.Fatal("sentinel must be recognized as deleted")
	}

	for _, live := range []string{
		"dana@example.com",
		"deleted_user@example.com",   // prefix only
		"someone@deleted.com",        // suffix only
		"",
	} {
		if IsDeletedEmail(live) {
			t.Fatalf("%q wrongly classified as deleted", live)
		}
	}
}

func TestUserHelpers(t *testing.T) {
	u := User{Email: "dana@example.com", Role: RoleAdmin}
	if u.Deleted() {
		t.Fatal("live user reported deleted")
	}
	if !u.IsAdmin() {
		t.Fatal("admin role not recognized")
	}
	u.Role = RoleCustomer
	if u.IsAdmin() {
		t.Fatal("customer role reported admin")
	}
}
