package model

import (
	"fmt"
	"strings"
	"time"
)

// Role names stored in users.role.  The admin role gates the back-office
// endpoints; every other account is a storefront customer.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User represents an application user record as stored in the `users`
// table.  Soft deletion is encoded in the email column: a deactivated
// account has its address rewritten to the sentinel form
// "deleted_<unix-ts>@deleted.com".  There is no separate flag column, so
// every read path that must exclude deactivated accounts filters on the
// sentinel.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique email address, or the deletion sentinel.
//  PasswordHash – bcrypt hashed password.
//  Role         – role name (admin or customer).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	deletedEmailPrefix = "deleted_"
	deletedEmailSuffix = "@deleted.com"
)

// IsDeletedEmail reports whether an email address carries the soft-delete
// sentinel.
func IsDeletedEmail(email string) bool {
	return strings.HasPrefix(email, deletedEmailPrefix) &&
		strings.HasSuffix(email, deletedEmailSuffix)
}

// DeletedEmail builds the sentinel address written over a user's email when
// the account is deactivated.
func DeletedEmail(at time.Time) string {
	return fmt.Sprintf("%s%d%s", deletedEmailPrefix, at.UTC().Unix(), deletedEmailSuffix)
}

// Deleted reports whether the user record is soft-deleted.
func (u User) Deleted() bool { return IsDeletedEmail(u.Email) }

// IsAdmin reports whether the user holds the administrative role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
