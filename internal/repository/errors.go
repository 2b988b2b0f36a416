// Package repository defines error values shared across repositories.
// These sentinels let the handler layer distinguish failure scenarios
// without inspecting driver errors: ErrConflict signals that an insert
// collided with an existing row (e.g. a second review for the same
// product), and each repository adds its own not-found sentinel.
// Owner-scoped queries deliberately answer "not found" for rows owned by
// someone else, so no forbidden sentinel exists at this layer.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when an insert or update collides with a
// uniqueness constraint, such as creating a duplicate discount code.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicateKey reports whether a MySQL error is a duplicate-key
// violation (error 1062). Uniqueness races between concurrent requests
// are closed by unique indexes, not in-process locking, so repositories
// detect the collision after the fact and surface ErrConflict.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
