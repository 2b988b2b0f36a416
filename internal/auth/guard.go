// Package auth implements bearer-credential validation for the admin API.
// A credential has the opaque form "<id>|<secret>": the id half addresses a
// row in the access_tokens table and the secret half is checked against the
// stored SHA-256 hash, never compared in plaintext. Validation also resolves
// the owning user and revokes tokens whose owner is gone or deactivated, so
// stale credentials clean themselves up on first use.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strconv"

	"github.com/iliyamo/commerce-admin-api/internal/model"
	"github.com/iliyamo/commerce-admin-api/internal/utils"
)

// Rejection reasons. Every rejection is terminal for the request; the
// middleware maps each to a fixed HTTP status.
var (
	// ErrMissingCredential: no bearer credential was presented (401).
	ErrMissingCredential = errors.New("missing credential")
	// ErrMalformedCredential: the credential does not split into exactly
	// two non-empty parts (401). Raised before any datastore access.
	ErrMalformedCredential = errors.New("malformed credential")
	// ErrInvalidCredential: no token row matches the id and secret hash (401).
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrPrincipalNotFound: the token's owning user row is gone (404).
	// The token is revoked before the rejection is returned.
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrPrincipalDeactivated: the owning user is soft-deleted (404).
	// The token is revoked before the rejection is returned.
	ErrPrincipalDeactivated = errors.New("principal deactivated")
	// ErrInsufficientPrivilege: the principal is valid but not an admin
	// (403). The token stays valid for non-admin endpoints.
	ErrInsufficientPrivilege = errors.New("insufficient privilege")
)

// TokenStore is the slice of the token repository the guard needs.
type TokenStore interface {
	FindByIDAndHash(ctx context.Context, id uint64, tokenHash string) (model.AccessToken, error)
	Delete(ctx context.Context, id uint64) error
}

// UserStore is the slice of the user repository the guard needs.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// Principal is the authenticated identity resolved from a valid credential.
type Principal struct {
	UserID  uint64 `json:"user_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	TokenID uint64 `json:"-"`
}

// Guard validates presented credentials against the token and user stores.
type Guard struct {
	Tokens TokenStore
	Users  UserStore
}

func NewGuard(tokens TokenStore, users UserStore) *Guard {
	return &Guard{Tokens: tokens, Users: users}
}

// ValidateUserAndToken resolves a raw credential string into a Principal.
// On failure it returns one of the rejection reasons above; any other
// error is an infrastructure failure and maps to a generic 500.
func (g *Guard) ValidateUserAndToken(ctx context.Context, credential string) (Principal, error) {
	if credential == "" {
		return Principal{}, ErrMissingCredential
	}

	idPart, secret, ok := utils.SplitCredential(credential)
	if !ok {
		return Principal{}, ErrMalformedCredential
	}
	tokenID, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil {
		// A non-numeric identifier can never address a token row.
		return Principal{}, ErrInvalidCredential
	}

	tok, err := g.Tokens.FindByIDAndHash(ctx, tokenID, utils.HashTokenSecret(secret))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Principal{}, ErrInvalidCredential
		}
		return Principal{}, err
	}

	u, err := g.Users.GetByID(ctx, tok.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			g.revoke(ctx, tok.ID)
			return Principal{}, ErrPrincipalNotFound
		}
		return Principal{}, err
	}

	if u.Deleted() {
		g.revoke(ctx, tok.ID)
		return Principal{}, ErrPrincipalDeactivated
	}

	return Principal{
		UserID:  u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Role:    u.Role,
		TokenID: tok.ID,
	}, nil
}

// ValidateAdminUserAndToken wraps ValidateUserAndToken and additionally
// requires the administrative role. The credential is not revoked on a
// privilege failure; it remains valid for non-admin endpoints.
func (g *Guard) ValidateAdminUserAndToken(ctx context.Context, credential string) (Principal, error) {
	p, err := g.ValidateUserAndToken(ctx, credential)
	if err != nil {
		return Principal{}, err
	}
	if p.Role != model.RoleAdmin {
		return Principal{}, ErrInsufficientPrivilege
	}
	return p, nil
}

// revoke deletes a token best-effort; cleanup failure never masks the
// rejection the caller is about to return.
func (g *Guard) revoke(ctx context.Context, tokenID uint64) {
	if err := g.Tokens.Delete(ctx, tokenID); err != nil {
		log.Printf("auth: revoking token %d failed: %v", tokenID, err)
	}
}
