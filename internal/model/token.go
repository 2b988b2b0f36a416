package model

import "time"

// AccessToken models a row in the `access_tokens` table.  A token belongs
// to a user; the plain secret is never stored, only its SHA-256 hash.  The
// row id doubles as the identifier half of the presented credential
// "<id>|<secret>".
//
// Fields:
//  ID        – primary key identifier; first half of the credential.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the secret half.
//  CreatedAt – timestamp of creation.
type AccessToken struct {
	ID        uint64    // access_tokens.id
	UserID    uint64    // access_tokens.user_id
	TokenHash string    // access_tokens.token_hash
	CreatedAt time.Time // access_tokens.created_at
}
