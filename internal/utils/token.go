package utils // package utils provides helper functions for credential creation and hashing

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for token secrets
	"encoding/hex"  // hex encoding of random bytes and digests
	"fmt"           // credential formatting
	"strings"       // splitting the presented credential
)

// APIToken represents a freshly minted access token before it is handed to
// the client.  The Secret field contains the raw secret string; it is
// returned to the client exactly once and only its SHA-256 hash is stored
// in the access_tokens table.  The full credential presented on subsequent
// requests is "<id>|<secret>", where id is the database row identifier.
type APIToken struct {
	Secret string // raw secret, never persisted
	Hash   string // SHA-256 hex digest of the secret, stored in the DB
}

// NewAPIToken generates a cryptographically secure random token secret and
// its hash.  The caller inserts the hash, obtains the row id, and formats
// the credential with FormatCredential.
func NewAPIToken() (APIToken, error) {
	raw, err := randomHex(32) // 32 bytes -> 64 hex chars
	if err != nil {
		return APIToken{}, err
	}
	return APIToken{Secret: raw, Hash: HashTokenSecret(raw)}, nil
}

// FormatCredential joins the token row id and the raw secret into the
// bearer credential handed to the client.
func FormatCredential(id uint64, secret string) string {
	return fmt.Sprintf("%d|%s", id, secret)
}

// SplitCredential splits a presented credential into its identifier and
// secret halves.  It returns ok=false unless splitting on the single '|'
// delimiter yields exactly two non-empty parts.
func SplitCredential(raw string) (id, secret string, ok bool) {
	id, secret, found := strings.Cut(raw, "|")
	if !found || id == "" || secret == "" {
		return "", "", false
	}
	return id, secret, true
}

// HashTokenSecret returns the SHA-256 hash of the raw token secret as a hex
// string.  Storing only the hash prevents attackers from using stolen
// database rows to authenticate.
func HashTokenSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
