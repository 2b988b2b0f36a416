package utils

import "testing"

func TestNewAPITokenHashesSecret(t *testing.T) {
	tok, err := NewAPIToken()
	if err != nil {
		t.Fatalf("NewAPIToken: %v", err)
	}
	if tok.Secret == "" {
		t.Fatal("secret must not be empty")
	}
	if tok.Hash == tok.Secret {
		t.Fatal("hash must differ from the raw secret")
	}
	if tok.Hash != HashTokenSecret(tok.Secret) {
		t.Fatal("hash must be the SHA-256 of the secret")
	}

	other, err := NewAPIToken()
	if err != nil {
		t.Fatalf("NewAPIToken: %v", err)
	}
	if other.Secret == tok.Secret {
		t.Fatal("two tokens must not share a secret")
	}
}

func TestSplitCredential(t *testing.T) {
	id, secret, ok := SplitCredential("15|abcdef")
	if !ok || id != "15" || secret != "abcdef" {
		t.Fatalf("got (%q, %q, %v)", id, secret, ok)
	}

	// A secret containing the delimiter splits on the first occurrence
	// only, so the secret half keeps the remainder intact.
	id, secret, ok = SplitCredential("15|ab|cd")
	if !ok || id != "15" || secret != "ab|cd" {
		t.Fatalf("got (%q, %q, %v)", id, secret, ok)
	}

	for _, raw := range []string{"", "nodelimiter", "|x", "x|", "|"} {
		if _, _, ok := SplitCredential(raw); ok {
			t.Fatalf("%q: want ok=false", raw)
		}
	}
}

func TestFormatCredentialRoundTrip(t *testing.T) {
	cred := FormatCredential(42, "s3cr3t")
	if cred != "42|s3cr3t" {
		t.Fatalf("credential = %q", cred)
	}
	id, secret, ok := SplitCredential(cred)
	if !ok || id != "42" || secret != "s3cr3t" {
		t.Fatalf("round trip failed: (%q, %q, %v)", id, secret, ok)
	}
}
