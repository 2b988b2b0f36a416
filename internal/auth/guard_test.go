package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/commerce-admin-api/internal/model"
	"github.com/iliyamo/commerce-admin-api/internal/utils"
)

// fakeTokens is an in-memory TokenStore recording lookups and deletes.
type fakeTokens struct {
	rows    map[uint64]model.AccessToken
	lookups int
	deletes int
}

func (f *fakeTokens) FindByIDAndHash(_ context.Context, id uint64, hash string) (model.AccessToken, error) {
	f.lookups++
	t, ok := f.rows[id]
	if !ok || t.TokenHash != hash {
		return model.AccessToken{}, sql.ErrNoRows
	}
	return t, nil
}

func (f *fakeTokens) Delete(_ context.Context, id uint64) error {
	f.deletes++
	delete(f.rows, id)
	return nil
}

type fakeUsers struct {
	rows    map[uint64]model.User
	lookups int
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	f.lookups++
	u, ok := f.rows[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

// fixture wires a guard with one stored token and its owning user, and
// returns the raw credential a client would present.
func fixture(t *testing.T, role string) (*Guard, *fakeTokens, *fakeUsers, string) {
	t.Helper()
	tok, err := utils.NewAPIToken()
	if err != nil {
		t.Fatalf("NewAPIToken: %v", err)
	}
	tokens := &fakeTokens{rows: map[uint64]model.AccessToken{
		7: {ID: 7, UserID: 42, TokenHash: tok.Hash, CreatedAt: time.Now()},
	}}
	users := &fakeUsers{rows: map[uint64]model.User{
		42: {ID: 42, Name: "Dana", Email: "dana@example.com", Role: role},
	}}
	return NewGuard(tokens, users), tokens, users, utils.FormatCredential(7, tok.Secret)
}

func TestValidateMissingCredential(t *testing.T) {
	g, tokens, users, _ := fixture(t, model.RoleAdmin)
	_, err := g.ValidateUserAndToken(context.Background(), "")
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("want ErrMissingCredential, got %v", err)
	}
	if tokens.lookups+users.lookups+tokens.deletes != 0 {
		t.Fatal("missing credential must not touch the stores")
	}
}

func TestValidateMalformedCredential(t *testing.T) {
	g, tokens, users, _ := fixture(t, model.RoleAdmin)
	for _, cred := range []string{"nodelimiter", "|secretonly", "7|", "|"} {
		_, err := g.ValidateUserAndToken(context.Background(), cred)
		if !errors.Is(err, ErrMalformedCredential) {
			t.Fatalf("credential %q: want ErrMalformedCredential, got %v", cred, err)
		}
	}
	if tokens.lookups+users.lookups+tokens.deletes != 0 {
		t.Fatal("malformed credentials must not touch the stores")
	}
}

func TestValidateUnknownToken(t *testing.T) {
	g, tokens, _, _ := fixture(t, model.RoleAdmin)
	_, err := g.ValidateUserAndToken(context.Background(), "7|wrongsecret")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("want ErrInvalidCredential, got %v", err)
	}
	_, err = g.ValidateUserAndToken(context.Background(), "999|whatever")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("want ErrInvalidCredential, got %v", err)
	}
	if tokens.deletes != 0 {
		t.Fatal("invalid credential must not mutate the token store")
	}
	if _, ok := tokens.rows[7]; !ok {
		t.Fatal("stored token must survive invalid attempts")
	}
}

func TestValidateNonNumericIdentifier(t *testing.T) {
	g, tokens, _, _ := fixture(t, model.RoleAdmin)
	_, err := g.ValidateUserAndToken(context.Background(), "abc|secret")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("want ErrInvalidCredential, got %v", err)
	}
	if tokens.lookups != 0 {
		t.Fatal("non-numeric id should be rejected before lookup")
	}
}

func TestValidateOrphanedTokenIsRevoked(t *testing.T) {
	g, tokens, users, cred := fixture(t, model.RoleAdmin)
	delete(users.rows, 42) // user row removed out from under the token

	_, err := g.ValidateUserAndToken(context.Background(), cred)
	if !errors.Is(err, ErrPrincipalNotFound) {
		t.Fatalf("want ErrPrincipalNotFound, got %v", err)
	}
	if tokens.deletes != 1 {
		t.Fatalf("want 1 revocation, got %d", tokens.deletes)
	}
	if _, ok := tokens.rows[7]; ok {
		t.Fatal("token must be absent after revocation")
	}
}

func TestValidateDeactivatedPrincipal(t *testing.T) {
	g, tokens, users, cred := fixture(t, model.RoleAdmin)
	u := users.rows[42]
	u.Email = model.DeletedEmail(time.Now())
	users.rows[42] = u

	_, err := g.ValidateUserAndToken(context.Background(), cred)
	if !errors.Is(err, ErrPrincipalDeactivated) {
		t.Fatalf("want ErrPrincipalDeactivated, got %v", err)
	}
	if _, ok := tokens.rows[7]; ok {
		t.Fatal("token must be revoked for a deactivated principal")
	}
}

func TestValidateSuccess(t *testing.T) {
	g, _, _, cred := fixture(t, model.RoleAdmin)
	p, err := g.ValidateUserAndToken(context.Background(), cred)
	if err != nil {
		t.Fatalf("ValidateUserAndToken: %v", err)
	}
	if p.UserID != 42 || p.Name != "Dana" || p.Role != model.RoleAdmin || p.TokenID != 7 {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestAdminValidationRejectsCustomer(t *testing.T) {
	g, tokens, _, cred := fixture(t, model.RoleCustomer)

	_, err := g.ValidateAdminUserAndToken(context.Background(), cred)
	if !errors.Is(err, ErrInsufficientPrivilege) {
		t.Fatalf("want ErrInsufficientPrivilege, got %v", err)
	}
	if tokens.deletes != 0 {
		t.Fatal("privilege failure must not revoke the token")
	}

	// The same credential still authenticates on non-admin validation.
	p, err := g.ValidateUserAndToken(context.Background(), cred)
	if err != nil {
		t.Fatalf("plain validation should succeed: %v", err)
	}
	if p.Role != model.RoleCustomer {
		t.Fatalf("unexpected role %q", p.Role)
	}
}

func TestAdminValidationAcceptsAdmin(t *testing.T) {
	g, _, _, cred := fixture(t, model.RoleAdmin)
	p, err := g.ValidateAdminUserAndToken(context.Background(), cred)
	if err != nil {
		t.Fatalf("ValidateAdminUserAndToken: %v", err)
	}
	if p.UserID != 42 {
		t.Fatalf("unexpected principal: %+v", p)
	}
}
