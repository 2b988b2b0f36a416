package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/commerce-admin-api/internal/model"
	"github.com/iliyamo/commerce-admin-api/internal/utils"
)

type memLoginUsers struct {
	rows map[string]model.User
}

func (m *memLoginUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := m.rows[email]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

type memSessionTokens struct {
	nextID  uint64
	created int
	rows    map[uint64]string
}

func (m *memSessionTokens) Create(_ context.Context, _ uint64, hash string) (uint64, error) {
	m.nextID++
	m.created++
	m.rows[m.nextID] = hash
	return m.nextID, nil
}

func (m *memSessionTokens) Delete(_ context.Context, id uint64) error {
	delete(m.rows, id)
	return nil
}

func loginFixture(t *testing.T, email, password string) (*AuthHandler, *memSessionTokens) {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	users := &memLoginUsers{rows: map[string]model.User{
		email: {ID: 5, Name: "Noor", Email: email, PasswordHash: hash, Role: model.RoleAdmin},
	}}
	tokens := &memSessionTokens{rows: map[uint64]string{}}
	return NewAuthHandler(users, tokens), tokens
}

func postLogin(h *AuthHandler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	_ = h.Login(e.NewContext(req, rec))
	return rec
}

func TestLoginSuccess(t *testing.T) {
	h, tokens := loginFixture(t, "noor@example.com", "correct-horse")

	rec := postLogin(h, `{"email":"noor@example.com","password":"correct-horse"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data loginData `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	id, secret, ok := utils.SplitCredential(body.Data.Token)
	if !ok || id != "1" {
		t.Fatalf("credential = %q", body.Data.Token)
	}
	// Only the hash of the secret half may be stored.
	if tokens.rows[1] != utils.HashTokenSecret(secret) {
		t.Fatal("stored hash does not match the issued secret")
	}
	if body.Data.User.ID != 5 || body.Data.User.Role != model.RoleAdmin {
		t.Fatalf("user part = %+v", body.Data.User)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h, tokens := loginFixture(t, "noor@example.com", "correct-horse")

	rec := postLogin(h, `{"email":"noor@example.com","password":"battery-staple"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if tokens.created != 0 {
		t.Fatal("no token may be minted for a failed login")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	h, tokens := loginFixture(t, "noor@example.com", "correct-horse")

	rec := postLogin(h, `{"email":"ghost@example.com","password":"correct-horse"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if tokens.created != 0 {
		t.Fatal("no token may be minted for an unknown email")
	}
}

// A soft-deleted account keeps its bcrypt hash, and its sentinel address
// is a perfectly well-formed email with an enumerable timestamp.  Logging
// in with the sentinel and the old password must fail exactly like any
// other bad credential and must never mint a token.
func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	sentinel := model.DeletedEmail(time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC))
	h, tokens := loginFixture(t, sentinel, "correct-horse")

	rec := postLogin(h, `{"email":"`+sentinel+`","password":"correct-horse"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Success || body.Message != "invalid credentials" {
		t.Fatalf("body = %+v", body)
	}
	if tokens.created != 0 {
		t.Fatal("deactivated account must never be issued a token")
	}
}
