package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/commerce-admin-api/internal/auth"
	"github.com/iliyamo/commerce-admin-api/internal/model"
	"github.com/iliyamo/commerce-admin-api/internal/utils"
)

// In-memory stores so the middleware can be exercised without a database.

type memTokens struct {
	rows map[uint64]model.AccessToken
}

func (m *memTokens) FindByIDAndHash(_ context.Context, id uint64, hash string) (model.AccessToken, error) {
	t, ok := m.rows[id]
	if !ok || t.TokenHash != hash {
		return model.AccessToken{}, sql.ErrNoRows
	}
	return t, nil
}

func (m *memTokens) Delete(_ context.Context, id uint64) error {
	delete(m.rows, id)
	return nil
}

type memUsers struct {
	rows map[uint64]model.User
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

// guardWith builds a guard holding one user and one live token and
// returns the full bearer credential for it.
func guardWith(t *testing.T, role string) (*auth.Guard, string) {
	t.Helper()
	tok, err := utils.NewAPIToken()
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	tokens := &memTokens{rows: map[uint64]model.AccessToken{
		3: {ID: 3, UserID: 9, TokenHash: tok.Hash},
	}}
	users := &memUsers{rows: map[uint64]model.User{
		9: {ID: 9, Name: "Rae", Email: "rae@example.com", Role: role},
	}}
	return auth.NewGuard(tokens, users), utils.FormatCredential(3, tok.Secret)
}

func doRequest(e *echo.Echo, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func okHandler(c echo.Context) error {
	p, _ := CurrentPrincipal(c)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": p})
}

func TestTokenAuthMissingHeader(t *testing.T) {
	g, _ := guardWith(t, model.RoleCustomer)
	e := echo.New()
	e.GET("/protected", okHandler, TokenAuth(g))

	for _, header := range []string{"", "Basic abc", "bearer 3|x"} {
		rec := doRequest(e, header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
}

func TestTokenAuthInvalidCredential(t *testing.T) {
	g, _ := guardWith(t, model.RoleCustomer)
	e := echo.New()
	e.GET("/protected", okHandler, TokenAuth(g))

	rec := doRequest(e, "Bearer 3|wrongsecret")
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
	if body.Success || body.Message != "invalid credential" {
		t.Fatalf("body = %+v", body)
	}
}

func TestTokenAuthPassesPrincipal(t *testing.T) {
	g, cred := guardWith(t, model.RoleCustomer)
	e := echo.New()
	e.GET("/protected", okHandler, TokenAuth(g))

	rec := doRequest(e, "Bearer "+cred)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data auth.Principal `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data.UserID != 9 || body.Data.Role != model.RoleCustomer {
		t.Fatalf("principal = %+v", body.Data)
	}
}

func TestRequireAdminRejectsCustomer(t *testing.T) {
	g, cred := guardWith(t, model.RoleCustomer)
	e := echo.New()
	e.GET("/protected", okHandler, TokenAuth(g), RequireAdmin())

	rec := doRequest(e, "Bearer "+cred)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	// The same credential still works where admin is not required.
	e2 := echo.New()
	e2.GET("/protected", okHandler, TokenAuth(g))
	if rec := doRequest(e2, "Bearer "+cred); rec.Code != http.StatusOK {
		t.Fatalf("non-admin route status = %d, want 200", rec.Code)
	}
}

func TestRequireAdminAcceptsAdmin(t *testing.T) {
	g, cred := guardWith(t, model.RoleAdmin)
	e := echo.New()
	e.GET("/protected", okHandler, TokenAuth(g), RequireAdmin())

	if rec := doRequest(e, "Bearer "+cred); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestTokenAuthRevokesOrphanedToken(t *testing.T) {
	tok, err := utils.NewAPIToken()
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	tokens := &memTokens{rows: map[uint64]model.AccessToken{
		3: {ID: 3, UserID: 9, TokenHash: tok.Hash},
	}}
	users := &memUsers{rows: map[uint64]model.User{}} // owner gone
	g := auth.NewGuard(tokens, users)

	e := echo.New()
	e.GET("/protected", okHandler, TokenAuth(g))

	rec := doRequest(e, "Bearer "+utils.FormatCredential(3, tok.Secret))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if _, ok := tokens.rows[3]; ok {
		t.Fatal("orphaned token not revoked")
	}
}

func TestServiceAuth(t *testing.T) {
	const secret = "svc-secret"

	e := echo.New()
	e.POST("/protected", func(c echo.Context) error {
		svc, _ := c.Get("service").(string)
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": svc})
	}, ServiceAuth(secret))

	sign := func(key, svc string) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"svc": svc,
			"exp": time.Now().Add(time.Minute).Unix(),
		})
		s, err := tok.SignedString([]byte(key))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	post := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	if rec := post(""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}
	if rec := post("Bearer " + sign("wrong-secret", "edge")); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad signature: status = %d, want 401", rec.Code)
	}

	rec := post("Bearer " + sign(secret, "edge"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data != "edge" {
		t.Fatalf("service claim = %q, want edge", body.Data)
	}
}
