package handler

import (
	"context"      // store interface signatures
	"database/sql" // SQL sentinel errors
	"errors"       // errors.Is for sentinel matching
	"log"          // best-effort failure logging
	"net/http"     // HTTP status codes and primitives
	"strings"      // string manipulation utilities

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	mw "github.com/iliyamo/commerce-admin-api/internal/middleware" // principal extraction
	"github.com/iliyamo/commerce-admin-api/internal/model" // user record and sentinel helpers
	"github.com/iliyamo/commerce-admin-api/internal/utils" // token minting and hashing
)

// loginUserStore and sessionTokenStore are the slices of the repositories
// the session endpoints use.  Interfaces here keep the handler testable
// against in-memory stores, the same way the guard is.
type loginUserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

type sessionTokenStore interface {
	Create(ctx context.Context, userID uint64, tokenHash string) (uint64, error)
	Delete(ctx context.Context, id uint64) error
}

// AuthHandler bundles dependencies for session endpoints.
type AuthHandler struct {
	Users  loginUserStore
	Tokens sessionTokenStore
}

func NewAuthHandler(u loginUserStore, t sessionTokenStore) *AuthHandler {
	return &AuthHandler{Users: u, Tokens: t}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginData struct {
	Token string   `json:"token"` // "<id>|<secret>", shown exactly once
	User  userPart `json:"user"`
}

type userPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Login verifies credentials and mints an opaque API token.  The secret
// half is returned raw to the client; only its hash is stored, so the
// credential cannot be reconstructed from the database.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return respondErr(c, http.StatusBadRequest, "email and password are required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return respondErr(c, http.StatusUnauthorized, "invalid credentials")
		}
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	if u.Deleted() {
		// The sentinel address is itself a valid-looking email with an
		// enumerable timestamp, and the bcrypt hash survives soft
		// deletion.  A matched row that carries the sentinel is still a
		// deactivated account; never issue it a token.
		return respondErr(c, http.StatusUnauthorized, "invalid credentials")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return respondErr(c, http.StatusUnauthorized, "invalid credentials")
	}

	tok, err := utils.NewAPIToken()
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "issue token failed")
	}
	id, err := h.Tokens.Create(ctx, u.ID, tok.Hash)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "save token failed")
	}

	return respondOK(c, http.StatusOK, loginData{
		Token: utils.FormatCredential(id, tok.Secret),
		User:  userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
	})
}

// Logout revokes the token the request authenticated with.
func (h *AuthHandler) Logout(c echo.Context) error {
	p, ok := mw.CurrentPrincipal(c)
	if !ok {
		return respondErr(c, http.StatusUnauthorized, "missing credential")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Tokens.Delete(ctx, p.TokenID); err != nil {
		log.Printf("auth: logout delete token %d failed: %v", p.TokenID, err)
		return respondErr(c, http.StatusInternalServerError, "logout failed")
	}
	return respondMsg(c, http.StatusOK, "logged out")
}

// Me returns the authenticated principal.
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := mw.CurrentPrincipal(c)
	if !ok {
		return respondErr(c, http.StatusUnauthorized, "missing credential")
	}
	return respondOK(c, http.StatusOK, userPart{ID: p.UserID, Name: p.Name, Email: p.Email, Role: p.Role})
}
