package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"errors"                // errors provides Is for matching rejection reasons
	"net/http"              // HTTP status codes for responses
	"strings"               // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/commerce-admin-api/internal/auth" // auth implements credential validation
)

// principalKey is the context key under which the authenticated principal
// is stored for downstream handlers.
const principalKey = "principal"

// TokenAuth returns an Echo middleware that validates the opaque bearer
// credential ("<id>|<secret>") against the token store and injects the
// resolved principal into the request context.  Handlers access it via
// CurrentPrincipal.  Each rejection reason maps to a fixed HTTP status:
// credential problems are 401, a missing or deactivated owning account is
// 404 (the guard revokes the token first), and infrastructure failures are
// a generic 500.
func TokenAuth(g *auth.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Read the Authorization header.  A valid header starts with
			// "Bearer " followed by the credential.  An absent or
			// differently-shaped header is a missing credential.
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return rejectAuth(c, auth.ErrMissingCredential)
			}
			credential := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

			p, err := g.ValidateUserAndToken(c.Request().Context(), credential)
			if err != nil {
				return rejectAuth(c, err)
			}

			// Store the principal for handlers and the admin check below.
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// RequireAdmin enforces the administrative role on top of TokenAuth.  A
// valid non-admin credential is rejected with 403 without being revoked;
// it remains usable on non-admin endpoints.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := CurrentPrincipal(c)
			if !ok {
				return rejectAuth(c, auth.ErrMissingCredential)
			}
			if !isAdminRole(p.Role) {
				return rejectAuth(c, auth.ErrInsufficientPrivilege)
			}
			return next(c)
		}
	}
}

// CurrentPrincipal returns the principal stored by TokenAuth.
func CurrentPrincipal(c echo.Context) (auth.Principal, bool) {
	p, ok := c.Get(principalKey).(auth.Principal)
	return p, ok
}

func isAdminRole(role string) bool { return role == "admin" }

// rejectAuth translates a guard rejection into the JSON envelope with the
// status fixed per reason.
func rejectAuth(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, auth.ErrMissingCredential),
		errors.Is(err, auth.ErrMalformedCredential),
		errors.Is(err, auth.ErrInvalidCredential):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, auth.ErrPrincipalNotFound),
		errors.Is(err, auth.ErrPrincipalDeactivated):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, auth.ErrInsufficientPrivilege):
		status, msg = http.StatusForbidden, err.Error()
	}
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}
