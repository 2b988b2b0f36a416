package middleware

// service_auth.go guards the monitoring ingestion endpoints. Those are not
// called by humans with API tokens but by storefront and edge services,
// which authenticate with a short-lived HS256 JWT signed with a shared
// secret. The token's "svc" claim names the reporting service and is
// stored in the context for ingestion logging.

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ServiceAuth returns an Echo middleware that validates a Bearer service
// JWT.  The provided secret must match the one the reporting services sign
// with.  Expiry is enforced by the jwt library when an exp claim is
// present.
func ServiceAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "missing service token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				// Reject tokens signed with anything but HMAC.
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid service token"})
			}

			if claims, ok := tok.Claims.(jwt.MapClaims); ok {
				if svc, ok := claims["svc"].(string); ok {
					c.Set("service", svc)
				}
			}
			return next(c)
		}
	}
}
