package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems to verify that the service is running.  It returns
// a plain text "ok" message with an HTTP 200 status code.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// HealthHandler reports dependency status for the detailed health check.
type HealthHandler struct {
	DB    *sql.DB
	Redis *redis.Client
}

func NewHealthHandler(db *sql.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{DB: db, Redis: rdb}
}

// Detailed answers GET /api/health with the state of each dependency.
// Redis is optional (caching and rate limiting degrade without it), so a
// missing client reports "disabled" rather than failing the check.
func (h *HealthHandler) Detailed(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	dbStatus := "up"
	if err := h.DB.PingContext(ctx); err != nil {
		dbStatus = "down"
	}

	redisStatus := "disabled"
	if h.Redis != nil {
		pingCtx, pingCancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer pingCancel()
		if err := h.Redis.Ping(pingCtx).Err(); err != nil {
			redisStatus = "down"
		} else {
			redisStatus = "up"
		}
	}

	status := http.StatusOK
	if dbStatus == "down" {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, echo.Map{
		"success": dbStatus != "down",
		"data": echo.Map{
			"database": dbStatus,
			"redis":    redisStatus,
			"time":     time.Now().UTC().Format(time.RFC3339),
		},
	})
}
