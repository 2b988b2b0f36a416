package handler // handler defines http handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Every endpoint answers with the same JSON envelope:
//   { "success": bool, "data"?: any, "message"?: string }
// Success responses carry data, failures carry a message. Validation
// failures may also carry field-level detail inside data.

func respondOK(c echo.Context, status int, data any) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func respondMsg(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": true, "message": msg})
}

func respondErr(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}

// respondFields reports a validation failure with per-field messages.  No
// mutation has happened by the time this is called.
func respondFields(c echo.Context, fields map[string]string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"success": false,
		"message": "validation failed",
		"data":    echo.Map{"errors": fields},
	})
}

// pageData is the uniform pagination payload.
type pageData struct {
	Items   any   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

// parsePagination reads page/per_page query parameters with the shared
// defaults and bounds (page >= 1, per_page 1..100, default 15).
func parsePagination(c echo.Context) (page, perPage int) {
	page = 1
	perPage = 15
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v >= 1 {
		page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("per_page")); err == nil && v >= 1 {
		perPage = v
		if perPage > 100 {
			perPage = 100
		}
	}
	return page, perPage
}

// reqCtx bounds a handler's database work to five seconds.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// pathID parses a numeric :id path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}
