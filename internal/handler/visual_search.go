package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/commerce-admin-api/internal/service"
)

const visualSearchLimit = 5

// VisualSearchHandler fronts the visual search collaborator.
type VisualSearchHandler struct {
	Searcher service.VisualSearcher
}

func NewVisualSearchHandler(s service.VisualSearcher) *VisualSearchHandler {
	return &VisualSearchHandler{Searcher: s}
}

type visualSearchReq struct {
	ImageURL string `json:"image_url"`
}

// Search returns catalogue products resembling the submitted image.
func (h *VisualSearchHandler) Search(c echo.Context) error {
	var req visualSearchReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	u, err := url.Parse(req.ImageURL)
	if req.ImageURL == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return respondFields(c, map[string]string{"image_url": "a valid http(s) image_url is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	matches, err := h.Searcher.Search(ctx, req.ImageURL, visualSearchLimit)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "search failed")
	}
	return respondOK(c, http.StatusOK, echo.Map{"matches": matches})
}
