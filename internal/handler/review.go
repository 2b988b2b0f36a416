package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	mw "github.com/iliyamo/commerce-admin-api/internal/middleware"
	"github.com/iliyamo/commerce-admin-api/internal/model"
	"github.com/iliyamo/commerce-admin-api/internal/repository"
)

// ReviewHandler implements product reviews and review votes.
type ReviewHandler struct {
	Reviews  *repository.ReviewRepo
	Products *repository.ProductRepo
}

func NewReviewHandler(r *repository.ReviewRepo, p *repository.ProductRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: r, Products: p}
}

type createReviewReq struct {
	ProductID uint64 `json:"product_id"`
	Rating    int    `json:"rating"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}

func (r *createReviewReq) validate() map[string]string {
	errs := map[string]string{}
	if r.ProductID == 0 {
		errs["product_id"] = "product_id is required"
	}
	if r.Rating < 1 || r.Rating > 5 {
		errs["rating"] = "rating must be between 1 and 5"
	}
	r.Title = strings.TrimSpace(r.Title)
	r.Body = strings.TrimSpace(r.Body)
	if r.Body == "" {
		errs["body"] = "body is required"
	}
	return errs
}

// Create posts a review.  One review per user per product; the unique
// index closes the race and maps to 409 here.
func (h *ReviewHandler) Create(c echo.Context) error {
	p, ok := mw.CurrentPrincipal(c)
	if !ok {
		return respondErr(c, http.StatusUnauthorized, "missing credential")
	}
	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if errs := req.validate(); len(errs) > 0 {
		return respondFields(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Products.Get(ctx, req.ProductID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return respondErr(c, http.StatusNotFound, "product not found")
		}
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}

	rv := model.Review{
		ProductID: req.ProductID,
		UserID:    p.UserID,
		Rating:    req.Rating,
		Title:     req.Title,
		Body:      req.Body,
	}
	if err := h.Reviews.Create(ctx, &rv); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return respondErr(c, http.StatusConflict, "review already exists for this product")
		}
		return respondErr(c, http.StatusInternalServerError, "create failed")
	}
	return respondOK(c, http.StatusCreated, rv)
}

type voteReq struct {
	Vote int `json:"vote"`
}

// Vote records an up or down vote on a review, one per user.
func (h *ReviewHandler) Vote(c echo.Context) error {
	p, ok := mw.CurrentPrincipal(c)
	if !ok {
		return respondErr(c, http.StatusUnauthorized, "missing credential")
	}
	id, ok := pathID(c, "id")
	if !ok {
		return respondErr(c, http.StatusBadRequest, "invalid review id")
	}
	var req voteReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if req.Vote != 1 && req.Vote != -1 {
		return respondFields(c, map[string]string{"vote": "vote must be 1 or -1"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Reviews.Vote(ctx, id, p.UserID, req.Vote); err != nil {
		switch {
		case errors.Is(err, repository.ErrReviewNotFound):
			return respondErr(c, http.StatusNotFound, "review not found")
		case errors.Is(err, repository.ErrDuplicateVote):
			return respondErr(c, http.StatusConflict, "vote already recorded")
		}
		return respondErr(c, http.StatusInternalServerError, "vote failed")
	}
	return respondMsg(c, http.StatusOK, "vote recorded")
}

// ListByProduct is the public review listing for a product.
func (h *ReviewHandler) ListByProduct(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respondErr(c, http.StatusBadRequest, "invalid product id")
	}
	page, perPage := parsePagination(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Reviews.ListByProduct(ctx, id, page, perPage)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	return respondOK(c, http.StatusOK, pageData{Items: items, Total: total, Page: page, PerPage: perPage})
}

// ListAll is the admin listing across all products.
func (h *ReviewHandler) ListAll(c echo.Context) error {
	page, perPage := parsePagination(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Reviews.ListAll(ctx, page, perPage)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	return respondOK(c, http.StatusOK, pageData{Items: items, Total: total, Page: page, PerPage: perPage})
}

// Delete removes a review and its votes (admin moderation).
func (h *ReviewHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respondErr(c, http.StatusBadRequest, "invalid review id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return respondErr(c, http.StatusNotFound, "review not found")
		}
		return respondErr(c, http.StatusInternalServerError, "delete failed")
	}
	return respondMsg(c, http.StatusOK, "review deleted")
}
