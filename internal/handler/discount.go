package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/commerce-admin-api/internal/model"
	"github.com/iliyamo/commerce-admin-api/internal/repository"
)

// DiscountHandler implements the admin discount-code resource.
type DiscountHandler struct {
	Discounts *repository.DiscountRepo
}

func NewDiscountHandler(d *repository.DiscountRepo) *DiscountHandler {
	return &DiscountHandler{Discounts: d}
}

type discountReq struct {
	Code     string    `json:"code"`
	Kind     string    `json:"kind"`
	Value    int64     `json:"value"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	MaxUses  int64     `json:"max_uses"`
	Active   bool      `json:"active"`
}

// validate applies the full field rule set before anything is written.
func (r *discountReq) validate() map[string]string {
	errs := map[string]string{}
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	if r.Code == "" {
		errs["code"] = "code is required"
	}
	switch r.Kind {
	case model.DiscountPercent:
		if r.Value < 1 || r.Value > 100 {
			errs["value"] = "percent value must be between 1 and 100"
		}
	case model.DiscountFixed:
		if r.Value <= 0 {
			errs["value"] = "fixed value must be greater than 0"
		}
	default:
		errs["kind"] = "kind must be percent or fixed"
	}
	if r.StartsAt.IsZero() || r.EndsAt.IsZero() {
		errs["starts_at"] = "starts_at and ends_at are required"
	} else if !r.StartsAt.Before(r.EndsAt) {
		errs["starts_at"] = "starts_at must be before ends_at"
	}
	if r.MaxUses < 0 {
		errs["max_uses"] = "max_uses must be 0 or greater"
	}
	return errs
}

// Create adds a discount code.  The code column is unique; a losing
// concurrent insert comes back as a conflict.
func (h *DiscountHandler) Create(c echo.Context) error {
	var req discountReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if errs := req.validate(); len(errs) > 0 {
		return respondFields(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d := model.DiscountCode{
		Code:     req.Code,
		Kind:     req.Kind,
		Value:    req.Value,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		MaxUses:  req.MaxUses,
		Active:   req.Active,
	}
	if err := h.Discounts.Create(ctx, &d); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return respondErr(c, http.StatusConflict, "code already exists")
		}
		return respondErr(c, http.StatusInternalServerError, "create failed")
	}
	return respondOK(c, http.StatusCreated, d)
}

// Get returns one discount code.
func (h *DiscountHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respondErr(c, http.StatusBadRequest, "invalid discount id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Discounts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDiscountNotFound) {
			return respondErr(c, http.StatusNotFound, "discount code not found")
		}
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	return respondOK(c, http.StatusOK, d)
}

// List returns a page of discount codes, newest first.
func (h *DiscountHandler) List(c echo.Context) error {
	page, perPage := parsePagination(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Discounts.List(ctx, page, perPage)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	return respondOK(c, http.StatusOK, pageData{Items: items, Total: total, Page: page, PerPage: perPage})
}

// Update replaces a discount code's fields after full validation.
func (h *DiscountHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respondErr(c, http.StatusBadRequest, "invalid discount id")
	}
	var req discountReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if errs := req.validate(); len(errs) > 0 {
		return respondFields(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d := model.DiscountCode{
		ID:       id,
		Code:     req.Code,
		Kind:     req.Kind,
		Value:    req.Value,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		MaxUses:  req.MaxUses,
		Active:   req.Active,
	}
	if err := h.Discounts.Update(ctx, d); err != nil {
		switch {
		case errors.Is(err, repository.ErrDiscountNotFound):
			return respondErr(c, http.StatusNotFound, "discount code not found")
		case errors.Is(err, repository.ErrConflict):
			return respondErr(c, http.StatusConflict, "code already exists")
		}
		return respondErr(c, http.StatusInternalServerError, "update failed")
	}
	return respondMsg(c, http.StatusOK, "discount code updated")
}

// Delete removes a discount code.
func (h *DiscountHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respondErr(c, http.StatusBadRequest, "invalid discount id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Discounts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrDiscountNotFound) {
			return respondErr(c, http.StatusNotFound, "discount code not found")
		}
		return respondErr(c, http.StatusInternalServerError, "delete failed")
	}
	return respondMsg(c, http.StatusOK, "discount code deleted")
}
