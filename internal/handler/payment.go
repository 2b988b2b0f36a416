package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	mw "github.com/iliyamo/commerce-admin-api/internal/middleware"
	"github.com/iliyamo/commerce-admin-api/internal/model"
	"github.com/iliyamo/commerce-admin-api/internal/repository"
	"github.com/iliyamo/commerce-admin-api/internal/service"
)

// PaymentHandler implements stored payment methods and payment intents.
// All operations are scoped to the authenticated user.
type PaymentHandler struct {
	Payments *repository.PaymentRepo
	Provider service.PaymentProvider
}

func NewPaymentHandler(p *repository.PaymentRepo, prov service.PaymentProvider) *PaymentHandler {
	return &PaymentHandler{Payments: p, Provider: prov}
}

// ----- payment methods -----

// ListMethods returns the caller's stored cards, default first.
func (h *PaymentHandler) ListMethods(c echo.Context) error {
	p, ok := mw.CurrentPrincipal(c)
	if !ok {
		return respondErr(c, http.StatusUnauthorized, "missing credential")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	methods, err := h.Payments.ListMethods(ctx, p.UserID)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	return respondOK(c, http.StatusOK, methods)
}

type createMethodReq struct {
	Brand     string `json:"brand"`
	Last4     string `json:"last4"`
	ExpMonth  int    `json:"exp_month"`
	ExpYear   int    `json:"exp_year"`
	IsDefault bool   `json:"is_default"`
}

func (r *createMethodReq) validate(now time.Time) map[string]string {
	errs := map[string]string{}
	r.Brand = strings.ToLower(strings.TrimSpace(r.Brand))
	if r.Brand == "" {
		errs["brand"] = "brand is required"
	}
	if len(r.Last4) != 4 || strings.Trim(r.Last4, "0123456789") != "" {
		errs["last4"] = "last4 must be exactly 4 digits"
	}
	if r.ExpMonth < 1 || r.ExpMonth > 12 {
		errs["exp_month"] = "exp_month must be between 1 and 12"
	}
	if r.ExpYear < now.Year() || r.ExpYear > now.Year()+20 {
		errs["exp_year"] = "exp_year is out of range"
	}
	return errs
}

// CreateMethod stores a card reference.  Marking it default unsets the
// previous default inside one transaction.
func (h *PaymentHandler) CreateMethod(c echo.Context) error {
	p, ok := mw.CurrentPrincipal(c)
	if !ok {
		return respondErr(c, http.StatusUnauthorized, "missing credential")
	}
	var req createMethodReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if errs := req.validate(time.Now().UTC()); len(errs) > 0 {
		return respondFields(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := model.PaymentMethod{
		UserID:    p.UserID,
		Brand:     req.Brand,
		Last4:     req.Last4,
		ExpMonth:  req.ExpMonth,
		ExpYear:   req.ExpYear,
		IsDefault: req.IsDefault,
	}
	if err := h.Payments.CreateMethod(ctx, &m); err != nil {
		return respondErr(c, http.StatusInternalServerError, "create failed")
	}
	return respondOK(c, http.StatusCreated, m)
}

// DeleteMethod removes one of the caller's cards.
func (h *PaymentHandler) DeleteMethod(c echo.Context) error {
	p, ok := mw.CurrentPrincipal(c)
	if !ok {
		return respondErr(c, http.StatusUnauthorized, "missing credential")
	}
	id, ok := pathID(c, "id")
	if !ok {
		return respondErr(c, http.StatusBadRequest, "invalid payment method id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Payments.DeleteMethod(ctx, p.UserID, id); err != nil {
		if errors.Is(err, repository.ErrPaymentMethodNotFound) {
			return respondErr(c, http.StatusNotFound, "payment method not found")
		}
		return respondErr(c, http.StatusInternalServerError, "delete failed")
	}
	return respondMsg(c, http.StatusOK, "payment method deleted")
}

// ----- payment intents -----

type createIntentReq struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

func (r *createIntentReq) validate() map[string]string {
	errs := map[string]string{}
	if r.AmountCents <= 0 {
		errs["amount_cents"] = "amount_cents must be greater than 0"
	}
	r.Currency = strings.ToLower(strings.TrimSpace(r.Currency))
	if len(r.Currency) != 3 {
		errs["currency"] = "currency must be a 3-letter code"
	}
	return errs
}

// CreateIntent opens an intent with the provider and stores the row.
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	p, ok := mw.CurrentPrincipal(c)
	if !ok {
		return respondErr(c, http.StatusUnauthorized, "missing credential")
	}
	var req createIntentReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if errs := req.validate(); len(errs) > 0 {
		return respondFields(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	pi, err := h.Provider.CreateIntent(ctx, req.AmountCents, req.Currency)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "provider error")
	}
	in := model.PaymentIntent{
		ID:           pi.ID,
		UserID:       p.UserID,
		AmountCents:  req.AmountCents,
		Currency:     req.Currency,
		Status:       pi.Status,
		ClientSecret: pi.ClientSecret,
	}
	if err := h.Payments.CreateIntent(ctx, &in); err != nil {
		return respondErr(c, http.StatusInternalServerError, "create failed")
	}
	return respondOK(c, http.StatusCreated, in)
}

// GetIntent fetches one of the caller's intents.
func (h *PaymentHandler) GetIntent(c echo.Context) error {
	p, ok := mw.CurrentPrincipal(c)
	if !ok {
		return respondErr(c, http.StatusUnauthorized, "missing credential")
	}
	id := c.Param("id")
	if id == "" {
		return respondErr(c, http.StatusBadRequest, "invalid payment intent id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	in, err := h.Payments.GetIntent(ctx, p.UserID, id)
	if err != nil {
		if errors.Is(err, repository.ErrIntentNotFound) {
			return respondErr(c, http.StatusNotFound, "payment intent not found")
		}
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	return respondOK(c, http.StatusOK, in)
}

// CancelIntent moves an intent to canceled.  The conditional UPDATE only
// matches non-terminal states, so a zero-row result is re-read to tell a
// missing intent (404) from one already settled or canceled (409).
func (h *PaymentHandler) CancelIntent(c echo.Context) error {
	p, ok := mw.CurrentPrincipal(c)
	if !ok {
		return respondErr(c, http.StatusUnauthorized, "missing credential")
	}
	id := c.Param("id")
	if id == "" {
		return respondErr(c, http.StatusBadRequest, "invalid payment intent id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Payments.UpdateIntentStatus(ctx, p.UserID, id, model.IntentCanceled)
	if err == nil {
		return respondMsg(c, http.StatusOK, "payment intent canceled")
	}
	if !errors.Is(err, repository.ErrIntentNotFound) {
		return respondErr(c, http.StatusInternalServerError, "cancel failed")
	}

	in, err := h.Payments.GetIntent(ctx, p.UserID, id)
	if err != nil {
		if errors.Is(err, repository.ErrIntentNotFound) {
			return respondErr(c, http.StatusNotFound, "payment intent not found")
		}
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	if model.TerminalIntentStatus(in.Status) {
		return respondErr(c, http.StatusConflict, "payment intent is already "+in.Status)
	}
	return respondErr(c, http.StatusInternalServerError, "cancel failed")
}
