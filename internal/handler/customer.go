package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/commerce-admin-api/internal/config"
	"github.com/iliyamo/commerce-admin-api/internal/model"
	"github.com/iliyamo/commerce-admin-api/internal/repository"
)

// CustomerHandler implements the admin customer resource.
type CustomerHandler struct {
	Cfg       config.Config
	Customers *repository.CustomerRepo
	Users     *repository.UserRepo
	Tokens    *repository.TokenRepo
}

func NewCustomerHandler(cfg config.Config, c *repository.CustomerRepo, u *repository.UserRepo, t *repository.TokenRepo) *CustomerHandler {
	return &CustomerHandler{Cfg: cfg, Customers: c, Users: u, Tokens: t}
}

// List returns a page of live customers, optionally filtered by a search
// term matched against name and email.
func (h *CustomerHandler) List(c echo.Context) error {
	page, perPage := parsePagination(c)
	search := strings.TrimSpace(c.QueryParam("search"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, total, err := h.Customers.List(ctx, search, page, perPage)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	return respondOK(c, http.StatusOK, pageData{Items: rows, Total: total, Page: page, PerPage: perPage})
}

// Get returns one customer with order statistics.
func (h *CustomerHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respondErr(c, http.StatusBadRequest, "invalid customer id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	detail, err := h.Customers.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return respondErr(c, http.StatusNotFound, "customer not found")
		}
		return respondErr(c, http.StatusInternalServerError, "query failed")
	}
	return respondOK(c, http.StatusOK, detail)
}

type createCustomerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *createCustomerReq) validate() map[string]string {
	errs := map[string]string{}
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Name == "" {
		errs["name"] = "name is required"
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		errs["email"] = "a valid email is required"
	}
	if len(r.Password) < 8 {
		errs["password"] = "password must be at least 8 characters"
	}
	return errs
}

// Create registers a customer account with a bcrypt-hashed password.
func (h *CustomerHandler) Create(c echo.Context) error {
	var req createCustomerReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if errs := req.validate(); len(errs) > 0 {
		return respondFields(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, model.RoleCustomer, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return respondErr(c, http.StatusConflict, "email already exists")
		}
		return respondErr(c, http.StatusInternalServerError, "create failed")
	}
	return respondOK(c, http.StatusCreated, echo.Map{"id": id, "name": req.Name, "email": req.Email})
}

type updateCustomerReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Update changes a customer's name and email.
func (h *CustomerHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respondErr(c, http.StatusBadRequest, "invalid customer id")
	}
	var req updateCustomerReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	errs := map[string]string{}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" {
		errs["name"] = "name is required"
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		errs["email"] = "a valid email is required"
	}
	if model.IsDeletedEmail(req.Email) {
		errs["email"] = "email is not allowed"
	}
	if len(errs) > 0 {
		return respondFields(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Customers.Update(ctx, id, req.Name, req.Email); err != nil {
		switch {
		case errors.Is(err, repository.ErrCustomerNotFound):
			return respondErr(c, http.StatusNotFound, "customer not found")
		case errors.Is(err, repository.ErrEmailExists):
			return respondErr(c, http.StatusConflict, "email already exists")
		}
		return respondErr(c, http.StatusInternalServerError, "update failed")
	}
	return respondMsg(c, http.StatusOK, "customer updated")
}

// Delete soft-deletes a customer.  The email is rewritten to the deletion
// sentinel so the row keeps satisfying the unique index while every future
// guard check sees the account as deactivated, and all the customer's
// tokens are removed so open sessions die immediately.
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return respondErr(c, http.StatusBadRequest, "invalid customer id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Customers.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return respondErr(c, http.StatusNotFound, "customer not found")
		}
		return respondErr(c, http.StatusInternalServerError, "delete failed")
	}
	if err := h.Tokens.DeleteForUser(ctx, id); err != nil {
		// The account is already deactivated; stale tokens will be
		// revoked lazily by the guard.
		log.Printf("customer: delete tokens for user %d failed: %v", id, err)
	}
	return respondMsg(c, http.StatusOK, "customer deleted")
}
