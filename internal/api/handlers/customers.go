package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"propdesk/internal/backend"
	"propdesk/internal/core"
	"propdesk/internal/types"
)

// customersAPI is the slice of the backend CRM client this handler uses.
type customersAPI interface {
	List(ctx context.Context, q types.ListQuery) (types.ListResponse[types.Customer], error)
	Get(ctx context.Context, id string) (types.Customer, error)
	Create(ctx context.Context, in backend.CustomerInput) (types.Customer, error)
	Update(ctx context.Context, id string, in backend.CustomerInput) (types.Customer, error)
	Delete(ctx context.Context, id string) error
}

// CustomerHandler proxies CRM contact CRUD to the backend. Contact count
// limits are quota ceilings the backend enforces; a 429 from it surfaces as
// limit_quota_exceeded.
type CustomerHandler struct {
	customers customersAPI
	validator *core.Validator
}

// NewCustomerHandler creates a CustomerHandler.
func NewCustomerHandler(c customersAPI, v *core.Validator) *CustomerHandler {
	return &CustomerHandler{customers: c, validator: v}
}

// RegisterRoutes mounts customer routes.
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
}

// List handles GET /v1/customers.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.customers.List(r.Context(), parseListQuery(r))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{
		Data: res.Data,
		Meta: &types.ResponseMeta{Pagination: &res.PageInfo},
	})
}

// Get handles GET /v1/customers/{id}.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	cust, err := h.customers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: cust})
}

// Create handles POST /v1/customers.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req backend.CustomerInput
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	cust, err := h.customers.Create(r.Context(), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: cust})
}

// Update handles PUT /v1/customers/{id}.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req backend.CustomerInput
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	cust, err := h.customers.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: cust})
}

// Delete handles DELETE /v1/customers/{id}.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.customers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		core.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
