package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"propdesk/internal/backend"
	"propdesk/internal/core"
	"propdesk/internal/types"
)

// maxPageSize caps the per-page item count forwarded to the backend.
const maxPageSize = 100

// parseListQuery extracts pagination parameters from the request.
func parseListQuery(r *http.Request) types.ListQuery {
	q := types.ListQuery{Cursor: r.URL.Query().Get("cursor")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			if n > maxPageSize {
				n = maxPageSize
			}
			q.Limit = n
		}
	}
	return q
}

// propertiesAPI is the slice of the backend properties client this handler uses.
type propertiesAPI interface {
	List(ctx context.Context, q types.ListQuery) (types.ListResponse[types.Property], error)
	Get(ctx context.Context, id string) (types.Property, error)
	Create(ctx context.Context, in backend.PropertyInput) (types.Property, error)
	Update(ctx context.Context, id string, in backend.PropertyInput) (types.Property, error)
	Delete(ctx context.Context, id string) error
}

// PropertyHandler proxies portfolio CRUD to the backend.
type PropertyHandler struct {
	properties propertiesAPI
	validator  *core.Validator
}

// NewPropertyHandler creates a PropertyHandler.
func NewPropertyHandler(p propertiesAPI, v *core.Validator) *PropertyHandler {
	return &PropertyHandler{properties: p, validator: v}
}

// RegisterRoutes mounts property routes.
func (h *PropertyHandler) RegisterRoutes(r chi.Router) {
	r.Route("/properties", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
}

// List handles GET /v1/properties.
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.properties.List(r.Context(), parseListQuery(r))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{
		Data: res.Data,
		Meta: &types.ResponseMeta{Pagination: &res.PageInfo},
	})
}

// Get handles GET /v1/properties/{id}.
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	prop, err := h.properties.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: prop})
}

// Create handles POST /v1/properties.
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req backend.PropertyInput
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	prop, err := h.properties.Create(r.Context(), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: prop})
}

// Update handles PUT /v1/properties/{id}.
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req backend.PropertyInput
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	prop, err := h.properties.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: prop})
}

// Delete handles DELETE /v1/properties/{id}.
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.properties.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		core.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
