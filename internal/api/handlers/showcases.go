package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"propdesk/internal/backend"
	"propdesk/internal/core"
	"propdesk/internal/gate"
	"propdesk/internal/types"
)

// showcasesAPI is the slice of the backend showcase client this handler uses.
type showcasesAPI interface {
	List(ctx context.Context, q types.ListQuery) (types.ListResponse[types.Showcase], error)
	Get(ctx context.Context, id string) (types.Showcase, error)
	Create(ctx context.Context, in backend.ShowcaseInput) (types.Showcase, error)
	Update(ctx context.Context, id string, in backend.ShowcaseInput) (types.Showcase, error)
	Publish(ctx context.Context, id string) (types.Showcase, error)
	Delete(ctx context.Context, id string) error
}

// ShowcaseHandler proxies showcase CRUD to the backend. Publishing to the
// public portal is gated on the portal_export entitlement; the showcase
// count itself is a quota the backend enforces.
type ShowcaseHandler struct {
	showcases showcasesAPI
	gate      *gate.Gate
	validator *core.Validator
}

// NewShowcaseHandler creates a ShowcaseHandler.
func NewShowcaseHandler(s showcasesAPI, g *gate.Gate, v *core.Validator) *ShowcaseHandler {
	return &ShowcaseHandler{showcases: s, gate: g, validator: v}
}

// RegisterRoutes mounts showcase routes.
func (h *ShowcaseHandler) RegisterRoutes(r chi.Router) {
	r.Route("/showcases", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Post("/publish", h.Publish)
		})
	})
}

// List handles GET /v1/showcases.
func (h *ShowcaseHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.showcases.List(r.Context(), parseListQuery(r))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{
		Data: res.Data,
		Meta: &types.ResponseMeta{Pagination: &res.PageInfo},
	})
}

// Get handles GET /v1/showcases/{id}.
func (h *ShowcaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	sc, err := h.showcases.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: sc})
}

// Create handles POST /v1/showcases.
func (h *ShowcaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req backend.ShowcaseInput
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	sc, err := h.showcases.Create(r.Context(), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: sc})
}

// Update handles PUT /v1/showcases/{id}.
func (h *ShowcaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req backend.ShowcaseInput
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	sc, err := h.showcases.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: sc})
}

// Publish handles POST /v1/showcases/{id}/publish. It requires the session's
// plan to enable portal export; otherwise the response carries the minimum
// tier that would.
func (h *ShowcaseHandler) Publish(w http.ResponseWriter, r *http.Request) {
	if err := requireFeature(r, h.gate, types.FeaturePortalExport); err != nil {
		core.Error(w, r, err)
		return
	}

	sc, err := h.showcases.Publish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: sc})
}

// Delete handles DELETE /v1/showcases/{id}.
func (h *ShowcaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.showcases.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		core.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireFeature evaluates the gate for the session tier and converts a
// non-accessible decision into a plan-insufficient error naming the minimum
// tier that enables the feature.
func requireFeature(r *http.Request, g *gate.Gate, key types.FeatureKey) error {
	sess, ok := types.GetSession(r.Context())
	if !ok {
		return types.NewAppError(types.ErrCodeAuthTokenMissing, "authentication required", nil)
	}

	decision, err := g.Evaluate(sess.Plan.Tier, key)
	if err != nil {
		return err
	}
	if decision.Accessible() {
		return nil
	}

	details := map[string]any{"feature": string(key)}
	if decision.MinimumTier != "" {
		details["minimum_tier"] = string(decision.MinimumTier)
	}
	return types.NewAppErrorWithDetails(
		types.ErrCodePermissionPlan,
		"current plan does not include this feature",
		nil,
		details,
	)
}
