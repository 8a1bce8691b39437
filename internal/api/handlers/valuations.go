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

// valuationsAPI is the slice of the backend valuations client this handler uses.
type valuationsAPI interface {
	Request(ctx context.Context, in backend.ValuationInput) (types.Valuation, error)
	Get(ctx context.Context, id string) (types.Valuation, error)
	List(ctx context.Context, q types.ListQuery) (types.ListResponse[types.Valuation], error)
}

// ValuationHandler proxies AI valuation requests to the backend. Requesting a
// valuation is gated on the ai_assistant entitlement; the monthly count is a
// quota ceiling the backend enforces, so a zero or exhausted quota still lets
// the request through here and comes back as limit_quota_exceeded.
type ValuationHandler struct {
	valuations valuationsAPI
	gate       *gate.Gate
	validator  *core.Validator
}

// NewValuationHandler creates a ValuationHandler.
func NewValuationHandler(vc valuationsAPI, g *gate.Gate, v *core.Validator) *ValuationHandler {
	return &ValuationHandler{valuations: vc, gate: g, validator: v}
}

// RegisterRoutes mounts valuation routes.
func (h *ValuationHandler) RegisterRoutes(r chi.Router) {
	r.Route("/valuations", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Request)
		r.Get("/{id}", h.Get)
	})
}

// List handles GET /v1/valuations.
func (h *ValuationHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.valuations.List(r.Context(), parseListQuery(r))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{
		Data: res.Data,
		Meta: &types.ResponseMeta{Pagination: &res.PageInfo},
	})
}

// Get handles GET /v1/valuations/{id}.
func (h *ValuationHandler) Get(w http.ResponseWriter, r *http.Request) {
	val, err := h.valuations.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: val})
}

// Request handles POST /v1/valuations. Completion is asynchronous: the
// backend answers with a pending valuation and the result arrives later as a
// valuation-complete realtime event.
func (h *ValuationHandler) Request(w http.ResponseWriter, r *http.Request) {
	if err := requireFeature(r, h.gate, types.FeatureAIAssistant); err != nil {
		core.Error(w, r, err)
		return
	}

	var req backend.ValuationInput
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	val, err := h.valuations.Request(r.Context(), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusAccepted, core.APIResponse{Data: val})
}
