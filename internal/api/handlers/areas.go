package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"propdesk/internal/core"
	"propdesk/internal/types"
)

// areasAPI is the slice of the backend areas client this handler uses.
type areasAPI interface {
	Risk(ctx context.Context, areaID string) (types.AreaRiskReport, error)
}

// AreaHandler proxies area analytics lookups to the backend.
type AreaHandler struct {
	areas areasAPI
}

// NewAreaHandler creates an AreaHandler.
func NewAreaHandler(a areasAPI) *AreaHandler {
	return &AreaHandler{areas: a}
}

// RegisterRoutes mounts area routes.
func (h *AreaHandler) RegisterRoutes(r chi.Router) {
	r.Get("/areas/{id}/risk", h.Risk)
}

// Risk handles GET /v1/areas/{id}/risk, returning the district report with
// earthquake risk scoring and price trends.
func (h *AreaHandler) Risk(w http.ResponseWriter, r *http.Request) {
	report, err := h.areas.Risk(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: report})
}
