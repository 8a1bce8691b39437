package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"propdesk/internal/core"
	"propdesk/internal/gate"
	"propdesk/internal/types"
)

// EntitlementsResponse is the body of GET /v1/session/entitlements.
type EntitlementsResponse struct {
	Tier         types.PlanTier                         `json:"tier"`
	Entitlements map[types.FeatureKey]types.Entitlement `json:"entitlements"`
}

// EntitlementHandler surfaces the session's resolved plan and feature gate
// decisions so the client renders exactly what the gateway would enforce.
type EntitlementHandler struct {
	gate   *gate.Gate
	logger *slog.Logger
}

// NewEntitlementHandler creates an EntitlementHandler.
func NewEntitlementHandler(g *gate.Gate, l *slog.Logger) *EntitlementHandler {
	if l == nil {
		l = slog.Default()
	}
	return &EntitlementHandler{gate: g, logger: l}
}

// RegisterRoutes mounts the session entitlement routes.
func (h *EntitlementHandler) RegisterRoutes(r chi.Router) {
	r.Route("/session", func(r chi.Router) {
		r.Get("/entitlements", h.GetEntitlements)
		r.Get("/gate/{featureKey}", h.CheckGate)
	})
}

// GetEntitlements handles GET /v1/session/entitlements. The plan context was
// resolved at login and travels with the session.
func (h *EntitlementHandler) GetEntitlements(w http.ResponseWriter, r *http.Request) {
	sess, ok := types.GetSession(r.Context())
	if !ok {
		core.Error(w, r, types.NewAppError(types.ErrCodeAuthTokenMissing, "authentication required", nil))
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: EntitlementsResponse{
		Tier:         sess.Plan.Tier,
		Entitlements: sess.Plan.Entitlements,
	}})
}

// CheckGate handles GET /v1/session/gate/{featureKey}. Unknown feature keys
// are contract violations and surface as 500s, not 404s: the set of feature
// keys is closed and a bad key means a bug in the caller.
func (h *EntitlementHandler) CheckGate(w http.ResponseWriter, r *http.Request) {
	sess, ok := types.GetSession(r.Context())
	if !ok {
		core.Error(w, r, types.NewAppError(types.ErrCodeAuthTokenMissing, "authentication required", nil))
		return
	}

	key := types.FeatureKey(chi.URLParam(r, "featureKey"))
	decision, err := h.gate.Evaluate(sess.Plan.Tier, key)
	if err != nil {
		h.logger.Error("feature gate evaluation failed",
			slog.String("tier", string(sess.Plan.Tier)),
			slog.String("feature", string(key)),
			slog.String("error", err.Error()),
		)
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: decision})
}
