package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"propdesk/internal/core"
	"propdesk/internal/realtime"
	"propdesk/internal/types"
)

// RealtimeStatusResponse is the body of GET /v1/realtime/status.
type RealtimeStatusResponse struct {
	State     types.ConnectionState `json:"state"`
	LastEvent *types.EventEnvelope  `json:"last_event,omitempty"`
}

// RealtimeHandler exposes the realtime channel's connection state and
// lifecycle controls.
type RealtimeHandler struct {
	channel realtime.EventChannel
}

// NewRealtimeHandler creates a RealtimeHandler.
func NewRealtimeHandler(ch realtime.EventChannel) *RealtimeHandler {
	return &RealtimeHandler{channel: ch}
}

// RegisterRoutes mounts realtime routes.
func (h *RealtimeHandler) RegisterRoutes(r chi.Router) {
	r.Route("/realtime", func(r chi.Router) {
		r.Get("/status", h.Status)
		r.Post("/reconnect", h.Reconnect)
	})
}

// Status handles GET /v1/realtime/status.
func (h *RealtimeHandler) Status(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: RealtimeStatusResponse{
		State:     h.channel.State(),
		LastEvent: h.channel.LastEvent(),
	}})
}

// Reconnect handles POST /v1/realtime/reconnect, forcing a fresh connection
// attempt. Useful after the retry budget is exhausted and the channel sits
// in the failed state.
func (h *RealtimeHandler) Reconnect(w http.ResponseWriter, r *http.Request) {
	h.channel.Reconnect()
	core.JSON(w, r, http.StatusAccepted, core.APIResponse{Data: RealtimeStatusResponse{
		State: h.channel.State(),
	}})
}
