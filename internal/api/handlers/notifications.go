package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"propdesk/internal/core"
	"propdesk/internal/notify"
	"propdesk/internal/types"
)

// PushNotificationRequest is the body of POST /v1/notifications.
type PushNotificationRequest struct {
	Text     string         `json:"text" validate:"required,max=500"`
	Severity types.Severity `json:"severity" validate:"required,oneof=success error info"`
}

// NotificationHandler exposes the in-memory notification bus.
type NotificationHandler struct {
	bus       *notify.Bus
	validator *core.Validator
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(bus *notify.Bus, v *core.Validator) *NotificationHandler {
	return &NotificationHandler{bus: bus, validator: v}
}

// RegisterRoutes mounts notification routes.
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Push)
		r.Post("/{id}/dismiss", h.Dismiss)
	})
}

// List handles GET /v1/notifications, returning active messages in
// insertion order.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: h.bus.Messages()})
}

// Push handles POST /v1/notifications and returns the assigned message ID.
func (h *NotificationHandler) Push(w http.ResponseWriter, r *http.Request) {
	var req PushNotificationRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	id := h.bus.Push(req.Text, req.Severity)
	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: map[string]string{"id": id}})
}

// Dismiss handles POST /v1/notifications/{id}/dismiss. Dismissal is
// idempotent, so an already-gone message still answers 204.
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.bus.Dismiss(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}
