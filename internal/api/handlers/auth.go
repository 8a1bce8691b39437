package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"propdesk/internal/backend"
	"propdesk/internal/core"
	"propdesk/internal/plan"
	"propdesk/internal/types"
)

// authAPI is the slice of the backend auth client this handler uses.
type authAPI interface {
	Login(ctx context.Context, in backend.LoginInput) (backend.LoginResult, error)
	Register(ctx context.Context, in backend.RegisterInput) (backend.LoginResult, error)
	RequestPasswordReset(ctx context.Context, in backend.PasswordResetInput) error
	ChangePassword(ctx context.Context, in backend.PasswordChangeInput) error
	Logout(ctx context.Context) error
}

// SessionResponse is the body returned by login and register.
type SessionResponse struct {
	Token        string                                 `json:"token"`
	UserID       string                                 `json:"user_id"`
	TenantID     string                                 `json:"tenant_id"`
	Tier         types.PlanTier                         `json:"tier"`
	Entitlements map[types.FeatureKey]types.Entitlement `json:"entitlements"`
	ExpiresAt    time.Time                              `json:"expires_at"`
}

// AuthHandler proxies auth operations to the backend and materializes the
// session's plan context from the login response.
type AuthHandler struct {
	auth      authAPI
	store     *SessionStore
	resolver  *plan.Resolver
	validator *core.Validator
	logger    *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth authAPI, store *SessionStore, resolver *plan.Resolver, v *core.Validator, l *slog.Logger) *AuthHandler {
	if l == nil {
		l = slog.Default()
	}
	return &AuthHandler{
		auth:      auth,
		store:     store,
		resolver:  resolver,
		validator: v,
		logger:    l,
	}
}

// RegisterRoutes mounts auth routes.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.Post("/logout", h.Logout)
		r.Post("/password-reset", h.RequestPasswordReset)
		r.Post("/password-change", h.ChangePassword)
	})
}

// Login handles POST /v1/auth/login. On success the gateway resolves the
// tier's full entitlement set, caches the session, and returns both to the
// client. An unknown tier from the backend fails the login loudly rather
// than degrading to some default plan.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req backend.LoginInput
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	h.materializeSession(w, r, res)
}

// Register handles POST /v1/auth/register and logs the new account in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req backend.RegisterInput
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	res, err := h.auth.Register(r.Context(), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	h.materializeSession(w, r, res)
}

// materializeSession resolves the plan context for the backend-reported tier,
// stores the session, and writes the session response.
func (h *AuthHandler) materializeSession(w http.ResponseWriter, r *http.Request, res backend.LoginResult) {
	planCtx, err := h.resolver.PlanContext(res.Tier)
	if err != nil {
		h.logger.Error("backend reported a tier the catalog does not know",
			slog.String("tier", string(res.Tier)),
			slog.String("user_id", res.UserID),
		)
		core.Error(w, r, err)
		return
	}

	h.store.Put(types.Session{
		Token:     res.Token,
		UserID:    res.UserID,
		TenantID:  res.TenantID,
		Plan:      planCtx,
		ExpiresAt: res.ExpiresAt,
	})

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: SessionResponse{
		Token:        res.Token,
		UserID:       res.UserID,
		TenantID:     res.TenantID,
		Tier:         planCtx.Tier,
		Entitlements: planCtx.Entitlements,
		ExpiresAt:    res.ExpiresAt,
	}})
}

// Logout handles POST /v1/auth/logout. The backend call is best-effort; the
// local session is always dropped.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := types.GetSession(r.Context()); ok {
		h.store.Delete(sess.Token)
	}
	if err := h.auth.Logout(r.Context()); err != nil {
		h.logger.Warn("backend logout failed", slog.String("error", err.Error()))
	}
	w.WriteHeader(http.StatusNoContent)
}

// RequestPasswordReset handles POST /v1/auth/password-reset.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req backend.PasswordResetInput
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.auth.RequestPasswordReset(r.Context(), req); err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusAccepted, core.APIResponse{Data: map[string]string{"status": "reset_email_sent"}})
}

// ChangePassword handles POST /v1/auth/password-change.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req backend.PasswordChangeInput
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.auth.ChangePassword(r.Context(), req); err != nil {
		core.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
