package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propdesk/internal/backend"
	"propdesk/internal/types"
)

type stubAuthAPI struct {
	loginResult backend.LoginResult
	loginErr    error
	loggedOut   bool
}

func (a *stubAuthAPI) Login(_ context.Context, _ backend.LoginInput) (backend.LoginResult, error) {
	return a.loginResult, a.loginErr
}

func (a *stubAuthAPI) Register(_ context.Context, _ backend.RegisterInput) (backend.LoginResult, error) {
	return a.loginResult, a.loginErr
}

func (a *stubAuthAPI) RequestPasswordReset(_ context.Context, _ backend.PasswordResetInput) error {
	return nil
}

func (a *stubAuthAPI) ChangePassword(_ context.Context, _ backend.PasswordChangeInput) error {
	return nil
}

func (a *stubAuthAPI) Logout(_ context.Context) error {
	a.loggedOut = true
	return nil
}

func newAuthHandler(t *testing.T, api authAPI) (*AuthHandler, *SessionStore) {
	t.Helper()
	resolver, _ := newPlanGate()
	store := NewSessionStore(nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthHandler(api, store, resolver, newValidator(), logger), store
}

func TestLoginMaterializesPlanContext(t *testing.T) {
	api := &stubAuthAPI{loginResult: backend.LoginResult{
		Token:     "tok_1",
		UserID:    "u_1",
		TenantID:  "t_1",
		Tier:      types.PlanPro,
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}}
	h, store := newAuthHandler(t, api)

	router := newRouter(nil, func(r chi.Router) { h.RegisterRoutes(r) })
	rec := doRequest(t, router, http.MethodPost, "/v1/auth/login",
		`{"email":"agent@example.test","password":"hunter2hunter2"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data SessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, types.PlanPro, resp.Data.Tier)
	assert.Len(t, resp.Data.Entitlements, len(types.AllFeatureKeys))
	assert.True(t, resp.Data.Entitlements[types.FeatureAIAssistant].Enabled)

	sess, err := store.ResolveToken(context.Background(), "tok_1")
	require.NoError(t, err)
	assert.Equal(t, types.PlanPro, sess.Plan.Tier)
}

func TestLoginUnknownTierFailsLoudly(t *testing.T) {
	api := &stubAuthAPI{loginResult: backend.LoginResult{
		Token: "tok_1",
		Tier:  types.PlanTier("platinum"),
	}}
	h, store := newAuthHandler(t, api)

	router := newRouter(nil, func(r chi.Router) { h.RegisterRoutes(r) })
	rec := doRequest(t, router, http.MethodPost, "/v1/auth/login",
		`{"email":"agent@example.test","password":"hunter2hunter2"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "entitlement_unknown_tier")

	_, err := store.ResolveToken(context.Background(), "tok_1")
	assert.Error(t, err, "no session is cached for a failed login")
}

func TestLoginRejectsInvalidBody(t *testing.T) {
	h, _ := newAuthHandler(t, &stubAuthAPI{})

	router := newRouter(nil, func(r chi.Router) { h.RegisterRoutes(r) })
	rec := doRequest(t, router, http.MethodPost, "/v1/auth/login", `{"email":"not-an-email","password":"short"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutDropsSession(t *testing.T) {
	api := &stubAuthAPI{}
	h, store := newAuthHandler(t, api)

	resolver, _ := newPlanGate()
	sess := sessionFor(t, resolver, types.PlanStarter)
	store.Put(sess)

	router := newRouter(&sess, func(r chi.Router) { h.RegisterRoutes(r) })
	rec := doRequest(t, router, http.MethodPost, "/v1/auth/logout", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, api.loggedOut)

	_, err := store.ResolveToken(context.Background(), sess.Token)
	assert.Error(t, err)
}
