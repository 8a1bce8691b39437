package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"propdesk/internal/core"
	"propdesk/internal/gate"
	"propdesk/internal/plan"
	"propdesk/internal/types"
)

// newPlanGate builds a resolver and gate over the static catalog.
func newPlanGate() (*plan.Resolver, *gate.Gate) {
	resolver := plan.NewResolver(plan.NewStaticCatalog())
	return resolver, gate.New(resolver)
}

// sessionFor returns a session with a fully resolved plan context for tier.
func sessionFor(t *testing.T, resolver *plan.Resolver, tier types.PlanTier) types.Session {
	t.Helper()
	planCtx, err := resolver.PlanContext(tier)
	require.NoError(t, err)
	return types.Session{
		Token:     "tok_" + string(tier),
		UserID:    "u_1",
		TenantID:  "t_1",
		Plan:      planCtx,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// newRouter mounts the registrar under /v1 with a middleware that injects
// sess into every request context, mirroring the production auth middleware.
func newRouter(sess *types.Session, register func(chi.Router)) http.Handler {
	r := chi.NewRouter()
	if sess != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(types.WithSession(req.Context(), *sess)))
			})
		})
	}
	r.Route("/v1", register)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func newValidator() *core.Validator { return core.NewValidator() }
