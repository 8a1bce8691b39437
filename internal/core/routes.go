package core

import (
	"time"

	"github.com/go-chi/chi/v5"
)

// defaultRequestTimeout is the soft deadline applied to request contexts.
// It leaves headroom under the backend client timeout plus its retries.
const defaultRequestTimeout = 29 * time.Second

// MountRoutes registers the global middleware chain, the health endpoint,
// and the /v1 route group.
//
// Middleware order matters:
//  1. Recoverer        - outermost, catches every panic below it.
//  2. ContextTimeout   - soft deadline before the proxy gives up.
//  3. RequestID        - correlation ID for logs and backend calls.
//  4. SecurityHeaders  - present on every response, including errors.
//  5. RequestLogger    - structured logging with credential redaction.
//  6. CORS             - browser access control and preflight handling.
//  7. Auth             - resolves bearer tokens to sessions.
func (s *Server) MountRoutes() {
	s.router.Use(s.Recoverer)
	s.router.Use(ContextTimeoutMiddleware(defaultRequestTimeout))
	s.router.Use(RequestIDMiddleware)
	s.router.Use(SecurityHeadersMiddleware)
	s.router.Use(RequestLogger(s.Logger))
	s.router.Use(NewCORSMiddleware(s.corsAllowedOrigins()))
	s.router.Use(s.AuthMiddleware)

	s.router.Get("/health", s.HandleHealth)

	s.router.Route("/v1", func(r chi.Router) {
		for _, registrar := range s.V1RouteRegistrars {
			registrar(r)
		}
	})
}

func (s *Server) corsAllowedOrigins() []string {
	if s.Config != nil && len(s.Config.Server.CORSAllowedOrigins) > 0 {
		return s.Config.Server.CORSAllowedOrigins
	}
	return []string{"*"}
}
