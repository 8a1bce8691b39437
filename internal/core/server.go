// Package core provides the HTTP chassis for the Propdesk gateway.
// It builds the chi router, enforces cross-cutting concerns (panic recovery,
// request IDs, structured logging, security headers, CORS, session auth)
// before requests reach domain handlers, and renders all errors through a
// single response envelope.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"propdesk/internal/config"
	"propdesk/internal/types"
)

// Authenticator resolves a bearer token to a Session. It decouples the HTTP
// layer from the session source (login cache, backend introspection) so tests
// can inject a stub.
type Authenticator interface {
	// ResolveToken returns the session for a token.
	// It returns ErrCodeAuthTokenInvalid for unknown or malformed tokens and
	// ErrCodeAuthSessionExpired for sessions past their expiry.
	ResolveToken(ctx context.Context, token string) (types.Session, error)
}

// Server holds the gateway's shared dependencies and the router they are
// mounted on. Fields are exported so the entry point and tests can inject
// alternatives.
type Server struct {
	Config        *config.Config
	Logger        *slog.Logger
	Validator     *Validator
	Authenticator Authenticator
	HealthProbes  []HealthProbe

	// V1RouteRegistrars are called by MountRoutes to attach domain handler
	// routes under /v1. Populated by the entry point to avoid an import
	// cycle between core and the handler packages.
	V1RouteRegistrars []func(chi.Router)

	// shutdownHooks run in registration order during Shutdown.
	shutdownHooks []func(context.Context) error

	router *chi.Mux
}

// NewServer prepares a Server with its router and validator. Routes are not
// mounted until MountRoutes is called, which lets tests register their own.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	return &Server{
		Config:    cfg,
		Logger:    logger,
		Validator: NewValidator(),
		router:    chi.NewRouter(),
	}, nil
}

// Handler returns the router as an http.Handler for http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration in tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// OnShutdown registers a hook to run during graceful shutdown, such as
// disconnecting the realtime channel.
func (s *Server) OnShutdown(hook func(context.Context) error) {
	s.shutdownHooks = append(s.shutdownHooks, hook)
}

// Shutdown runs the registered shutdown hooks. The first hook error is
// returned after all hooks have run.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("server shutdown initiated")

	var firstErr error
	for _, hook := range s.shutdownHooks {
		if err := hook(ctx); err != nil {
			s.Logger.Error("shutdown hook failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	s.Logger.Info("server shutdown complete")
	return firstErr
}
