// Package main is the entry point for the propdesk gateway.
//
// It loads configuration, builds the backend API client, the plan resolver
// and feature gate, the notification bus, and the realtime event channel,
// then mounts the HTTP chassis and serves until a shutdown signal arrives.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"propdesk/internal/api/handlers"
	"propdesk/internal/backend"
	"propdesk/internal/config"
	"propdesk/internal/core"
	"propdesk/internal/gate"
	"propdesk/internal/notify"
	"propdesk/internal/plan"
	"propdesk/internal/realtime"
	"propdesk/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so main can exit cleanly on error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("propdesk gateway starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"port", cfg.Server.Port,
	)

	appLogger := &slogAdapter{logger: logger}

	// Entitlement plumbing. The static catalog panics on an inconsistent
	// table, so a bad edit fails the deploy rather than a request.
	resolver := plan.NewResolver(plan.NewStaticCatalog())
	featureGate := gate.New(resolver)

	backendClient := backend.NewClient(cfg.Backend, appLogger.With("component", "backend"))

	bus := notify.NewBus(cfg.Notification.DisplayTTL, appLogger.With("component", "notify"))

	channel := newRealtimeChannel(cfg, bus, appLogger)

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	sessions := handlers.NewSessionStore(types.RealClock{})
	srv.Authenticator = sessions
	srv.HealthProbes = []core.HealthProbe{
		realtimeProbe{channel: channel},
	}

	authHandler := handlers.NewAuthHandler(backendClient.Auth(), sessions, resolver, srv.Validator, logger)
	entitlementHandler := handlers.NewEntitlementHandler(featureGate, logger)
	notificationHandler := handlers.NewNotificationHandler(bus, srv.Validator)
	realtimeHandler := handlers.NewRealtimeHandler(channel)
	propertyHandler := handlers.NewPropertyHandler(backendClient.Properties(), srv.Validator)
	customerHandler := handlers.NewCustomerHandler(backendClient.Customers(), srv.Validator)
	showcaseHandler := handlers.NewShowcaseHandler(backendClient.Showcases(), featureGate, srv.Validator)
	valuationHandler := handlers.NewValuationHandler(backendClient.Valuations(), featureGate, srv.Validator)
	areaHandler := handlers.NewAreaHandler(backendClient.Areas())

	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars,
		func(r chi.Router) { authHandler.RegisterRoutes(r) },
		func(r chi.Router) { entitlementHandler.RegisterRoutes(r) },
		func(r chi.Router) { notificationHandler.RegisterRoutes(r) },
		func(r chi.Router) { realtimeHandler.RegisterRoutes(r) },
		func(r chi.Router) { propertyHandler.RegisterRoutes(r) },
		func(r chi.Router) { customerHandler.RegisterRoutes(r) },
		func(r chi.Router) { showcaseHandler.RegisterRoutes(r) },
		func(r chi.Router) { valuationHandler.RegisterRoutes(r) },
		func(r chi.Router) { areaHandler.RegisterRoutes(r) },
	)

	srv.MountRoutes()

	channel.Connect()
	srv.OnShutdown(func(context.Context) error {
		channel.Disconnect()
		return nil
	})

	return runHTTPServer(srv, cfg, logger)
}

// newRealtimeChannel builds the event channel, or an inert one when realtime
// is disabled. Incoming events are surfaced to users through the bus;
// transport errors are logged and otherwise left to the channel's retry
// loop.
func newRealtimeChannel(cfg *config.Config, bus *notify.Bus, appLogger types.Logger) realtime.EventChannel {
	if !cfg.Realtime.Enabled {
		return realtime.NoopChannel{}
	}

	logger := appLogger.With("component", "realtime")
	policy := realtime.RetryPolicy{
		MaxRetries:  cfg.Realtime.MaxRetries,
		BaseBackoff: cfg.Realtime.BaseBackoff,
		MaxBackoff:  cfg.Realtime.MaxBackoff,
	}

	return realtime.NewChannel(
		cfg.Realtime.URL,
		realtime.NewWebsocketTransport(cfg.Realtime.HandshakeTimeout),
		policy,
		logger,
		realtime.WithObserver(func(env types.EventEnvelope) {
			if env.Type == types.EventNotification {
				var payload struct {
					Text     string         `json:"text"`
					Severity types.Severity `json:"severity"`
				}
				if err := json.Unmarshal(env.Payload, &payload); err != nil {
					logger.Warn("undecodable notification payload", "error", err)
					return
				}
				bus.Push(payload.Text, payload.Severity)
			}
		}),
		realtime.WithErrorListener(func(err error) {
			logger.Warn("realtime channel error", "error", err)
		}),
	)
}

// realtimeProbe reports the channel as unhealthy once its retry budget is
// exhausted. Transient reconnecting states still count as healthy.
type realtimeProbe struct {
	channel realtime.EventChannel
}

func (p realtimeProbe) Name() string { return "realtime" }

func (p realtimeProbe) Check(_ context.Context) error {
	if p.channel.State() == types.StateFailed {
		return fmt.Errorf("realtime channel failed after exhausting retries")
	}
	return nil
}

// runHTTPServer serves until a shutdown signal or server error, then drains
// gracefully.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured JSON logger at the configured level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// slogAdapter wraps *slog.Logger to implement the types.Logger interface.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Info(msg string, args ...any)  { a.logger.Info(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.logger.Warn(msg, args...) }

func (a *slogAdapter) With(args ...any) types.Logger {
	return &slogAdapter{logger: a.logger.With(args...)}
}
