// Package config defines the global configuration structure for the propdesk
// gateway. Configuration is loaded once at process initialization and is
// immutable thereafter. It follows 12-Factor App principles by strictly
// separating code from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File (Lowest)
//
// Any missing required value or invalid format causes startup to fail
// immediately (fail fast).
package config

import "time"

// Config is the top-level configuration struct for the gateway.
// It is populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"propdesk-gateway"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	Server       ServerConfig
	Backend      BackendConfig
	Realtime     RealtimeConfig
	Notification NotificationConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port               string        `envconfig:"PORT" default:"8080"`
	ReadTimeout        time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout       time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout    time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`
	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// BackendConfig holds settings for the upstream REST API the gateway fronts.
type BackendConfig struct {
	BaseURL    string        `envconfig:"BACKEND_API_URL" validate:"required,url"`
	Timeout    time.Duration `envconfig:"BACKEND_TIMEOUT" default:"10s"`
	MaxRetries int           `envconfig:"BACKEND_MAX_RETRIES" default:"3"`
	UserAgent  string        `envconfig:"BACKEND_USER_AGENT" default:"Propdesk-Gateway/1.0"`
}

// RealtimeConfig holds settings for the realtime event channel.
// When Enabled is false the gateway runs with an inert channel: every
// consumer still gets a well-typed disconnected state and no connection is
// ever attempted.
type RealtimeConfig struct {
	Enabled          bool          `envconfig:"REALTIME_ENABLED" default:"false"`
	URL              string        `envconfig:"REALTIME_URL" validate:"omitempty,url"`
	HandshakeTimeout time.Duration `envconfig:"REALTIME_HANDSHAKE_TIMEOUT" default:"10s"`
	MaxRetries       int           `envconfig:"REALTIME_MAX_RETRIES" default:"5"`
	BaseBackoff      time.Duration `envconfig:"REALTIME_BASE_BACKOFF" default:"1s"`
	MaxBackoff       time.Duration `envconfig:"REALTIME_MAX_BACKOFF" default:"30s"`
}

// NotificationConfig holds settings for the in-memory notification bus.
type NotificationConfig struct {
	// DisplayTTL is how long a message stays visible before automatic expiry.
	DisplayTTL time.Duration `envconfig:"NOTIFICATION_TTL" default:"3s"`
}

// BuildInfo carries compile-time metadata injected via ldflags.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrMissingEnv indicates a required environment variable was not set.
	ErrMissingEnv ConfigErrorType = "MISSING_ENV"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
