package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setBaseEnv seeds the minimum environment for a valid config.
// t.Setenv handles cleanup and guards against parallel subtests.
func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "local")
	t.Setenv("BACKEND_API_URL", "https://api.example.test")
}

func TestLoadConfigDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, "propdesk-gateway", cfg.Service)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://api.example.test", cfg.Backend.BaseURL)
	assert.Equal(t, 3, cfg.Backend.MaxRetries)
	assert.False(t, cfg.Realtime.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Notification.DisplayTTL)
	assert.Equal(t, "dev", cfg.Build.Version)
}

func TestLoadConfigMissingBackendURL(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("BACKEND_API_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrValidation, cfgErr.Type)
}

func TestLoadConfigInvalidEnvironment(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "production") // not in the oneof set

	_, err := LoadConfig()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrValidation, cfgErr.Type)
}

func TestLoadConfigRealtimeRequiresURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("REALTIME_ENABLED", "true")

	_, err := LoadConfig()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrMissingEnv, cfgErr.Type)
}

func TestLoadConfigRealtimeEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("REALTIME_ENABLED", "true")
	t.Setenv("REALTIME_URL", "wss://events.example.test/stream")
	t.Setenv("REALTIME_MAX_RETRIES", "7")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Realtime.Enabled)
	assert.Equal(t, "wss://events.example.test/stream", cfg.Realtime.URL)
	assert.Equal(t, 7, cfg.Realtime.MaxRetries)
	assert.Equal(t, 1*time.Second, cfg.Realtime.BaseBackoff)
	assert.Equal(t, 30*time.Second, cfg.Realtime.MaxBackoff)
}

func TestLoadConfigParseFailure(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BACKEND_TIMEOUT", "not-a-duration")

	_, err := LoadConfig()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrParsing, cfgErr.Type)
}
