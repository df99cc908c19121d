package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FUELDESK_CONFIG", "FUELDESK_PORT", "FUELDESK_DATABASE_URL", "FUELDESK_SERVICE_KEY",
		"FUELDESK_LOG_LEVEL", "FUELDESK_PROBE_TIMEOUT", "FUELDESK_TOKEN_TTL",
		"FUELDESK_RATE_LIMIT_PER_MIN", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFailsFastWithoutRequiredSettings(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingDatabaseURL))
	assert.True(t, errors.Is(err, ErrMissingServiceKey))
}

func TestLoadRejectsShortKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("FUELDESK_DATABASE_URL", "postgres://localhost/fueldesk")
	t.Setenv("FUELDESK_SERVICE_KEY", "short")

	_, err := Load()
	assert.True(t, errors.Is(err, ErrShortServiceKey))
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("FUELDESK_DATABASE_URL", "postgres://localhost/fueldesk")
	t.Setenv("FUELDESK_SERVICE_KEY", testKey)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "fueldesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
database_url: postgres://db/fueldesk
service_key: `+testKey+`
probe_timeout: 2s
rate_limit_burst: 5
`), 0o600))
	t.Setenv("FUELDESK_CONFIG", path)
	t.Setenv("FUELDESK_PORT", "7070")
	t.Setenv("FUELDESK_PROBE_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "postgres://db/fueldesk", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, 5, cfg.RateLimitBurst)
}

func TestLoadBadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("FUELDESK_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err)
}
