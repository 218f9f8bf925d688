package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "HTTP_PORT", "DATA_DIR", "SHUTDOWN_TIMEOUT", "PRESENCE_SIM", "PRESENCE_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.PresenceSim)
	assert.Equal(t, 30*time.Second, cfg.PresenceEvery)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATA_DIR", "/var/lib/scheduling")
	t.Setenv("SHUTDOWN_TIMEOUT", "25")
	t.Setenv("PRESENCE_SIM", "true")
	t.Setenv("PRESENCE_INTERVAL", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "/var/lib/scheduling", cfg.DataDir)
	assert.Equal(t, 25*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.PresenceSim)
	assert.Equal(t, 5*time.Second, cfg.PresenceEvery)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	t.Setenv("PRESENCE_SIM", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.PresenceSim)
}
