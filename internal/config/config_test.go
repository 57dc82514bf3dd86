package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvDefault(t *testing.T) {
	t.Setenv("TEST_ENV_DEFAULT", "set")
	assert.Equal(t, "set", EnvDefault("TEST_ENV_DEFAULT", "fallback"))
	assert.Equal(t, "fallback", EnvDefault("TEST_ENV_DEFAULT_MISSING", "fallback"))
}

func TestEnvIntDefault(t *testing.T) {
	t.Setenv("TEST_ENV_INT", "42")
	assert.Equal(t, 42, EnvIntDefault("TEST_ENV_INT", 7))
	assert.Equal(t, 7, EnvIntDefault("TEST_ENV_INT_MISSING", 7))

	t.Setenv("TEST_ENV_INT_BAD", "not-a-number")
	assert.Equal(t, 7, EnvIntDefault("TEST_ENV_INT_BAD", 7))
}

func TestEnvDurationDefault(t *testing.T) {
	t.Setenv("TEST_ENV_DUR", "30m")
	assert.Equal(t, 30*time.Minute, EnvDurationDefault("TEST_ENV_DUR", time.Hour))
	assert.Equal(t, time.Hour, EnvDurationDefault("TEST_ENV_DUR_MISSING", time.Hour))

	t.Setenv("TEST_ENV_DUR_BAD", "soon")
	assert.Equal(t, time.Hour, EnvDurationDefault("TEST_ENV_DUR_BAD", time.Hour))
}

func TestLoad_ParsesTokenSettings(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("REFRESH_SECRET", "refresh-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "10m")
	t.Setenv("REFRESH_TOKEN_TTL", "48h")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, []byte("access-secret"), cfg.JWTSecret)
	assert.Equal(t, []byte("refresh-secret"), cfg.RefreshSecret)
	assert.Equal(t, 10*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 48*time.Hour, cfg.RefreshTTL)
}
