package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 720*time.Hour, cfg.CartTTL)
	assert.Equal(t, 24*time.Hour, cfg.SweepInterval)
	assert.False(t, cfg.Production())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("CART_SWEEP_INTERVAL", "90s")
	t.Setenv("JWT_SECRET", "a-long-random-production-secret")
	cfg := Load()
	require.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.SweepInterval)
	assert.True(t, cfg.Production())
	assert.Equal(t, "a-long-random-production-secret", cfg.JWTSecret)
}

func TestValidateRejectsWeakSecretInProduction(t *testing.T) {
	for _, secret := range []string{"", "change-me", devSecret} {
		cfg := Config{Env: "production", JWTSecret: secret}
		assert.ErrorIs(t, cfg.Validate(), ErrWeakSecret, "secret %q", secret)
	}
	cfg := Config{Env: "production", JWTSecret: "a-long-random-production-secret"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "a-long-random-production-secret", cfg.JWTSecret)
}

func TestValidateFillsDevSecret(t *testing.T) {
	cfg := Config{Env: "development"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, devSecret, cfg.JWTSecret)
}
