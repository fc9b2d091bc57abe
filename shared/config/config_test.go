package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")

	cfg, err := Load("customer-service", "8082")
	require.NoError(t, err)

	assert.Equal(t, "customer-service", cfg.Service)
	assert.Equal(t, "8082", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "test-secret", cfg.SessionSecret)
	assert.True(t, cfg.MigrateOnStart)
	assert.Equal(t, "http://localhost:8084", cfg.TransactionServiceURL)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "unset-below")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	_, err := Load("auth-service", "8081")
	assert.Error(t, err)
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9000")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("SESSION_SECRET", "cookie-secret")

	cfg, err := Load("transaction-service", "8084")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "cookie-secret", cfg.SessionSecret)
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "****", maskValue("short"))
	assert.Equal(t, "po****able", maskValue("postgres://disable"))
}
