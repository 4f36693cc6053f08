package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.AppEnv)
	assert.False(t, cfg.Verbose())
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Empty(t, cfg.RedisHost)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_HOST", "cache")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Verbose())
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Contains(t, cfg.PostgresDSN(), "host=db port=6543")
	assert.Equal(t, "cache:6379", cfg.RedisAddr())
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("STORE_DRIVER", "cassandra")

	_, err := LoadConfig()
	assert.Error(t, err)
}
