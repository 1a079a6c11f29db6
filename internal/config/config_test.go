package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, "3306", cfg.DB.Port)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Equal(t, time.Hour, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, 60*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "http://localhost", cfg.Auth.Issuer)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.Origins())
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestLoad_RejectsNonPositiveRate(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPM", "0")

	_, err := Load()
	require.Error(t, err)
}
