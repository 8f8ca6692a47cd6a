package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"APP_ENV", "PROD_ORIGINS", "HTTP_ADDR", "DB_DSN", "DB_MAX_CONNS", "JWT_SECRET",
	"JWT_ACCESS_TOKEN_TTL", "BCRYPT_COST", "STORAGE_PATH", "MAX_UPLOAD_BYTES",
	"LOG_LEVEL", "LOG_FORMAT", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW",
}

// clearEnv unsets every key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://localhost/spots")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "./data", cfg.StoragePath)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 120, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Nil(t, cfg.ProdOrigins)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"APP_ENV=prod\n"+
			"DB_DSN=postgres://db/spots\n"+
			"JWT_SECRET=s3cret\n"+
			"PROD_ORIGINS=https://a.example, https://b.example\n"+
			"REDIS_ADDR=localhost:6379\n"+
			"RATE_LIMIT_WINDOW=30s\n",
	), 0o600))

	cfg, err := load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.ProdOrigins)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
}

func TestLoadErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	tests := []struct {
		name string
		env  map[string]string
	}{
		{"Missing DSN", map[string]string{"JWT_SECRET": "s"}},
		{"Missing secret", map[string]string{"DB_DSN": "d"}},
		{"Bad TTL", map[string]string{"DB_DSN": "d", "JWT_SECRET": "s", "JWT_ACCESS_TOKEN_TTL": "soon"}},
		{"Bad cost", map[string]string{"DB_DSN": "d", "JWT_SECRET": "s", "BCRYPT_COST": "high"}},
		{"Prod without origins", map[string]string{"DB_DSN": "d", "JWT_SECRET": "s", "APP_ENV": "prod"}},
		{"Zero upload cap", map[string]string{"DB_DSN": "d", "JWT_SECRET": "s", "MAX_UPLOAD_BYTES": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := load(missing)
			assert.Error(t, err)
		})
	}
}
