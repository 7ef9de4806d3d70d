package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, vars map[string]string) (Config, error) {
	t.Helper()
	return Parse(env.Options{Environment: vars})
}

func TestDefaults(t *testing.T) {
	cfg, err := parse(t, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, BackendMemory, cfg.StorageType)
	assert.Equal(t, BackendMemory, cfg.SessionStore)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.SessionSweepInterval)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.APIKey())
}

func TestParsesValues(t *testing.T) {
	cfg, err := parse(t, map[string]string{
		"HTTP_PORT":            "9000",
		"LOG_LEVEL":            "debug",
		"STORAGE_TYPE":         "sqlite",
		"SQLITE_PATH":          "/tmp/snake.db",
		"SESSION_TTL":          "0s",
		"CORS_ALLOWED_ORIGINS": "http://localhost:5173,http://localhost:3000",
		"LLM_MODEL":            "test-model",
	})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, BackendSQLite, cfg.StorageType)
	assert.Equal(t, "/tmp/snake.db", cfg.SQLitePath)
	assert.Zero(t, cfg.SessionTTL)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "test-model", cfg.LLMModel)
}

func TestAPIKeyPrefersLLMKey(t *testing.T) {
	cfg, err := parse(t, map[string]string{"OPENAI_API_KEY": "openai"})
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.APIKey())

	cfg, err = parse(t, map[string]string{"OPENAI_API_KEY": "openai", "LLM_API_KEY": "groq"})
	require.NoError(t, err)
	assert.Equal(t, "groq", cfg.APIKey())
}

func TestAuthRateLimit(t *testing.T) {
	cfg, err := parse(t, map[string]string{})
	require.NoError(t, err)
	assert.True(t, cfg.AuthRateLimited())
	assert.Equal(t, 10, cfg.AuthRateBurst)

	cfg, err = parse(t, map[string]string{"AUTH_RATE_LIMIT": "0", "AUTH_RATE_BURST": "0"})
	require.NoError(t, err)
	assert.False(t, cfg.AuthRateLimited())
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"unknown storage", map[string]string{"STORAGE_TYPE": "postgres"}},
		{"redis storage without url", map[string]string{"STORAGE_TYPE": "redis"}},
		{"redis sessions without url", map[string]string{"SESSION_STORE": "redis"}},
		{"sqlite sessions", map[string]string{"SESSION_STORE": "sqlite"}},
		{"negative ttl", map[string]string{"SESSION_TTL": "-1h"}},
		{"bad port", map[string]string{"HTTP_PORT": "70000"}},
		{"negative rate limit", map[string]string{"AUTH_RATE_LIMIT": "-1"}},
		{"zero burst", map[string]string{"AUTH_RATE_BURST": "0"}},
		{"negative burst", map[string]string{"AUTH_RATE_BURST": "-2"}},
		{"unparseable duration", map[string]string{"SESSION_TTL": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.vars)
			assert.Error(t, err)
		})
	}
}

func TestRedisWithURL(t *testing.T) {
	cfg, err := parse(t, map[string]string{
		"STORAGE_TYPE":  "redis",
		"SESSION_STORE": "redis",
		"REDIS_URL":     "redis://localhost:6379/0",
	})
	require.NoError(t, err)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoadReadsDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_PORT=9123\nLLM_MODEL=from-file\n"), 0o600))
	t.Setenv("LLM_MODEL", "from-env")
	t.Setenv("HTTP_PORT", "")
	require.NoError(t, os.Unsetenv("HTTP_PORT"))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9123, cfg.HTTPPort)
	assert.Equal(t, "from-env", cfg.LLMModel)
}

func TestLoadIgnoresMissingDotenvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
