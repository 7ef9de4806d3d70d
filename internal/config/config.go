// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Backend names accepted by STORAGE_TYPE and SESSION_STORE
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config is the server configuration
type Config struct {
	HTTPHost string     `env:"HTTP_HOST"`
	HTTPPort int        `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`
	SQLitePath  string `env:"SQLITE_PATH"  envDefault:"snakegame.db"`

	SessionStore         string        `env:"SESSION_STORE"          envDefault:"memory"`
	SessionTTL           time.Duration `env:"SESSION_TTL"            envDefault:"24h"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`

	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" envDefault:"5"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST" envDefault:"10"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	LLMAPIKey    string `env:"LLM_API_KEY"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	LLMBaseURL   string `env:"LLM_BASE_URL"`
	LLMModel     string `env:"LLM_MODEL"`
}

// Load reads an optional .env file and then parses the environment.
// Variables already set in the environment win over the file.
func Load(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	return Parse(env.Options{})
}

// Parse parses configuration with the given options and validates it
func Parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks combinations the env tags cannot express
func (c Config) Validate() error {
	switch c.StorageType {
	case BackendMemory, BackendSQLite:
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be memory, redis or sqlite", c.StorageType)
	}

	switch c.SessionStore {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("invalid SESSION_STORE %q: must be memory or redis", c.SessionStore)
	}

	if c.SessionTTL < 0 {
		return errors.New("SESSION_TTL must not be negative")
	}
	if c.AuthRateLimit < 0 {
		return errors.New("AUTH_RATE_LIMIT must not be negative")
	}
	if c.AuthRateLimit > 0 && c.AuthRateBurst <= 0 {
		return errors.New("AUTH_RATE_BURST must be positive when AUTH_RATE_LIMIT is set")
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTPPort)
	}
	return nil
}

// AuthRateLimited reports whether signup and login are throttled.
// AUTH_RATE_LIMIT=0 turns the limiter off.
func (c Config) AuthRateLimited() bool {
	return c.AuthRateLimit > 0
}

// APIKey returns the LLM key, preferring LLM_API_KEY over OPENAI_API_KEY
func (c Config) APIKey() string {
	if c.LLMAPIKey != "" {
		return c.LLMAPIKey
	}
	return c.OpenAIAPIKey
}
