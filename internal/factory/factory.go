package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mcoot/snakegame/internal/config"
	"github.com/mcoot/snakegame/internal/dependencies/clock"
	"github.com/mcoot/snakegame/internal/dependencies/random"
	"github.com/mcoot/snakegame/internal/metrics"
	"github.com/mcoot/snakegame/internal/services/auth"
	"github.com/mcoot/snakegame/internal/services/game"
	"github.com/mcoot/snakegame/internal/services/leaderboard"
	"github.com/mcoot/snakegame/internal/services/opportunity"
	"github.com/mcoot/snakegame/internal/services/todo"
	"github.com/mcoot/snakegame/internal/session"
	"github.com/mcoot/snakegame/internal/storage"
	"github.com/mcoot/snakegame/internal/storage/memory"
	redisstorage "github.com/mcoot/snakegame/internal/storage/redis"
	"github.com/mcoot/snakegame/internal/storage/sqlite"
	"github.com/mcoot/snakegame/internal/web/sse"
)

// Backend type constants
const (
	StorageTypeMemory = config.BackendMemory
	StorageTypeRedis  = config.BackendRedis
	StorageTypeSQLite = config.BackendSQLite
)

// App contains all wired application components
type App struct {
	// Storage
	Storage  storage.Storage
	Sessions session.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService        *auth.Service
	LeaderboardService *leaderboard.Service
	GameService        *game.Service
	OpportunityService *opportunity.Service
	TodoService        *todo.Service

	// Live updates and observability
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster
	Metrics     *metrics.Metrics

	closers []func() error
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if either backend is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// SessionStore selects the session backend ("memory" or "redis")
	// If empty, defaults to "memory"
	SessionStore string
	// SessionTTL is how long sessions live. Zero means forever.
	SessionTTL time.Duration
	// Insighter produces opportunity insights (optional)
	// If nil, OpenAI is used when OpenAI.APIKey is set, otherwise insights are disabled
	Insighter opportunity.Insighter
	OpenAI    opportunity.OpenAIConfig
}

// ConfigFromEnv maps loaded server configuration onto factory configuration
func ConfigFromEnv(c config.Config, logger *slog.Logger) Config {
	cfg := Config{
		Logger:       logger,
		StorageType:  c.StorageType,
		SQLitePath:   c.SQLitePath,
		SessionStore: c.SessionStore,
		SessionTTL:   c.SessionTTL,
		OpenAI: opportunity.OpenAIConfig{
			APIKey:  c.APIKey(),
			BaseURL: c.LLMBaseURL,
			Model:   c.LLMModel,
		},
	}
	if c.RedisURL != "" {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	// One redis connection is shared by storage and sessions
	var redisClient *goredis.Client
	redisFor := func(what string) (*goredis.Client, error) {
		if redisClient != nil {
			return redisClient, nil
		}
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("RedisConfig required when %s is redis", what)
		}
		client, err := redisstorage.NewClient(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		redisClient = client
		closers = append(closers, client.Close)
		return client, nil
	}

	// Create storage based on type
	var store storage.Storage
	switch cfg.StorageType {
	case "", StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		client, err := redisFor("StorageType")
		if err != nil {
			return nil, err
		}
		store = redisstorage.NewWithClient(client)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
		closers = append(closers, sqliteStore.Close)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}

	// Create session store based on type
	var sessions session.Store
	switch cfg.SessionStore {
	case "", StorageTypeMemory:
		sessions = session.NewMemoryStore(clk, cfg.SessionTTL)
	case StorageTypeRedis:
		client, err := redisFor("SessionStore")
		if err != nil {
			closeAll()
			return nil, err
		}
		sessions = session.NewRedisStore(client, clk, cfg.SessionTTL)
	default:
		closeAll()
		return nil, errors.New("invalid SessionStore: must be 'memory' or 'redis'")
	}

	insighter := cfg.Insighter
	if insighter == nil {
		if cfg.OpenAI.APIKey != "" {
			insighter = opportunity.NewOpenAIInsighter(cfg.OpenAI)
		} else {
			logger.Warn("no LLM API key configured, opportunity insights disabled")
			insighter = opportunity.NewDisabledInsighter()
		}
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.HashCost == 0 {
		authCfg = auth.DefaultConfig()
	}

	app := newWithDependencies(store, sessions, clk, random.New(), insighter, authCfg, logger)
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	sessions session.Store,
	clk clock.Clock,
	rnd random.Random,
	insighter opportunity.Insighter,
	authCfg auth.Config,
	logger *slog.Logger,
) *App {
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)

	// Create services
	authService := auth.New(store, sessions, clk, logger, authCfg)
	leaderboardService := leaderboard.New(store, clk, broadcaster, logger)
	gameService := game.New(store, game.NewRandomSnapshotSource(rnd), clk, broadcaster, logger)
	opportunityService := opportunity.New(store, insighter, clk, logger)
	todoService := todo.New(store, clk, logger)

	m := metrics.New(func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := authService.ActiveSessions(ctx)
		if err != nil {
			return 0
		}
		return float64(n)
	})

	return &App{
		Storage:            store,
		Sessions:           sessions,
		Clock:              clk,
		Random:             rnd,
		AuthService:        authService,
		LeaderboardService: leaderboardService,
		GameService:        gameService,
		OpportunityService: opportunityService,
		TodoService:        todoService,
		HubManager:         hubManager,
		Broadcaster:        broadcaster,
		Metrics:            m,
	}
}

// RunBackground runs housekeeping until ctx is done: the memory session
// sweeper and removal of SSE hubs nobody is watching.
func (a *App) RunBackground(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if mem, ok := a.Sessions.(*session.MemoryStore); ok {
		go mem.RunSweeper(ctx, interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.HubManager.CleanupEmptyHubs()
		}
	}
}

// Close disconnects SSE clients and releases storage connections
func (a *App) Close() error {
	a.HubManager.Close()

	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
