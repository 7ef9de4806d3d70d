package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/snakegame/internal/api"
	"github.com/mcoot/snakegame/internal/config"
	"github.com/mcoot/snakegame/internal/factory"
	"github.com/mcoot/snakegame/internal/middleware"
	"github.com/mcoot/snakegame/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Create application factory
	app, err := factory.New(ctx, factory.ConfigFromEnv(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	go app.RunBackground(ctx, cfg.SessionSweepInterval)

	var authLimiter *middleware.RateLimiter
	if cfg.AuthRateLimited() {
		authLimiter = middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	}

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		AuthService:        app.AuthService,
		LeaderboardService: app.LeaderboardService,
		GameService:        app.GameService,
		OpportunityService: app.OpportunityService,
		TodoService:        app.TodoService,
		HubManager:         app.HubManager,
		Metrics:            app.Metrics,
		AuthLimiter:        authLimiter,
		CORSOrigins:        cfg.CORSAllowedOrigins,
	})

	// Create web router
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:             logger,
		AuthService:        app.AuthService,
		LeaderboardService: app.LeaderboardService,
		OpportunityService: app.OpportunityService,
		Metrics:            app.Metrics,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/metrics", middleware.Recovery(logger, middleware.DefaultPanicHandler)(app.Metrics.Handler()))
	mux.Handle("/", webRouter)

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.HTTPHost
	serverConfig.Port = cfg.HTTPPort
	server := api.NewServer(mux, serverConfig, logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.String("sessions", cfg.SessionStore),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		// End SSE streams so Shutdown does not wait on them
		app.HubManager.Close()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
