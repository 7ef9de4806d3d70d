package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/snakegame/internal/api/handler"
	"github.com/mcoot/snakegame/internal/api/middleware"
	"github.com/mcoot/snakegame/internal/api/response"
	sharedmw "github.com/mcoot/snakegame/internal/middleware"
	"github.com/mcoot/snakegame/internal/services/auth"
	"github.com/mcoot/snakegame/internal/services/game"
	"github.com/mcoot/snakegame/internal/services/leaderboard"
	"github.com/mcoot/snakegame/internal/services/opportunity"
	"github.com/mcoot/snakegame/internal/services/todo"
	"github.com/mcoot/snakegame/internal/web/sse"
)

// Metrics is what the router reports requests and domain activity to
type Metrics interface {
	sharedmw.RequestObserver
	handler.Recorder
}

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	AuthService        auth.ServiceInterface
	LeaderboardService leaderboard.ServiceInterface
	GameService        game.ServiceInterface
	OpportunityService opportunity.ServiceInterface
	TodoService        todo.ServiceInterface
	HubManager         *sse.HubManager

	// Metrics is optional
	Metrics Metrics
	// AuthLimiter throttles signup and login per client IP. Optional.
	AuthLimiter *sharedmw.RateLimiter
	// CORSOrigins lists origins allowed to call the API. Empty disables CORS headers.
	CORSOrigins []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	var recorder handler.Recorder
	if cfg.Metrics != nil {
		recorder = cfg.Metrics
	}

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Logger)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService, recorder)
	gameHandler := handler.NewGameHandler(cfg.GameService)
	eventsHandler := handler.NewEventsHandler(hubManager, cfg.GameService)
	opportunityHandler := handler.NewOpportunityHandler(cfg.OpportunityService, recorder, cfg.Logger)
	todoHandler := handler.NewTodoHandler(cfg.TodoService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// The same routes answer under the versioned prefix and under /api,
	// where the browser client reaches them
	for _, prefix := range []string{"/api/v1", "/api"} {
		api := r.PathPrefix(prefix).Subrouter()
		api.Use(middleware.Recovery(cfg.Logger))
		api.Use(sharedmw.Logging(cfg.Logger))
		if cfg.Metrics != nil {
			api.Use(sharedmw.Metrics(cfg.Metrics))
		}

		// Signup and login, optionally rate limited
		credentials := api.NewRoute().Subrouter()
		if cfg.AuthLimiter != nil {
			credentials.Use(sharedmw.RateLimit(cfg.AuthLimiter, middleware.RateLimited))
		}
		credentials.HandleFunc("/signup", authHandler.Signup).Methods(http.MethodPost)
		credentials.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)

		// Public routes
		api.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
		api.HandleFunc("/leaderboard", leaderboardHandler.List).Methods(http.MethodGet)
		api.HandleFunc("/leaderboard", leaderboardHandler.Submit).Methods(http.MethodPost)
		api.HandleFunc("/leaderboard/events", eventsHandler.Leaderboard).Methods(http.MethodGet)
		api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
		api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
		api.HandleFunc("/games/{id}/events", eventsHandler.Game).Methods(http.MethodGet)

		// Opportunity routes
		api.HandleFunc("/opportunities", opportunityHandler.List).Methods(http.MethodGet)
		api.HandleFunc("/opportunities", opportunityHandler.Create).Methods(http.MethodPost)

		// Todo routes
		api.HandleFunc("/todos", todoHandler.List).Methods(http.MethodGet)
		api.HandleFunc("/todos", todoHandler.Create).Methods(http.MethodPost)
		api.HandleFunc("/todos/{id}", todoHandler.Get).Methods(http.MethodGet)
		api.HandleFunc("/todos/{id}", todoHandler.Update).Methods(http.MethodPut)
		api.HandleFunc("/todos/{id}", todoHandler.Delete).Methods(http.MethodDelete)
		api.HandleFunc("/todos/{id}/toggle", todoHandler.Toggle).Methods(http.MethodPost)

		// Protected routes
		protected := api.NewRoute().Subrouter()
		protected.Use(authMiddleware)
		protected.HandleFunc("/user", authHandler.User).Methods(http.MethodGet)
		protected.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
		protected.HandleFunc("/games/{id}/state", gameHandler.UpdateState).Methods(http.MethodPut)

		// Health check endpoint (no auth)
		api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	}

	if len(cfg.CORSOrigins) > 0 {
		return sharedmw.CORS(cfg.CORSOrigins)(r)
	}
	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
