package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	sharedmw "github.com/mcoot/snakegame/internal/middleware"
	"github.com/mcoot/snakegame/internal/services/auth"
	"github.com/mcoot/snakegame/internal/services/leaderboard"
	"github.com/mcoot/snakegame/internal/services/opportunity"
	"github.com/mcoot/snakegame/internal/web/handler"
	"github.com/mcoot/snakegame/internal/web/middleware"
)

// Metrics is what the pages report requests and score submissions to
type Metrics interface {
	sharedmw.RequestObserver
	handler.ScoreRecorder
}

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger             *slog.Logger
	AuthService        auth.ServiceInterface
	LeaderboardService leaderboard.ServiceInterface
	OpportunityService opportunity.ServiceInterface

	// Metrics is optional
	Metrics Metrics
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Apply global middleware to all routes
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	var scores handler.ScoreRecorder
	if cfg.Metrics != nil {
		r.Use(sharedmw.Metrics(cfg.Metrics))
		scores = cfg.Metrics
	}

	homeHandler := handler.NewHomeHandler()
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService, scores, cfg.Logger)
	opportunityHandler := handler.NewOpportunityHandler(cfg.OpportunityService, cfg.Logger)

	// Pages render for everyone; a session cookie only adds the username to the nav
	pages := r.NewRoute().Subrouter()
	pages.Use(middleware.Flash())
	pages.Use(middleware.OptionalAuth(cfg.AuthService))
	pages.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	pages.HandleFunc("/leaderboard", leaderboardHandler.View).Methods(http.MethodGet)
	pages.HandleFunc("/leaderboard", leaderboardHandler.Submit).Methods(http.MethodPost)
	pages.HandleFunc("/opportunities", opportunityHandler.View).Methods(http.MethodGet)

	r.NotFoundHandler = middleware.Flash()(middleware.OptionalAuth(cfg.AuthService)(http.HandlerFunc(handler.NotFound)))

	return r
}
