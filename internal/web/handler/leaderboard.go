package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mcoot/snakegame/internal/services/leaderboard"
	"github.com/mcoot/snakegame/internal/web/middleware"
	"github.com/mcoot/snakegame/internal/web/views"
)

// ScoreRecorder counts accepted score submissions
type ScoreRecorder interface {
	ScoreSubmitted()
}

// LeaderboardHandler serves the leaderboard page
type LeaderboardHandler struct {
	leaderboard leaderboard.ServiceInterface
	scores      ScoreRecorder
	logger      *slog.Logger
}

// NewLeaderboardHandler creates a new LeaderboardHandler. scores may be nil.
func NewLeaderboardHandler(svc leaderboard.ServiceInterface, scores ScoreRecorder, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: svc, scores: scores, logger: logger}
}

// View renders GET /leaderboard
func (h *LeaderboardHandler) View(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboard.Top(r.Context(), leaderboard.MaxEntries)
	if err != nil {
		h.logger.Error("failed to load leaderboard", slog.String("error", err.Error()))
		renderError(w, r, http.StatusInternalServerError, "Could not load the leaderboard.")
		return
	}

	render(w, r, http.StatusOK, views.Leaderboard(views.LeaderboardData{
		PageData: pageData(r, "Leaderboard"),
		Entries:  entries,
	}))
}

// Submit handles the score form and redirects back to the board
func (h *LeaderboardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form submission")
		http.Redirect(w, r, "/leaderboard", http.StatusSeeOther)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	score, err := strconv.Atoi(strings.TrimSpace(r.FormValue("score")))
	if err != nil {
		middleware.SetFlash(w, "error", "Score must be a whole number")
		http.Redirect(w, r, "/leaderboard", http.StatusSeeOther)
		return
	}

	if _, err := h.leaderboard.Submit(r.Context(), username, score); err != nil {
		switch {
		case errors.Is(err, leaderboard.ErrInvalidUsername):
			middleware.SetFlash(w, "error", "Name is required")
		case errors.Is(err, leaderboard.ErrInvalidScore):
			middleware.SetFlash(w, "error", "Score cannot be negative")
		default:
			h.logger.Error("failed to submit score", slog.String("error", err.Error()))
			middleware.SetFlash(w, "error", "Could not save your score")
		}
		http.Redirect(w, r, "/leaderboard", http.StatusSeeOther)
		return
	}

	if h.scores != nil {
		h.scores.ScoreSubmitted()
	}
	middleware.SetFlash(w, "success", "Score submitted")
	http.Redirect(w, r, "/leaderboard", http.StatusSeeOther)
}
