package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/snakegame/internal/api/request"
	"github.com/mcoot/snakegame/internal/api/response"
	"github.com/mcoot/snakegame/internal/services/leaderboard"
)

// LeaderboardHandler handles leaderboard endpoints
type LeaderboardHandler struct {
	leaderboard leaderboard.ServiceInterface
	recorder    Recorder
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboardService leaderboard.ServiceInterface, recorder Recorder) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboard: leaderboardService,
		recorder:    recorderOrNop(recorder),
	}
}

// List handles GET /api/v1/leaderboard
func (h *LeaderboardHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := leaderboard.MaxEntries
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			WriteError(w, NewValidationError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	entries, err := h.leaderboard.Top(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(entries))
}

// Submit handles POST /api/v1/leaderboard
func (h *LeaderboardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Username == "" {
		WriteError(w, NewValidationError("username is required"))
		return
	}
	if req.Score == nil {
		WriteError(w, NewValidationError("score is required"))
		return
	}

	if _, err := h.leaderboard.Submit(r.Context(), req.Username, *req.Score); err != nil {
		WriteError(w, err)
		return
	}
	h.recorder.ScoreSubmitted()

	response.JSON(w, http.StatusOK, response.Success{Success: true})
}
