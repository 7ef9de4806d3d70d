package handler

import (
	"net/http"

	"github.com/mcoot/snakegame/internal/api/middleware"
	"github.com/mcoot/snakegame/internal/api/request"
	"github.com/mcoot/snakegame/internal/api/response"
	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/services/game"
)

// GameHandler handles game endpoints
type GameHandler struct {
	games game.ServiceInterface
}

// NewGameHandler creates a new game handler
func NewGameHandler(games game.ServiceInterface) *GameHandler {
	return &GameHandler{games: games}
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GamesFromModel(games))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", model.ErrGameNotFound)
	if err != nil {
		WriteError(w, err)
		return
	}

	snap, err := h.games.Snapshot(r.Context(), model.GameID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameSnapshotFromModel(snap))
}

// Create handles POST /api/v1/games. The game belongs to the caller.
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.CreateGameRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.games.Create(r.Context(), user.Username, req.Mode, req.State)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g))
}

// UpdateState handles PUT /api/v1/games/{id}/state
func (h *GameHandler) UpdateState(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	id, err := pathID(r, "id", model.ErrGameNotFound)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.UpdateGameStateRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.State == nil {
		WriteError(w, NewValidationError("state is required"))
		return
	}

	g, err := h.games.UpdateState(r.Context(), model.GameID(id), user.Username, *req.State)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}
