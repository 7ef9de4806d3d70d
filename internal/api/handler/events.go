package handler

import (
	"net/http"

	sharedmw "github.com/mcoot/snakegame/internal/middleware"
	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/services/game"
	"github.com/mcoot/snakegame/internal/web/sse"
)

// EventsHandler serves the SSE streams
type EventsHandler struct {
	hubManager *sse.HubManager
	games      game.ServiceInterface
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hubManager *sse.HubManager, games game.ServiceInterface) *EventsHandler {
	return &EventsHandler{
		hubManager: hubManager,
		games:      games,
	}
}

// Leaderboard handles GET /api/v1/leaderboard/events
func (h *EventsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	hub := h.hubManager.GetOrCreateHub(model.LeaderboardTopic)
	sse.ServeSSE(w, r, hub, sharedmw.ClientIP(r))
}

// Game handles GET /api/v1/games/{id}/events
func (h *EventsHandler) Game(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", model.ErrGameNotFound)
	if err != nil {
		WriteError(w, err)
		return
	}

	// Only existing games get a stream
	if _, err := h.games.Get(r.Context(), model.GameID(id)); err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(model.GameTopic(model.GameID(id)))
	sse.ServeSSE(w, r, hub, sharedmw.ClientIP(r))
}
