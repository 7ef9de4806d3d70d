package sse

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mcoot/snakegame/internal/model"
)

// Broadcaster forwards service events to the SSE hub for their topic
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

var _ model.EventPublisher = (*Broadcaster)(nil)

// Publish sends the event to subscribers of its topic. Events for topics
// nobody is watching are dropped.
func (b *Broadcaster) Publish(event model.Event) {
	hub := b.hubManager.GetHub(event.Topic)
	if hub == nil {
		return
	}

	data, err := json.Marshal(eventData(event))
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("type", string(event.Type)),
			slog.String("error", err.Error()))
		return
	}

	hub.BroadcastEvent(string(event.Type), string(data))
}

// scoreData is the wire form of a score_submitted event
type scoreData struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// gameData is the wire form of game_created and game_state events
type gameData struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Mode      string    `json:"mode"`
	State     string    `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

func eventData(event model.Event) any {
	switch p := event.Payload.(type) {
	case model.ScoreSubmittedPayload:
		return scoreData{
			ID:        int64(p.Entry.ID),
			Username:  p.Entry.Username,
			Score:     p.Entry.Score,
			CreatedAt: p.Entry.CreatedAt,
		}
	case model.GameStatePayload:
		return gameData{
			ID:        int64(p.Game.ID),
			Username:  p.Game.Username,
			Mode:      p.Game.Mode,
			State:     p.Game.State,
			UpdatedAt: p.Game.UpdatedAt,
		}
	default:
		return map[string]any{"type": event.Type, "timestamp": event.Timestamp}
	}
}
