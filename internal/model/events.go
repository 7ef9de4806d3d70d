package model

import (
	"strconv"
	"time"
)

// EventType identifies the type of event
type EventType string

const (
	EventScoreSubmitted EventType = "score_submitted"
	EventGameCreated    EventType = "game_created"
	EventGameState      EventType = "game_state"
)

// Event is published by services when observable state changes
type Event struct {
	Type      EventType
	Timestamp time.Time
	Topic     string // stream the event belongs to, see LeaderboardTopic and GameTopic
	Payload   any    // Type-specific data
}

// LeaderboardTopic is the stream carrying leaderboard submissions
const LeaderboardTopic = "leaderboard"

// GameTopic returns the stream carrying updates for a single game
func GameTopic(id GameID) string {
	return "game:" + strconv.FormatInt(int64(id), 10)
}

// ScoreSubmittedPayload contains data for score submitted events
type ScoreSubmittedPayload struct {
	Entry LeaderboardEntry
}

// GameStatePayload contains data for game created and game state events
type GameStatePayload struct {
	Game Game
}

// EventPublisher receives events from services. Publish must not block.
type EventPublisher interface {
	Publish(event Event)
}

// NopPublisher discards every event
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
