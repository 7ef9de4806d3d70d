package sse

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/testutil"
)

func decodeData(t *testing.T, msg string) (string, map[string]any) {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(msg), "\n")
	require.Len(t, lines, 2)
	event := strings.TrimPrefix(lines[0], "event: ")
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(lines[1], "data: ")), &data))
	return event, data
}

func TestBroadcaster_PublishScoreSubmitted(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	hub := manager.GetOrCreateHub(model.LeaderboardTopic)
	client := NewClient(hub, "client1")
	hub.Register(client)
	waitForClients(t, hub, 1)

	broadcaster.Publish(model.Event{
		Type:  model.EventScoreSubmitted,
		Topic: model.LeaderboardTopic,
		Payload: model.ScoreSubmittedPayload{Entry: model.LeaderboardEntry{
			ID:        4,
			Username:  "alice",
			Score:     12,
			CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		}},
	})

	event, data := decodeData(t, receive(t, client))
	assert.Equal(t, "score_submitted", event)
	assert.Equal(t, "alice", data["username"])
	assert.EqualValues(t, 12, data["score"])
	assert.EqualValues(t, 4, data["id"])
}

func TestBroadcaster_PublishGameStateOnlyReachesThatGame(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	watched := manager.GetOrCreateHub(model.GameTopic(1))
	other := manager.GetOrCreateHub(model.GameTopic(2))
	watcher := NewClient(watched, "watcher")
	bystander := NewClient(other, "bystander")
	watched.Register(watcher)
	other.Register(bystander)
	waitForClients(t, watched, 1)
	waitForClients(t, other, 1)

	broadcaster.Publish(model.Event{
		Type:    model.EventGameState,
		Topic:   model.GameTopic(1),
		Payload: model.GameStatePayload{Game: model.Game{ID: 1, Username: "alice", Mode: "wrap", State: `{"len":4}`}},
	})

	event, data := decodeData(t, receive(t, watcher))
	assert.Equal(t, "game_state", event)
	assert.Equal(t, `{"len":4}`, data["state"])
	assert.Equal(t, "wrap", data["mode"])

	select {
	case msg := <-bystander.send:
		t.Errorf("bystander received %q", string(msg))
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcaster_PublishWithoutSubscribersDoesNotCreateHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	broadcaster.Publish(model.Event{Type: model.EventScoreSubmitted, Topic: model.LeaderboardTopic})

	assert.Zero(t, manager.HubCount())
}
