package game

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/snakegame/internal/dependencies/clock"
	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/storage"
)

// DefaultState is stored when a game is created without state
const DefaultState = "{}"

// ErrInvalidUsername is returned when a game would have no owner
var ErrInvalidUsername = errors.New("username is required")

// Service manages stored games and the snapshots shown to viewers
type Service struct {
	storage   storage.Storage
	snapshots SnapshotSource
	clock     clock.Clock
	publisher model.EventPublisher
	logger    *slog.Logger
}

// New creates a new game Service
func New(
	storage storage.Storage,
	snapshots SnapshotSource,
	clock clock.Clock,
	publisher model.EventPublisher,
	logger *slog.Logger,
) *Service {
	if publisher == nil {
		publisher = model.NopPublisher{}
	}
	return &Service{
		storage:   storage,
		snapshots: snapshots,
		clock:     clock,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns every game, oldest first
func (s *Service) List(ctx context.Context) ([]*model.Game, error) {
	return s.storage.ListGames(ctx)
}

// Get retrieves a game by ID
func (s *Service) Get(ctx context.Context, id model.GameID) (*model.Game, error) {
	return s.storage.GetGame(ctx, id)
}

// Snapshot returns the current board for a game
func (s *Service) Snapshot(ctx context.Context, id model.GameID) (*model.GameSnapshot, error) {
	game, err := s.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.snapshots.Snapshot(ctx, game)
}

// Create stores a new game owned by username. Empty mode and state take defaults.
func (s *Service) Create(ctx context.Context, username, mode, state string) (*model.Game, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrInvalidUsername
	}
	if mode == "" {
		mode = model.GameModeWalls
	}
	if state == "" {
		state = DefaultState
	}

	now := s.clock.Now()
	game := &model.Game{
		Username:  username,
		Mode:      mode,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.CreateGame(ctx, game); err != nil {
		s.logger.Error("failed to save game",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("game created",
		slog.Int64("game_id", int64(game.ID)),
		slog.String("username", username),
		slog.String("mode", mode),
	)

	s.publish(model.EventGameCreated, game, now)
	return game, nil
}

// UpdateState replaces the stored state of a game. Only the owner may update it.
func (s *Service) UpdateState(ctx context.Context, id model.GameID, username, state string) (*model.Game, error) {
	game, err := s.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	if game.Username != username {
		return nil, model.ErrNotGameOwner
	}

	if state == "" {
		state = DefaultState
	}

	now := s.clock.Now()
	game.State = state
	game.UpdatedAt = now

	if err := s.storage.SaveGame(ctx, game); err != nil {
		s.logger.Error("failed to save game",
			slog.Int64("game_id", int64(id)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("game state updated",
		slog.Int64("game_id", int64(id)),
		slog.String("username", username),
	)

	s.publish(model.EventGameState, game, now)
	return game, nil
}

func (s *Service) publish(eventType model.EventType, game *model.Game, now time.Time) {
	s.publisher.Publish(model.Event{
		Type:      eventType,
		Timestamp: now,
		Topic:     model.GameTopic(game.ID),
		Payload:   model.GameStatePayload{Game: *game},
	})
}

// Interface for dependency injection
type ServiceInterface interface {
	List(ctx context.Context) ([]*model.Game, error)
	Get(ctx context.Context, id model.GameID) (*model.Game, error)
	Snapshot(ctx context.Context, id model.GameID) (*model.GameSnapshot, error)
	Create(ctx context.Context, username, mode, state string) (*model.Game, error)
	UpdateState(ctx context.Context, id model.GameID, username, state string) (*model.Game, error)
}

var _ ServiceInterface = (*Service)(nil)
