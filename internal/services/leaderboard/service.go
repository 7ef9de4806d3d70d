package leaderboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mcoot/snakegame/internal/dependencies/clock"
	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/storage"
)

// MaxEntries is the most entries a leaderboard read returns
const MaxEntries = 10

// Errors
var (
	ErrInvalidUsername = errors.New("username is required")
	ErrInvalidScore    = errors.New("score must not be negative")
)

// Service records scores and reads the top of the board
type Service struct {
	storage   storage.Storage
	clock     clock.Clock
	publisher model.EventPublisher
	logger    *slog.Logger
}

// New creates a new leaderboard Service
func New(storage storage.Storage, clock clock.Clock, publisher model.EventPublisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = model.NopPublisher{}
	}
	return &Service{
		storage:   storage,
		clock:     clock,
		publisher: publisher,
		logger:    logger,
	}
}

// Submit appends a score. The same user may submit any number of times.
func (s *Service) Submit(ctx context.Context, username string, score int) (*model.LeaderboardEntry, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrInvalidUsername
	}
	if score < 0 {
		return nil, ErrInvalidScore
	}

	now := s.clock.Now()
	entry := &model.LeaderboardEntry{
		Username:  username,
		Score:     score,
		CreatedAt: now,
	}
	if err := s.storage.AddLeaderboardEntry(ctx, entry); err != nil {
		s.logger.Error("failed to save leaderboard entry",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("score submitted",
		slog.Int64("entry_id", int64(entry.ID)),
		slog.String("username", username),
		slog.Int("score", score),
	)

	s.publisher.Publish(model.Event{
		Type:      model.EventScoreSubmitted,
		Timestamp: now,
		Topic:     model.LeaderboardTopic,
		Payload:   model.ScoreSubmittedPayload{Entry: *entry},
	})

	return entry, nil
}

// Top returns the highest scores, best first. Limits outside 1..MaxEntries become MaxEntries.
func (s *Service) Top(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	if limit <= 0 || limit > MaxEntries {
		limit = MaxEntries
	}
	return s.storage.TopLeaderboardEntries(ctx, limit)
}

// Interface for dependency injection
type ServiceInterface interface {
	Submit(ctx context.Context, username string, score int) (*model.LeaderboardEntry, error)
	Top(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error)
}

var _ ServiceInterface = (*Service)(nil)
