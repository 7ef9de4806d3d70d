package opportunity

import (
	"context"
	"log/slog"

	"github.com/mcoot/snakegame/internal/dependencies/clock"
	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/storage"
)

// RecentLimit is how many opportunities Recent returns by default
const RecentLimit = 10

// Service validates, annotates and stores sales opportunities
type Service struct {
	storage   storage.Storage
	insighter Insighter
	clock     clock.Clock
	logger    *slog.Logger
}

// New creates a new opportunity Service
func New(storage storage.Storage, insighter Insighter, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:   storage,
		insighter: insighter,
		clock:     clock,
		logger:    logger,
	}
}

// Create validates the input, generates insights and stores the result
func (s *Service) Create(ctx context.Context, in Input) (*model.Opportunity, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	opp := &model.Opportunity{
		Title:        *in.Title,
		Client:       *in.Client,
		ContactName:  *in.ContactName,
		ContactEmail: *in.ContactEmail,
		Description:  *in.Description,
		Type:         *in.Type,
		Complexity:   *in.Complexity,
		Duration:     *in.Duration,
		Skills:       *in.Skills,
		DealValue:    *in.DealValue,
		CreatedAt:    s.clock.Now(),
	}

	opp.Insights = s.insighter.Insights(ctx, opp)
	if msg, ok := opp.Insights[model.InsightKeyError]; ok {
		s.logger.Warn("insight generation failed",
			slog.String("title", opp.Title),
			slog.Any("error", msg),
		)
	}

	if err := s.storage.CreateOpportunity(ctx, opp); err != nil {
		s.logger.Error("failed to save opportunity",
			slog.String("title", opp.Title),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("opportunity created",
		slog.Int64("opportunity_id", int64(opp.ID)),
		slog.String("client", opp.Client),
	)

	return opp, nil
}

// Recent returns the newest opportunities first. A non-positive limit means RecentLimit.
func (s *Service) Recent(ctx context.Context, limit int) ([]*model.Opportunity, error) {
	if limit <= 0 {
		limit = RecentLimit
	}
	return s.storage.RecentOpportunities(ctx, limit)
}

// Interface for dependency injection
type ServiceInterface interface {
	Create(ctx context.Context, in Input) (*model.Opportunity, error)
	Recent(ctx context.Context, limit int) ([]*model.Opportunity, error)
}

var _ ServiceInterface = (*Service)(nil)
