package factory

import (
	"io"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/snakegame/internal/dependencies/mocks"
	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/services/auth"
	"github.com/mcoot/snakegame/internal/services/opportunity"
	"github.com/mcoot/snakegame/internal/session"
	"github.com/mcoot/snakegame/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Insighter  *opportunity.StaticInsighter
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Sessions live for session.DefaultTTL on the mock clock and bcrypt runs at its minimum cost.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	sessions := session.NewMemoryStore(mockClock, session.DefaultTTL)
	insighter := &opportunity.StaticInsighter{Value: model.Insights{
		model.InsightKeyLeadSources:        []any{"referrals"},
		model.InsightKeyConversionPatterns: "short sales cycles close",
		model.InsightKeyRecommendations:    "follow up within a week",
	}}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(store, sessions, mockClock, mockRandom, insighter, auth.Config{HashCost: bcrypt.MinCost}, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Insighter:  insighter,
	}
}
