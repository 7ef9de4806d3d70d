package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/snakegame/internal/dependencies/mocks"
	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/storage/memory"
	"github.com/mcoot/snakegame/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage   *memory.Storage
	clock     *mocks.MockClock
	publisher *testutil.RecordingPublisher
	service   *Service
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.publisher = &testutil.RecordingPublisher{}
	s.service = New(s.storage, s.clock, s.publisher, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestSubmitStoresEntry() {
	entry, err := s.service.Submit(s.ctx, "alice", 12)
	s.Require().NoError(err)
	s.NotZero(entry.ID)
	s.Equal(s.clock.Now(), entry.CreatedAt)

	top, err := s.service.Top(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	s.Equal("alice", top[0].Username)
	s.Equal(12, top[0].Score)
}

func (s *ServiceSuite) TestSubmitAcceptsZero() {
	_, err := s.service.Submit(s.ctx, "alice", 0)
	s.NoError(err)
}

func (s *ServiceSuite) TestSubmitRejectsNegativeScore() {
	_, err := s.service.Submit(s.ctx, "alice", -1)
	s.ErrorIs(err, ErrInvalidScore)
}

func (s *ServiceSuite) TestSubmitRejectsEmptyUsername() {
	_, err := s.service.Submit(s.ctx, "  ", 5)
	s.ErrorIs(err, ErrInvalidUsername)
}

func (s *ServiceSuite) TestSubmitPublishesEvent() {
	entry, _ := s.service.Submit(s.ctx, "alice", 7)

	events := s.publisher.Events()
	s.Require().Len(events, 1)
	s.Equal(model.EventScoreSubmitted, events[0].Type)
	s.Equal(model.LeaderboardTopic, events[0].Topic)
	payload, ok := events[0].Payload.(model.ScoreSubmittedPayload)
	s.Require().True(ok)
	s.Equal(entry.ID, payload.Entry.ID)
}

func (s *ServiceSuite) TestRejectedSubmitDoesNotPublish() {
	_, _ = s.service.Submit(s.ctx, "alice", -5)
	s.Empty(s.publisher.Events())
}

func (s *ServiceSuite) TestTopIsSortedAndCapped() {
	for i := 0; i < 15; i++ {
		_, err := s.service.Submit(s.ctx, "p", i*3)
		s.Require().NoError(err)
	}

	top, err := s.service.Top(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(top, MaxEntries)
	s.Equal(42, top[0].Score)
	for i := 1; i < len(top); i++ {
		s.GreaterOrEqual(top[i-1].Score, top[i].Score)
	}
}

func (s *ServiceSuite) TestTopClampsLargeLimit() {
	for i := 0; i < 12; i++ {
		_, _ = s.service.Submit(s.ctx, "p", i)
	}

	top, err := s.service.Top(s.ctx, 100)
	s.Require().NoError(err)
	s.Len(top, MaxEntries)
}

func (s *ServiceSuite) TestTopHonoursSmallLimit() {
	for i := 0; i < 5; i++ {
		_, _ = s.service.Submit(s.ctx, "p", i)
	}

	top, err := s.service.Top(s.ctx, 3)
	s.Require().NoError(err)
	s.Len(top, 3)
}

func (s *ServiceSuite) TestTopEmpty() {
	top, err := s.service.Top(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(top)
}

func (s *ServiceSuite) TestNilPublisherIsAllowed() {
	svc := New(s.storage, s.clock, nil, testutil.NopLogger())
	_, err := svc.Submit(s.ctx, "alice", 1)
	s.NoError(err)
}
