package todo

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
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(memory.New(), s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestCreate() {
	due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	todo, err := s.service.Create(s.ctx, Fields{Title: "write tests", Description: "all", DueDate: &due, Resolved: true})
	s.Require().NoError(err)

	s.NotZero(todo.ID)
	s.False(todo.Resolved)
	s.Equal(s.clock.Now(), todo.CreatedAt)
	s.Require().NotNil(todo.DueDate)
	s.True(todo.DueDate.Equal(due))
}

func (s *ServiceSuite) TestCreateRequiresTitle() {
	_, err := s.service.Create(s.ctx, Fields{Title: "  "})
	s.ErrorIs(err, ErrTitleRequired)
}

func (s *ServiceSuite) TestGetNotFound() {
	_, err := s.service.Get(s.ctx, 3)
	s.ErrorIs(err, model.ErrTodoNotFound)
}

func (s *ServiceSuite) TestUpdateReplacesFields() {
	due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	todo, _ := s.service.Create(s.ctx, Fields{Title: "a", Description: "d", DueDate: &due})
	s.clock.Advance(time.Hour)

	updated, err := s.service.Update(s.ctx, todo.ID, Fields{Title: "b", Resolved: true})
	s.Require().NoError(err)
	s.Equal("b", updated.Title)
	s.Empty(updated.Description)
	s.Nil(updated.DueDate)
	s.True(updated.Resolved)
	s.Equal(s.clock.Now(), updated.UpdatedAt)

	stored, _ := s.service.Get(s.ctx, todo.ID)
	s.Equal("b", stored.Title)
}

func (s *ServiceSuite) TestUpdateRequiresTitle() {
	todo, _ := s.service.Create(s.ctx, Fields{Title: "a"})

	_, err := s.service.Update(s.ctx, todo.ID, Fields{})
	s.ErrorIs(err, ErrTitleRequired)
}

func (s *ServiceSuite) TestUpdateNotFound() {
	_, err := s.service.Update(s.ctx, 3, Fields{Title: "x"})
	s.ErrorIs(err, model.ErrTodoNotFound)
}

func (s *ServiceSuite) TestToggleResolvedFlipsBothWays() {
	todo, _ := s.service.Create(s.ctx, Fields{Title: "a"})

	toggled, err := s.service.ToggleResolved(s.ctx, todo.ID)
	s.Require().NoError(err)
	s.True(toggled.Resolved)

	toggled, err = s.service.ToggleResolved(s.ctx, todo.ID)
	s.Require().NoError(err)
	s.False(toggled.Resolved)
}

func (s *ServiceSuite) TestToggleResolvedNotFound() {
	_, err := s.service.ToggleResolved(s.ctx, 3)
	s.ErrorIs(err, model.ErrTodoNotFound)
}

func (s *ServiceSuite) TestListFilters() {
	open, _ := s.service.Create(s.ctx, Fields{Title: "open"})
	done, _ := s.service.Create(s.ctx, Fields{Title: "done"})
	_, _ = s.service.ToggleResolved(s.ctx, done.ID)

	pending, err := s.service.List(s.ctx, model.TodoFilterPending)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(open.ID, pending[0].ID)

	resolved, err := s.service.List(s.ctx, model.TodoFilterResolved)
	s.Require().NoError(err)
	s.Require().Len(resolved, 1)
	s.Equal(done.ID, resolved[0].ID)

	all, err := s.service.List(s.ctx, "something-else")
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *ServiceSuite) TestDelete() {
	todo, _ := s.service.Create(s.ctx, Fields{Title: "bye"})

	s.Require().NoError(s.service.Delete(s.ctx, todo.ID))
	s.ErrorIs(s.service.Delete(s.ctx, todo.ID), model.ErrTodoNotFound)
}
