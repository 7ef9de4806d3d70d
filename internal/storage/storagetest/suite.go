// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/storage"
)

// Suite runs the storage contract against a backend.
// NewStorage is called before every test and must return an empty store.
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage

	storage storage.Storage
	ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.storage = s.NewStorage()
	s.ctx = context.Background()
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// User tests

func (s *Suite) TestCreateAndGetUser() {
	user := &model.User{Username: "alice", PasswordHash: "hash", CreatedAt: baseTime}
	s.Require().NoError(s.storage.CreateUser(s.ctx, user))
	s.NotZero(user.ID)

	retrieved, err := s.storage.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)
	s.Equal("hash", retrieved.PasswordHash)
}

func (s *Suite) TestCreateUserAssignsDistinctIDs() {
	alice := &model.User{Username: "alice", PasswordHash: "a", CreatedAt: baseTime}
	bob := &model.User{Username: "bob", PasswordHash: "b", CreatedAt: baseTime}
	s.Require().NoError(s.storage.CreateUser(s.ctx, alice))
	s.Require().NoError(s.storage.CreateUser(s.ctx, bob))
	s.NotEqual(alice.ID, bob.ID)
}

func (s *Suite) TestCreateUserRejectsDuplicateUsername() {
	s.Require().NoError(s.storage.CreateUser(s.ctx, &model.User{Username: "alice", PasswordHash: "a", CreatedAt: baseTime}))

	err := s.storage.CreateUser(s.ctx, &model.User{Username: "alice", PasswordHash: "b", CreatedAt: baseTime})
	s.ErrorIs(err, model.ErrUsernameTaken)
}

func (s *Suite) TestGetUserByUsername() {
	user := &model.User{Username: "alice", PasswordHash: "hash", CreatedAt: baseTime}
	s.Require().NoError(s.storage.CreateUser(s.ctx, user))

	retrieved, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(user.ID, retrieved.ID)
}

func (s *Suite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, 999)
	s.ErrorIs(err, model.ErrUserNotFound)

	_, err = s.storage.GetUserByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Leaderboard tests

func (s *Suite) TestTopLeaderboardEntriesOrderedByScore() {
	for _, e := range []struct {
		name  string
		score int
	}{{"low", 5}, {"high", 50}, {"mid", 20}} {
		entry := &model.LeaderboardEntry{Username: e.name, Score: e.score, CreatedAt: baseTime}
		s.Require().NoError(s.storage.AddLeaderboardEntry(s.ctx, entry))
		s.NotZero(entry.ID)
	}

	entries, err := s.storage.TopLeaderboardEntries(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal("high", entries[0].Username)
	s.Equal("mid", entries[1].Username)
	s.Equal("low", entries[2].Username)
}

func (s *Suite) TestTopLeaderboardEntriesRespectsLimit() {
	for i := 0; i < 15; i++ {
		s.Require().NoError(s.storage.AddLeaderboardEntry(s.ctx, &model.LeaderboardEntry{Username: "p", Score: i, CreatedAt: baseTime}))
	}

	entries, err := s.storage.TopLeaderboardEntries(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 10)
	s.Equal(14, entries[0].Score)
	s.Equal(5, entries[9].Score)
}

func (s *Suite) TestTopLeaderboardEntriesTiesKeepSubmissionOrder() {
	first := &model.LeaderboardEntry{Username: "first", Score: 10, CreatedAt: baseTime}
	second := &model.LeaderboardEntry{Username: "second", Score: 10, CreatedAt: baseTime}
	s.Require().NoError(s.storage.AddLeaderboardEntry(s.ctx, first))
	s.Require().NoError(s.storage.AddLeaderboardEntry(s.ctx, second))

	entries, err := s.storage.TopLeaderboardEntries(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("first", entries[0].Username)
	s.Equal("second", entries[1].Username)
}

func (s *Suite) TestLeaderboardKeepsDuplicateSubmissions() {
	s.Require().NoError(s.storage.AddLeaderboardEntry(s.ctx, &model.LeaderboardEntry{Username: "alice", Score: 3, CreatedAt: baseTime}))
	s.Require().NoError(s.storage.AddLeaderboardEntry(s.ctx, &model.LeaderboardEntry{Username: "alice", Score: 3, CreatedAt: baseTime}))

	entries, err := s.storage.TopLeaderboardEntries(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(entries, 2)
}

func (s *Suite) TestTopLeaderboardEntriesEmpty() {
	entries, err := s.storage.TopLeaderboardEntries(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(entries)
}

// Game tests

func (s *Suite) TestCreateAndGetGame() {
	game := &model.Game{Username: "alice", Mode: model.GameModeWalls, State: "{}", CreatedAt: baseTime, UpdatedAt: baseTime}
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))
	s.NotZero(game.ID)

	retrieved, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)
	s.Equal(model.GameModeWalls, retrieved.Mode)
	s.Equal("{}", retrieved.State)
}

func (s *Suite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, 404)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestSaveGameUpdatesState() {
	game := &model.Game{Username: "alice", Mode: model.GameModeWrap, State: "start", CreatedAt: baseTime, UpdatedAt: baseTime}
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	game.State = "moved"
	game.UpdatedAt = baseTime.Add(time.Minute)
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	retrieved, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal("moved", retrieved.State)
	s.True(retrieved.UpdatedAt.Equal(baseTime.Add(time.Minute)))
}

func (s *Suite) TestSaveGameNotFound() {
	err := s.storage.SaveGame(s.ctx, &model.Game{ID: 77, Username: "alice", Mode: "walls", State: "{}"})
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestListGamesOrderedByID() {
	for _, user := range []string{"alice", "bob", "carol"} {
		s.Require().NoError(s.storage.CreateGame(s.ctx, &model.Game{Username: user, Mode: "walls", State: "{}", CreatedAt: baseTime, UpdatedAt: baseTime}))
	}

	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 3)
	s.Equal("alice", games[0].Username)
	s.Equal("bob", games[1].Username)
	s.Equal("carol", games[2].Username)
	s.Less(games[0].ID, games[1].ID)
}

// Opportunity tests

func (s *Suite) TestCreateOpportunityRoundTripsInsights() {
	opp := newOpportunity("Data platform")
	opp.Insights = model.Insights{model.InsightKeyRecommendations: "follow up"}
	s.Require().NoError(s.storage.CreateOpportunity(s.ctx, opp))
	s.NotZero(opp.ID)

	recent, err := s.storage.RecentOpportunities(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal("Data platform", recent[0].Title)
	s.Equal(1500.5, recent[0].DealValue)
	s.Equal("follow up", recent[0].Insights[model.InsightKeyRecommendations])
}

func (s *Suite) TestRecentOpportunitiesNewestFirstWithLimit() {
	for i := 0; i < 12; i++ {
		s.Require().NoError(s.storage.CreateOpportunity(s.ctx, newOpportunity(string(rune('A'+i)))))
	}

	recent, err := s.storage.RecentOpportunities(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(recent, 10)
	s.Equal("L", recent[0].Title)
	s.Equal("C", recent[9].Title)
}

// Todo tests

func (s *Suite) TestCreateAndGetTodo() {
	due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	todo := &model.Todo{Title: "write tests", Description: "all of them", DueDate: &due, CreatedAt: baseTime, UpdatedAt: baseTime}
	s.Require().NoError(s.storage.CreateTodo(s.ctx, todo))
	s.NotZero(todo.ID)

	retrieved, err := s.storage.GetTodo(s.ctx, todo.ID)
	s.Require().NoError(err)
	s.Equal("write tests", retrieved.Title)
	s.Equal("all of them", retrieved.Description)
	s.Require().NotNil(retrieved.DueDate)
	s.True(retrieved.DueDate.Equal(due))
	s.False(retrieved.Resolved)
}

func (s *Suite) TestTodoWithoutDueDate() {
	todo := &model.Todo{Title: "someday", CreatedAt: baseTime, UpdatedAt: baseTime}
	s.Require().NoError(s.storage.CreateTodo(s.ctx, todo))

	retrieved, err := s.storage.GetTodo(s.ctx, todo.ID)
	s.Require().NoError(err)
	s.Nil(retrieved.DueDate)
}

func (s *Suite) TestSaveTodo() {
	todo := &model.Todo{Title: "a", CreatedAt: baseTime, UpdatedAt: baseTime}
	s.Require().NoError(s.storage.CreateTodo(s.ctx, todo))

	todo.Resolved = true
	todo.Title = "b"
	s.Require().NoError(s.storage.SaveTodo(s.ctx, todo))

	retrieved, err := s.storage.GetTodo(s.ctx, todo.ID)
	s.Require().NoError(err)
	s.True(retrieved.Resolved)
	s.Equal("b", retrieved.Title)
}

func (s *Suite) TestSaveTodoNotFound() {
	err := s.storage.SaveTodo(s.ctx, &model.Todo{ID: 5, Title: "ghost"})
	s.ErrorIs(err, model.ErrTodoNotFound)
}

func (s *Suite) TestListTodosFilters() {
	open := &model.Todo{Title: "open", CreatedAt: baseTime, UpdatedAt: baseTime}
	done := &model.Todo{Title: "done", Resolved: true, CreatedAt: baseTime, UpdatedAt: baseTime}
	s.Require().NoError(s.storage.CreateTodo(s.ctx, open))
	s.Require().NoError(s.storage.CreateTodo(s.ctx, done))

	all, err := s.storage.ListTodos(s.ctx, model.TodoFilterAll)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("open", all[0].Title)

	resolved, err := s.storage.ListTodos(s.ctx, model.TodoFilterResolved)
	s.Require().NoError(err)
	s.Require().Len(resolved, 1)
	s.Equal("done", resolved[0].Title)

	pending, err := s.storage.ListTodos(s.ctx, model.TodoFilterPending)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal("open", pending[0].Title)
}

func (s *Suite) TestDeleteTodo() {
	todo := &model.Todo{Title: "bye", CreatedAt: baseTime, UpdatedAt: baseTime}
	s.Require().NoError(s.storage.CreateTodo(s.ctx, todo))

	s.Require().NoError(s.storage.DeleteTodo(s.ctx, todo.ID))

	_, err := s.storage.GetTodo(s.ctx, todo.ID)
	s.ErrorIs(err, model.ErrTodoNotFound)

	s.ErrorIs(s.storage.DeleteTodo(s.ctx, todo.ID), model.ErrTodoNotFound)
}

func newOpportunity(title string) *model.Opportunity {
	return &model.Opportunity{
		Title:        title,
		Client:       "Acme",
		ContactName:  "Jo",
		ContactEmail: "jo@acme.test",
		Description:  "warehouse",
		Type:         "consulting",
		Complexity:   "high",
		Duration:     "3 months",
		Skills:       "go, sql",
		DealValue:    1500.5,
		CreatedAt:    baseTime,
	}
}
