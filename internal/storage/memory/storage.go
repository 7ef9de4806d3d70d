package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Records are copied in and out so callers never share memory with the store.
type Storage struct {
	mu sync.RWMutex

	users         map[model.UserID]model.User
	usernameIndex map[string]model.UserID
	leaderboard   []model.LeaderboardEntry
	games         map[model.GameID]model.Game
	opportunities []model.Opportunity
	todos         map[model.TodoID]model.Todo

	nextUserID        model.UserID
	nextEntryID       model.LeaderboardEntryID
	nextGameID        model.GameID
	nextOpportunityID model.OpportunityID
	nextTodoID        model.TodoID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[model.UserID]model.User),
		usernameIndex: make(map[string]model.UserID),
		games:         make(map[model.GameID]model.Game),
		todos:         make(map[model.TodoID]model.Todo),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usernameIndex[user.Username]; ok {
		return model.ErrUsernameTaken
	}
	s.nextUserID++
	user.ID = s.nextUserID
	s.users[user.ID] = *user
	s.usernameIndex[user.Username] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &user, nil
}

// Leaderboard operations

func (s *Storage) AddLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEntryID++
	entry.ID = s.nextEntryID
	s.leaderboard = append(s.leaderboard, *entry)
	return nil
}

func (s *Storage) TopLeaderboardEntries(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	s.mu.RLock()
	entries := make([]*model.LeaderboardEntry, len(s.leaderboard))
	for i := range s.leaderboard {
		e := s.leaderboard[i]
		entries[i] = &e
	}
	s.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return model.LeaderboardLess(entries[i], entries[j])
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextGameID++
	game.ID = s.nextGameID
	s.games[game.ID] = *game
	return nil
}

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[game.ID]; !ok {
		return model.ErrGameNotFound
	}
	s.games[game.ID] = *game
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return &game, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	s.mu.RLock()
	games := make([]*model.Game, 0, len(s.games))
	for _, g := range s.games {
		game := g
		games = append(games, &game)
	}
	s.mu.RUnlock()

	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games, nil
}

// Opportunity operations

func (s *Storage) CreateOpportunity(ctx context.Context, opp *model.Opportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextOpportunityID++
	opp.ID = s.nextOpportunityID
	stored := *opp
	stored.Insights = copyInsights(opp.Insights)
	s.opportunities = append(s.opportunities, stored)
	return nil
}

func (s *Storage) RecentOpportunities(ctx context.Context, limit int) ([]*model.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Opportunity, 0, len(s.opportunities))
	// Appended in ID order, so walking backwards yields newest first
	for i := len(s.opportunities) - 1; i >= 0; i-- {
		if limit > 0 && len(result) == limit {
			break
		}
		opp := s.opportunities[i]
		opp.Insights = copyInsights(opp.Insights)
		result = append(result, &opp)
	}
	return result, nil
}

// Todo operations

func (s *Storage) CreateTodo(ctx context.Context, todo *model.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTodoID++
	todo.ID = s.nextTodoID
	s.todos[todo.ID] = *todo
	return nil
}

func (s *Storage) SaveTodo(ctx context.Context, todo *model.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.todos[todo.ID]; !ok {
		return model.ErrTodoNotFound
	}
	s.todos[todo.ID] = *todo
	return nil
}

func (s *Storage) GetTodo(ctx context.Context, id model.TodoID) (*model.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	todo, ok := s.todos[id]
	if !ok {
		return nil, model.ErrTodoNotFound
	}
	return &todo, nil
}

func (s *Storage) ListTodos(ctx context.Context, filter model.TodoFilter) ([]*model.Todo, error) {
	s.mu.RLock()
	todos := make([]*model.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		todo := t
		if filter.Matches(&todo) {
			todos = append(todos, &todo)
		}
	}
	s.mu.RUnlock()

	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	return todos, nil
}

func (s *Storage) DeleteTodo(ctx context.Context, id model.TodoID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.todos[id]; !ok {
		return model.ErrTodoNotFound
	}
	delete(s.todos, id)
	return nil
}

func copyInsights(in model.Insights) model.Insights {
	if in == nil {
		return nil
	}
	out := make(model.Insights, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
