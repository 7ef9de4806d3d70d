package storage

import (
	"context"

	"github.com/mcoot/snakegame/internal/model"
)

// Storage defines the interface for data persistence.
// Create methods assign the record's ID; callers leave it zero.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// Leaderboard operations
	AddLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error
	TopLeaderboardEntries(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error)

	// Game operations
	CreateGame(ctx context.Context, game *model.Game) error
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	ListGames(ctx context.Context) ([]*model.Game, error)

	// Opportunity operations
	CreateOpportunity(ctx context.Context, opp *model.Opportunity) error
	RecentOpportunities(ctx context.Context, limit int) ([]*model.Opportunity, error)

	// Todo operations
	CreateTodo(ctx context.Context, todo *model.Todo) error
	SaveTodo(ctx context.Context, todo *model.Todo) error
	GetTodo(ctx context.Context, id model.TodoID) (*model.Todo, error)
	ListTodos(ctx context.Context, filter model.TodoFilter) ([]*model.Todo, error)
	DeleteTodo(ctx context.Context, id model.TodoID) error
}
