package todo

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

// ErrTitleRequired is returned when a todo has a blank title
var ErrTitleRequired = errors.New("title is required")

// Fields are the editable parts of a todo. Updates replace every field.
type Fields struct {
	Title       string
	Description string
	DueDate     *time.Time
	Resolved    bool
}

// Service manages the todo list
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new todo Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// List returns todos matching the filter, oldest first. Unknown filters list everything.
func (s *Service) List(ctx context.Context, filter model.TodoFilter) ([]*model.Todo, error) {
	return s.storage.ListTodos(ctx, filter)
}

// Create adds a todo. New todos are never resolved.
func (s *Service) Create(ctx context.Context, f Fields) (*model.Todo, error) {
	if strings.TrimSpace(f.Title) == "" {
		return nil, ErrTitleRequired
	}

	now := s.clock.Now()
	todo := &model.Todo{
		Title:       f.Title,
		Description: f.Description,
		DueDate:     f.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.storage.CreateTodo(ctx, todo); err != nil {
		return nil, err
	}

	s.logger.Info("todo created", slog.Int64("todo_id", int64(todo.ID)))
	return todo, nil
}

// Get retrieves a todo by ID
func (s *Service) Get(ctx context.Context, id model.TodoID) (*model.Todo, error) {
	return s.storage.GetTodo(ctx, id)
}

// Update replaces the editable fields of a todo
func (s *Service) Update(ctx context.Context, id model.TodoID, f Fields) (*model.Todo, error) {
	if strings.TrimSpace(f.Title) == "" {
		return nil, ErrTitleRequired
	}

	todo, err := s.storage.GetTodo(ctx, id)
	if err != nil {
		return nil, err
	}

	todo.Title = f.Title
	todo.Description = f.Description
	todo.DueDate = f.DueDate
	todo.Resolved = f.Resolved
	todo.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveTodo(ctx, todo); err != nil {
		return nil, err
	}

	s.logger.Info("todo updated", slog.Int64("todo_id", int64(id)))
	return todo, nil
}

// ToggleResolved flips the resolved flag
func (s *Service) ToggleResolved(ctx context.Context, id model.TodoID) (*model.Todo, error) {
	todo, err := s.storage.GetTodo(ctx, id)
	if err != nil {
		return nil, err
	}

	todo.Resolved = !todo.Resolved
	todo.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveTodo(ctx, todo); err != nil {
		return nil, err
	}

	s.logger.Info("todo toggled",
		slog.Int64("todo_id", int64(id)),
		slog.Bool("resolved", todo.Resolved),
	)
	return todo, nil
}

// Delete removes a todo
func (s *Service) Delete(ctx context.Context, id model.TodoID) error {
	if err := s.storage.DeleteTodo(ctx, id); err != nil {
		return err
	}
	s.logger.Info("todo deleted", slog.Int64("todo_id", int64(id)))
	return nil
}

// Interface for dependency injection
type ServiceInterface interface {
	List(ctx context.Context, filter model.TodoFilter) ([]*model.Todo, error)
	Create(ctx context.Context, f Fields) (*model.Todo, error)
	Get(ctx context.Context, id model.TodoID) (*model.Todo, error)
	Update(ctx context.Context, id model.TodoID, f Fields) (*model.Todo, error)
	ToggleResolved(ctx context.Context, id model.TodoID) (*model.Todo, error)
	Delete(ctx context.Context, id model.TodoID) error
}

var _ ServiceInterface = (*Service)(nil)
