package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/snakegame/internal/dependencies/clock"
	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/session"
	"github.com/mcoot/snakegame/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
	ErrMissingCredentials = errors.New("username and password are required")
)

// Service handles signup, login and token resolution
type Service struct {
	storage  storage.Storage
	sessions session.Store
	clock    clock.Clock
	logger   *slog.Logger

	hashCost int
}

// Config holds configuration for the auth service
type Config struct {
	// HashCost is the bcrypt work factor
	HashCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		HashCost: bcrypt.DefaultCost,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, sessions session.Store, clock clock.Clock, logger *slog.Logger, cfg Config) *Service {
	if cfg.HashCost == 0 {
		cfg.HashCost = DefaultConfig().HashCost
	}
	return &Service{
		storage:  storage,
		sessions: sessions,
		clock:    clock,
		logger:   logger,
		hashCost: cfg.HashCost,
	}
}

// Signup registers a new user. It does not log the user in.
func (s *Service) Signup(ctx context.Context, username, password string) (*model.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}

	// Uniqueness is enforced atomically by the store.
	if err := s.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	s.logger.Info("user signed up",
		slog.Int64("user_id", int64(user.ID)),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login checks the credentials and starts a new session
func (s *Service) Login(ctx context.Context, username, password string) (*session.Session, *model.User, error) {
	user, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user logged in",
		slog.Int64("user_id", int64(user.ID)),
		slog.String("username", user.Username),
	)

	return sess, user, nil
}

// Authenticate resolves a token to its session and user
func (s *Service) Authenticate(ctx context.Context, token string) (*session.Session, *model.User, error) {
	sess, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, nil, ErrInvalidSession
		}
		return nil, nil, err
	}

	user, err := s.storage.GetUser(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, nil, ErrInvalidSession
		}
		return nil, nil, err
	}

	return sess, user, nil
}

// Logout ends the session for a token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, token)
}

// ActiveSessions returns the number of live sessions
func (s *Service) ActiveSessions(ctx context.Context) (int, error) {
	return s.sessions.Count(ctx)
}

// Interface for dependency injection
type ServiceInterface interface {
	Signup(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*session.Session, *model.User, error)
	Authenticate(ctx context.Context, token string) (*session.Session, *model.User, error)
	Logout(ctx context.Context, token string) error
	ActiveSessions(ctx context.Context) (int, error)
}

var _ ServiceInterface = (*Service)(nil)
