// Package session maps opaque bearer tokens to authenticated users.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/snakegame/internal/model"
)

// ErrSessionNotFound is returned for unknown, destroyed or expired tokens
var ErrSessionNotFound = errors.New("session not found")

// DefaultTTL is how long a session lives when no TTL is configured explicitly
const DefaultTTL = 24 * time.Hour

// Session is an authenticated login
type Session struct {
	Token     string
	UserID    model.UserID
	CreatedAt time.Time
	ExpiresAt time.Time // zero when sessions never expire
}

// Expired reports whether the session has passed its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store holds the live sessions. Implementations are safe for concurrent use.
type Store interface {
	// Create starts a session for the user and returns it with a fresh token
	Create(ctx context.Context, userID model.UserID) (*Session, error)
	// Resolve returns the session for a token, or ErrSessionNotFound
	Resolve(ctx context.Context, token string) (*Session, error)
	// Destroy ends a session. Destroying an unknown token is not an error.
	Destroy(ctx context.Context, token string) error
	// Count returns the number of live sessions
	Count(ctx context.Context) (int, error)
}

func newToken() string {
	return uuid.NewString()
}

func newSession(userID model.UserID, now time.Time, ttl time.Duration) *Session {
	sess := &Session{
		Token:     newToken(),
		UserID:    userID,
		CreatedAt: now,
	}
	if ttl > 0 {
		sess.ExpiresAt = now.Add(ttl)
	}
	return sess
}
