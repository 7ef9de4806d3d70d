package session

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/snakegame/internal/dependencies/clock"
	"github.com/mcoot/snakegame/internal/model"
)

// MemoryStore keeps sessions in a process-local map
type MemoryStore struct {
	clock clock.Clock
	ttl   time.Duration

	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty store. A ttl of zero keeps sessions until logout.
func NewMemoryStore(clock clock.Clock, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		clock:    clock,
		ttl:      ttl,
		sessions: make(map[string]Session),
	}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) Create(ctx context.Context, userID model.UserID) (*Session, error) {
	sess := newSession(userID, m.clock.Now(), m.ttl)

	m.mu.Lock()
	m.sessions[sess.Token] = *sess
	m.mu.Unlock()

	return sess, nil
}

func (m *MemoryStore) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	m.mu.RLock()
	sess, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	if sess.Expired(m.clock.Now()) {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	return &sess, nil
}

func (m *MemoryStore) Destroy(ctx context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Count(ctx context.Context) (int, error) {
	now := m.clock.Now()
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, sess := range m.sessions {
		if !sess.Expired(now) {
			n++
		}
	}
	return n, nil
}

// CleanExpired removes expired sessions and returns how many were dropped
func (m *MemoryStore) CleanExpired() int {
	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for token, sess := range m.sessions {
		if sess.Expired(now) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}

// RunSweeper calls CleanExpired every interval until ctx is done
func (m *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CleanExpired()
		}
	}
}
