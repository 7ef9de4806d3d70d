package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/snakegame/internal/dependencies/clock"
	"github.com/mcoot/snakegame/internal/model"
)

const redisKeyPrefix = "snake:session:"

func redisKey(token string) string {
	return redisKeyPrefix + token
}

// RedisStore keeps one key per session so every server instance sees the same logins.
// Expiry is delegated to Redis key TTLs.
type RedisStore struct {
	client *redis.Client
	clock  clock.Clock
	ttl    time.Duration
}

// NewRedisStore creates a store over an existing client. A ttl of zero keeps sessions until logout.
func NewRedisStore(client *redis.Client, clock clock.Clock, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, clock: clock, ttl: ttl}
}

var _ Store = (*RedisStore)(nil)

func (r *RedisStore) Create(ctx context.Context, userID model.UserID) (*Session, error) {
	sess := newSession(userID, r.clock.Now(), r.ttl)

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	if err := r.client.Set(ctx, redisKey(sess.Token), data, r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

func (r *RedisStore) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	data, err := r.client.Get(ctx, redisKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if sess.Expired(r.clock.Now()) {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

func (r *RedisStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return r.client.Del(ctx, redisKey(token)).Err()
}

func (r *RedisStore) Count(ctx context.Context) (int, error) {
	n := 0
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	return n, nil
}
