package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Records are JSON values; each entity has an INCR counter for IDs and a
// sorted set index used for listing.
type Storage struct {
	client *redis.Client
}

// NewClient parses the configured URL and returns a connected client
func NewClient(cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// New creates a new Redis storage instance with its own connection
func New(cfg Config) (*Storage, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithClient(client), nil
}

// NewWithClient creates a Redis storage over an existing client
func NewWithClient(client *redis.Client) *Storage {
	return &Storage{client: client}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	id, err := s.nextID(ctx, entityUser)
	if err != nil {
		return err
	}

	user.ID = model.UserID(id)
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// The record is written before the username is claimed, so the index
	// never names a missing record. An unclaimed record is unreachable.
	key := recordKey(entityUser, id)
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return err
	}

	claimed, err := s.client.SetNX(ctx, usernameIndexKey(user.Username), id, 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		s.client.Del(ctx, key)
		user.ID = 0
		return model.ErrUsernameTaken
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	var user model.User
	if err := s.getJSON(ctx, recordKey(entityUser, int64(id)), &user, model.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	id, err := s.client.Get(ctx, usernameIndexKey(username)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, model.UserID(id))
}

// Leaderboard operations

func (s *Storage) AddLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error {
	id, err := s.nextID(ctx, entityLeaderboard)
	if err != nil {
		return err
	}
	entry.ID = model.LeaderboardEntryID(id)

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	// Scores are stored negated so an ascending range yields the highest
	// score first, with ties in ascending ID order.
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, recordKey(entityLeaderboard, id), data, 0)
		pipe.ZAdd(ctx, indexKey(entityLeaderboard), redis.Z{Score: -float64(entry.Score), Member: idMember(id)})
		return nil
	})
	return err
}

func (s *Storage) TopLeaderboardEntries(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	members, err := s.client.ZRange(ctx, indexKey(entityLeaderboard), 0, stopIndex(limit)).Result()
	if err != nil {
		return nil, err
	}
	return loadRecords[model.LeaderboardEntry](ctx, s.client, entityLeaderboard, members)
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	id, err := s.nextID(ctx, entityGame)
	if err != nil {
		return err
	}
	game.ID = model.GameID(id)
	return s.createIndexed(ctx, entityGame, id, game)
}

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	return s.replace(ctx, recordKey(entityGame, int64(game.ID)), game, model.ErrGameNotFound)
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var game model.Game
	if err := s.getJSON(ctx, recordKey(entityGame, int64(id)), &game, model.ErrGameNotFound); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	members, err := s.client.ZRange(ctx, indexKey(entityGame), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return loadRecords[model.Game](ctx, s.client, entityGame, members)
}

// Opportunity operations

func (s *Storage) CreateOpportunity(ctx context.Context, opp *model.Opportunity) error {
	id, err := s.nextID(ctx, entityOpportunity)
	if err != nil {
		return err
	}
	opp.ID = model.OpportunityID(id)
	return s.createIndexed(ctx, entityOpportunity, id, opp)
}

func (s *Storage) RecentOpportunities(ctx context.Context, limit int) ([]*model.Opportunity, error) {
	members, err := s.client.ZRevRange(ctx, indexKey(entityOpportunity), 0, stopIndex(limit)).Result()
	if err != nil {
		return nil, err
	}
	return loadRecords[model.Opportunity](ctx, s.client, entityOpportunity, members)
}

// Todo operations

func (s *Storage) CreateTodo(ctx context.Context, todo *model.Todo) error {
	id, err := s.nextID(ctx, entityTodo)
	if err != nil {
		return err
	}
	todo.ID = model.TodoID(id)
	return s.createIndexed(ctx, entityTodo, id, todo)
}

func (s *Storage) SaveTodo(ctx context.Context, todo *model.Todo) error {
	return s.replace(ctx, recordKey(entityTodo, int64(todo.ID)), todo, model.ErrTodoNotFound)
}

func (s *Storage) GetTodo(ctx context.Context, id model.TodoID) (*model.Todo, error) {
	var todo model.Todo
	if err := s.getJSON(ctx, recordKey(entityTodo, int64(id)), &todo, model.ErrTodoNotFound); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (s *Storage) ListTodos(ctx context.Context, filter model.TodoFilter) ([]*model.Todo, error) {
	members, err := s.client.ZRange(ctx, indexKey(entityTodo), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	todos, err := loadRecords[model.Todo](ctx, s.client, entityTodo, members)
	if err != nil {
		return nil, err
	}

	filtered := todos[:0]
	for _, t := range todos {
		if filter.Matches(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func (s *Storage) DeleteTodo(ctx context.Context, id model.TodoID) error {
	var removed *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.Del(ctx, recordKey(entityTodo, int64(id)))
		pipe.ZRem(ctx, indexKey(entityTodo), idMember(int64(id)))
		return nil
	})
	if err != nil {
		return err
	}
	if removed.Val() == 0 {
		return model.ErrTodoNotFound
	}
	return nil
}

// Helpers

func (s *Storage) nextID(ctx context.Context, entity string) (int64, error) {
	id, err := s.client.Incr(ctx, sequenceKey(entity)).Result()
	if err != nil {
		return 0, fmt.Errorf("allocate %s id: %w", entity, err)
	}
	return id, nil
}

// createIndexed stores a new record and adds it to the entity's index atomically
func (s *Storage) createIndexed(ctx context.Context, entity string, id int64, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, recordKey(entity, id), data, 0)
		pipe.ZAdd(ctx, indexKey(entity), redis.Z{Score: float64(id), Member: idMember(id)})
		return nil
	})
	return err
}

// replace overwrites an existing record, returning notFound if there is none
func (s *Storage) replace(ctx context.Context, key string, record any, notFound error) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	ok, err := s.client.SetXX(ctx, key, data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return notFound
	}
	return nil
}

func (s *Storage) getJSON(ctx context.Context, key string, dest any, notFound error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// loadRecords fetches the records for index members in member order,
// skipping members whose record has gone missing
func loadRecords[T any](ctx context.Context, client *redis.Client, entity string, members []string) ([]*T, error) {
	if len(members) == 0 {
		return []*T{}, nil
	}

	keys := make([]string, 0, len(members))
	for _, m := range members {
		id, err := parseIDMember(m)
		if err != nil {
			return nil, fmt.Errorf("corrupt %s index member %q: %w", entity, m, err)
		}
		keys = append(keys, recordKey(entity, id))
	}

	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*T, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue
		}
		var record T
		if err := json.Unmarshal([]byte(str), &record); err != nil {
			return nil, fmt.Errorf("decode %s record: %w", entity, err)
		}
		records = append(records, &record)
	}
	return records, nil
}

// stopIndex converts a result limit to an inclusive range stop index
func stopIndex(limit int) int64 {
	if limit <= 0 {
		return -1
	}
	return int64(limit - 1)
}
