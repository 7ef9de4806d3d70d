// Package sqlite provides a SQLite-backed storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/pressly/goose/v3"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// goose keeps its dialect and filesystem in package state
var migrateMu sync.Mutex

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Storage persists records in a SQLite database
type Storage struct {
	db *sql.DB
}

// Open opens the database at path and applies pending migrations
func Open(ctx context.Context, path string) (*Storage, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := path
	if path != MemoryPath {
		dsn = filepath.Clean(path)
	}
	dsn += "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Every connection to :memory: is a separate database, and SQLite
	// serialises writers anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Storage{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

// Close closes the database handle
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// DefaultTimeout bounds every query
const DefaultTimeout = 5 * time.Second

func (s *Storage) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	return s.db.ExecContext(ctx, query, args...)
}

func (s *Storage) get(ctx context.Context, dest any, query string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	return sqlscan.Get(ctx, s.db, dest, query, args...)
}

func (s *Storage) selectRows(ctx context.Context, dest any, query string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	return sqlscan.Select(ctx, s.db, dest, query, args...)
}

// insert runs an INSERT and returns the generated row ID
func (s *Storage) insert(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// update runs an UPDATE or DELETE and returns notFound if no row matched
func (s *Storage) update(ctx context.Context, notFound error, query string, args ...any) error {
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// sqlLimit maps a non-positive limit to SQLite's "no limit"
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// User operations

type userRow struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    int64  `db:"created_at"`
}

func (r userRow) toModel() *model.User {
	return &model.User{
		ID:           model.UserID(r.ID),
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    fromMillis(r.CreatedAt),
	}
}

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	id, err := s.insert(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		user.Username, user.PasswordHash, toMillis(user.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	user.ID = model.UserID(id)
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.getUser(ctx, `SELECT id, username, password_hash, created_at FROM users WHERE id = ?`, int64(id))
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUser(ctx, `SELECT id, username, password_hash, created_at FROM users WHERE username = ?`, username)
}

func (s *Storage) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var row userRow
	if err := s.get(ctx, &row, query, arg); err != nil {
		if sqlscan.NotFound(err) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return row.toModel(), nil
}

// Leaderboard operations

type leaderboardRow struct {
	ID        int64  `db:"id"`
	Username  string `db:"username"`
	Score     int    `db:"score"`
	CreatedAt int64  `db:"created_at"`
}

func (s *Storage) AddLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error {
	id, err := s.insert(ctx,
		`INSERT INTO leaderboard_entries (username, score, created_at) VALUES (?, ?, ?)`,
		entry.Username, entry.Score, toMillis(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("add leaderboard entry: %w", err)
	}
	entry.ID = model.LeaderboardEntryID(id)
	return nil
}

func (s *Storage) TopLeaderboardEntries(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	var rows []leaderboardRow
	err := s.selectRows(ctx, &rows,
		`SELECT id, username, score, created_at FROM leaderboard_entries
		 ORDER BY score DESC, id ASC LIMIT ?`,
		sqlLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("top leaderboard entries: %w", err)
	}

	entries := make([]*model.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, &model.LeaderboardEntry{
			ID:        model.LeaderboardEntryID(r.ID),
			Username:  r.Username,
			Score:     r.Score,
			CreatedAt: fromMillis(r.CreatedAt),
		})
	}
	return entries, nil
}

// Game operations

type gameRow struct {
	ID        int64  `db:"id"`
	Username  string `db:"username"`
	Mode      string `db:"mode"`
	State     string `db:"state"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
}

func (r gameRow) toModel() *model.Game {
	return &model.Game{
		ID:        model.GameID(r.ID),
		Username:  r.Username,
		Mode:      r.Mode,
		State:     r.State,
		CreatedAt: fromMillis(r.CreatedAt),
		UpdatedAt: fromMillis(r.UpdatedAt),
	}
}

const gameColumns = `id, username, mode, state, created_at, updated_at`

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	id, err := s.insert(ctx,
		`INSERT INTO games (username, mode, state, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		game.Username, game.Mode, game.State, toMillis(game.CreatedAt), toMillis(game.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	game.ID = model.GameID(id)
	return nil
}

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	return s.update(ctx, model.ErrGameNotFound,
		`UPDATE games SET username = ?, mode = ?, state = ?, created_at = ?, updated_at = ? WHERE id = ?`,
		game.Username, game.Mode, game.State, toMillis(game.CreatedAt), toMillis(game.UpdatedAt), int64(game.ID),
	)
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var row gameRow
	if err := s.get(ctx, &row, `SELECT `+gameColumns+` FROM games WHERE id = ?`, int64(id)); err != nil {
		if sqlscan.NotFound(err) {
			return nil, model.ErrGameNotFound
		}
		return nil, fmt.Errorf("get game: %w", err)
	}
	return row.toModel(), nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	var rows []gameRow
	if err := s.selectRows(ctx, &rows, `SELECT `+gameColumns+` FROM games ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	games := make([]*model.Game, 0, len(rows))
	for _, r := range rows {
		games = append(games, r.toModel())
	}
	return games, nil
}

// Opportunity operations

type opportunityRow struct {
	ID           int64   `db:"id"`
	Title        string  `db:"title"`
	Client       string  `db:"client"`
	ContactName  string  `db:"contact_name"`
	ContactEmail string  `db:"contact_email"`
	Description  string  `db:"description"`
	Type         string  `db:"type"`
	Complexity   string  `db:"complexity"`
	Duration     string  `db:"duration"`
	Skills       string  `db:"skills"`
	DealValue    float64 `db:"deal_value"`
	Insights     string  `db:"insights"`
	CreatedAt    int64   `db:"created_at"`
}

func (s *Storage) CreateOpportunity(ctx context.Context, opp *model.Opportunity) error {
	insights, err := json.Marshal(opp.Insights)
	if err != nil {
		return fmt.Errorf("encode insights: %w", err)
	}

	id, err := s.insert(ctx,
		`INSERT INTO opportunities (
		   title, client, contact_name, contact_email, description,
		   type, complexity, duration, skills, deal_value, insights, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		opp.Title, opp.Client, opp.ContactName, opp.ContactEmail, opp.Description,
		opp.Type, opp.Complexity, opp.Duration, opp.Skills, opp.DealValue,
		string(insights), toMillis(opp.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create opportunity: %w", err)
	}
	opp.ID = model.OpportunityID(id)
	return nil
}

func (s *Storage) RecentOpportunities(ctx context.Context, limit int) ([]*model.Opportunity, error) {
	var rows []opportunityRow
	err := s.selectRows(ctx, &rows,
		`SELECT id, title, client, contact_name, contact_email, description,
		        type, complexity, duration, skills, deal_value, insights, created_at
		 FROM opportunities ORDER BY id DESC LIMIT ?`,
		sqlLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("recent opportunities: %w", err)
	}

	opps := make([]*model.Opportunity, 0, len(rows))
	for _, r := range rows {
		var insights model.Insights
		if err := json.Unmarshal([]byte(r.Insights), &insights); err != nil {
			return nil, fmt.Errorf("decode insights for opportunity %d: %w", r.ID, err)
		}
		opps = append(opps, &model.Opportunity{
			ID:           model.OpportunityID(r.ID),
			Title:        r.Title,
			Client:       r.Client,
			ContactName:  r.ContactName,
			ContactEmail: r.ContactEmail,
			Description:  r.Description,
			Type:         r.Type,
			Complexity:   r.Complexity,
			Duration:     r.Duration,
			Skills:       r.Skills,
			DealValue:    r.DealValue,
			Insights:     insights,
			CreatedAt:    fromMillis(r.CreatedAt),
		})
	}
	return opps, nil
}

// Todo operations

type todoRow struct {
	ID          int64         `db:"id"`
	Title       string        `db:"title"`
	Description string        `db:"description"`
	DueDate     sql.NullInt64 `db:"due_date"`
	Resolved    bool          `db:"resolved"`
	CreatedAt   int64         `db:"created_at"`
	UpdatedAt   int64         `db:"updated_at"`
}

func (r todoRow) toModel() *model.Todo {
	todo := &model.Todo{
		ID:          model.TodoID(r.ID),
		Title:       r.Title,
		Description: r.Description,
		Resolved:    r.Resolved,
		CreatedAt:   fromMillis(r.CreatedAt),
		UpdatedAt:   fromMillis(r.UpdatedAt),
	}
	if r.DueDate.Valid {
		due := fromMillis(r.DueDate.Int64)
		todo.DueDate = &due
	}
	return todo
}

const todoColumns = `id, title, description, due_date, resolved, created_at, updated_at`

func dueDateValue(due *time.Time) sql.NullInt64 {
	if due == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*due), Valid: true}
}

func (s *Storage) CreateTodo(ctx context.Context, todo *model.Todo) error {
	id, err := s.insert(ctx,
		`INSERT INTO todos (title, description, due_date, resolved, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		todo.Title, todo.Description, dueDateValue(todo.DueDate), todo.Resolved,
		toMillis(todo.CreatedAt), toMillis(todo.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	todo.ID = model.TodoID(id)
	return nil
}

func (s *Storage) SaveTodo(ctx context.Context, todo *model.Todo) error {
	return s.update(ctx, model.ErrTodoNotFound,
		`UPDATE todos SET title = ?, description = ?, due_date = ?, resolved = ?, created_at = ?, updated_at = ? WHERE id = ?`,
		todo.Title, todo.Description, dueDateValue(todo.DueDate), todo.Resolved,
		toMillis(todo.CreatedAt), toMillis(todo.UpdatedAt), int64(todo.ID),
	)
}

func (s *Storage) GetTodo(ctx context.Context, id model.TodoID) (*model.Todo, error) {
	var row todoRow
	if err := s.get(ctx, &row, `SELECT `+todoColumns+` FROM todos WHERE id = ?`, int64(id)); err != nil {
		if sqlscan.NotFound(err) {
			return nil, model.ErrTodoNotFound
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return row.toModel(), nil
}

func (s *Storage) ListTodos(ctx context.Context, filter model.TodoFilter) ([]*model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos`
	switch filter {
	case model.TodoFilterResolved:
		query += ` WHERE resolved = 1`
	case model.TodoFilterPending:
		query += ` WHERE resolved = 0`
	}
	query += ` ORDER BY id ASC`

	var rows []todoRow
	if err := s.selectRows(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	todos := make([]*model.Todo, 0, len(rows))
	for _, r := range rows {
		todos = append(todos, r.toModel())
	}
	return todos, nil
}

func (s *Storage) DeleteTodo(ctx context.Context, id model.TodoID) error {
	return s.update(ctx, model.ErrTodoNotFound, `DELETE FROM todos WHERE id = ?`, int64(id))
}
