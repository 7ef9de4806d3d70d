package response

import (
	"time"

	"github.com/mcoot/snakegame/internal/model"
)

// Success is the body of signup, logout and score submission.
// Error is only set when Success is false.
type Success struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Login is the body of a login attempt
type Login struct {
	Success  bool   `json:"success"`
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
	Error    string `json:"error,omitempty"`
}

// User is the authenticated user
type User struct {
	Username string `json:"username"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{Username: u.Username}
}

// LeaderboardEntry is a leaderboard row
type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// LeaderboardFromModel converts leaderboard entries, keeping their order
func LeaderboardFromModel(entries []*model.LeaderboardEntry) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, LeaderboardEntry{Username: e.Username, Score: e.Score})
	}
	return out
}

// Game is a stored game record
type Game struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Mode     string `json:"mode"`
	State    string `json:"state"`
}

// GameFromModel converts a model.Game
func GameFromModel(g *model.Game) Game {
	return Game{
		ID:       int64(g.ID),
		Username: g.Username,
		Mode:     g.Mode,
		State:    g.State,
	}
}

// GamesFromModel converts a list of games
func GamesFromModel(games []*model.Game) []Game {
	out := make([]Game, 0, len(games))
	for _, g := range games {
		out = append(out, GameFromModel(g))
	}
	return out
}

// Point is a grid cell
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GameSnapshot is the body of GET /games/{id}
type GameSnapshot struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Mode     string  `json:"mode"`
	Snake    []Point `json:"snake"`
	Food     Point   `json:"food"`
	Score    int     `json:"score"`
}

// GameSnapshotFromModel converts a model.GameSnapshot
func GameSnapshotFromModel(s *model.GameSnapshot) GameSnapshot {
	snake := make([]Point, 0, len(s.Snake))
	for _, p := range s.Snake {
		snake = append(snake, Point{X: p.X, Y: p.Y})
	}
	return GameSnapshot{
		ID:       int64(s.ID),
		Username: s.Username,
		Mode:     s.Mode,
		Snake:    snake,
		Food:     Point{X: s.Food.X, Y: s.Food.Y},
		Score:    s.Score,
	}
}

// Opportunity is a stored opportunity with its insights
type Opportunity struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	Client       string         `json:"client"`
	ContactName  string         `json:"contact_name"`
	ContactEmail string         `json:"contact_email"`
	Description  string         `json:"description"`
	Type         string         `json:"type"`
	Complexity   string         `json:"complexity"`
	Duration     string         `json:"duration"`
	Skills       string         `json:"skills"`
	DealValue    float64        `json:"deal_value"`
	Insights     model.Insights `json:"insights"`
	CreatedAt    time.Time      `json:"created_at"`
}

// OpportunityFromModel converts a model.Opportunity
func OpportunityFromModel(o *model.Opportunity) Opportunity {
	return Opportunity{
		ID:           int64(o.ID),
		Title:        o.Title,
		Client:       o.Client,
		ContactName:  o.ContactName,
		ContactEmail: o.ContactEmail,
		Description:  o.Description,
		Type:         o.Type,
		Complexity:   o.Complexity,
		Duration:     o.Duration,
		Skills:       o.Skills,
		DealValue:    o.DealValue,
		Insights:     o.Insights,
		CreatedAt:    o.CreatedAt,
	}
}

// OpportunitiesFromModel converts a list of opportunities
func OpportunitiesFromModel(opps []*model.Opportunity) []Opportunity {
	out := make([]Opportunity, 0, len(opps))
	for _, o := range opps {
		out = append(out, OpportunityFromModel(o))
	}
	return out
}

// Todo is a todo item
type Todo struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Resolved    bool       `json:"resolved"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TodoFromModel converts a model.Todo
func TodoFromModel(t *model.Todo) Todo {
	return Todo{
		ID:          int64(t.ID),
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Resolved:    t.Resolved,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TodosFromModel converts a list of todos
func TodosFromModel(todos []*model.Todo) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		out = append(out, TodoFromModel(t))
	}
	return out
}

// Health is the body of the health check
type Health struct {
	Status string `json:"status"`
}
