package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		fmt.Fprintf(o.w, "Username: %s\n", v.Username)
	case LoginResult:
		fmt.Fprintf(o.w, "Logged in as %s\n", v.Username)
	case []LeaderboardEntry:
		o.printLeaderboard(v)
	case Game:
		o.printGame(v)
	case []Game:
		o.printGames(v)
	case GameSnapshot:
		o.printSnapshot(v)
	case Opportunity:
		o.printOpportunity(v)
	case []Opportunity:
		o.printOpportunities(v)
	case Todo:
		o.printTodo(v)
	case []Todo:
		o.printTodos(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Success is the body of signup, logout and score submission
type Success struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// LoginResult is the body of a login attempt
type LoginResult struct {
	Success  bool   `json:"success"`
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
	Error    string `json:"error,omitempty"`
}

// User response type
type User struct {
	Username string `json:"username"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Game response type
type Game struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Mode     string `json:"mode"`
	State    string `json:"state"`
}

// Point is a grid cell
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GameSnapshot response type
type GameSnapshot struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Mode     string  `json:"mode"`
	Snake    []Point `json:"snake"`
	Food     Point   `json:"food"`
	Score    int     `json:"score"`
}

// Opportunity response type
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
	Insights     map[string]any `json:"insights"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Todo response type
type Todo struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Resolved    bool       `json:"resolved"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) table() *tabwriter.Writer {
	return tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
}

func (o *Output) printLeaderboard(entries []LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(o.w, "No scores yet")
		return
	}
	tw := o.table()
	fmt.Fprintln(tw, "RANK\tPLAYER\tSCORE")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", i+1, e.Username, e.Score)
	}
	_ = tw.Flush()
}

func (o *Output) printGame(g Game) {
	fmt.Fprintf(o.w, "Game: %d\n", g.ID)
	fmt.Fprintf(o.w, "Owner: %s\n", g.Username)
	fmt.Fprintf(o.w, "Mode: %s\n", g.Mode)
	fmt.Fprintf(o.w, "State: %s\n", g.State)
}

func (o *Output) printGames(games []Game) {
	if len(games) == 0 {
		fmt.Fprintln(o.w, "No games")
		return
	}
	tw := o.table()
	fmt.Fprintln(tw, "ID\tOWNER\tMODE")
	for _, g := range games {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", g.ID, g.Username, g.Mode)
	}
	_ = tw.Flush()
}

func (o *Output) printSnapshot(s GameSnapshot) {
	fmt.Fprintf(o.w, "Game: %d (%s, %s)\n", s.ID, s.Username, s.Mode)
	cells := make([]string, 0, len(s.Snake))
	for _, p := range s.Snake {
		cells = append(cells, fmt.Sprintf("(%d,%d)", p.X, p.Y))
	}
	fmt.Fprintf(o.w, "Snake: %s\n", strings.Join(cells, " "))
	fmt.Fprintf(o.w, "Food: (%d,%d)\n", s.Food.X, s.Food.Y)
	fmt.Fprintf(o.w, "Score: %d\n", s.Score)
}

func (o *Output) printOpportunity(op Opportunity) {
	fmt.Fprintf(o.w, "Opportunity: %d\n", op.ID)
	fmt.Fprintf(o.w, "Title: %s\n", op.Title)
	fmt.Fprintf(o.w, "Client: %s (%s <%s>)\n", op.Client, op.ContactName, op.ContactEmail)
	fmt.Fprintf(o.w, "Deal value: %.2f\n", op.DealValue)
	if len(op.Insights) == 0 {
		return
	}
	fmt.Fprintln(o.w, "Insights:")
	keys := make([]string, 0, len(op.Insights))
	for k := range op.Insights {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(o.w, "  %s: %v\n", k, op.Insights[k])
	}
}

func (o *Output) printOpportunities(opps []Opportunity) {
	if len(opps) == 0 {
		fmt.Fprintln(o.w, "No opportunities found.")
		return
	}
	tw := o.table()
	fmt.Fprintln(tw, "ID\tTITLE\tCLIENT\tDEAL VALUE")
	for _, op := range opps {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\n", op.ID, op.Title, op.Client, op.DealValue)
	}
	_ = tw.Flush()
}

func todoStatus(t Todo) string {
	if t.Resolved {
		return "done"
	}
	return "pending"
}

func todoDue(t Todo) string {
	if t.DueDate == nil {
		return "-"
	}
	return t.DueDate.Format("2006-01-02")
}

func (o *Output) printTodo(t Todo) {
	fmt.Fprintf(o.w, "Todo: %d\n", t.ID)
	fmt.Fprintf(o.w, "Title: %s\n", t.Title)
	if t.Description != "" {
		fmt.Fprintf(o.w, "Description: %s\n", t.Description)
	}
	fmt.Fprintf(o.w, "Due: %s\n", todoDue(t))
	fmt.Fprintf(o.w, "Status: %s\n", todoStatus(t))
}

func (o *Output) printTodos(todos []Todo) {
	if len(todos) == 0 {
		fmt.Fprintln(o.w, "No todos")
		return
	}
	tw := o.table()
	fmt.Fprintln(tw, "ID\tSTATUS\tDUE\tTITLE")
	for _, t := range todos {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, todoStatus(t), todoDue(t), t.Title)
	}
	_ = tw.Flush()
}
