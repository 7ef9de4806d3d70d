package model

import "time"

// TodoID identifies a todo item
type TodoID int64

// Todo is a single item on the todo list
type Todo struct {
	ID          TodoID
	Title       string
	Description string
	DueDate     *time.Time
	Resolved    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoFilter selects which todos a listing returns
type TodoFilter string

const (
	TodoFilterAll      TodoFilter = "all"
	TodoFilterResolved TodoFilter = "resolved"
	TodoFilterPending  TodoFilter = "pending"
)

// Matches reports whether the todo passes the filter. Unknown filters match everything.
func (f TodoFilter) Matches(t *Todo) bool {
	switch f {
	case TodoFilterResolved:
		return t.Resolved
	case TodoFilterPending:
		return !t.Resolved
	default:
		return true
	}
}
