package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/snakegame/internal/services/opportunity"
	"github.com/mcoot/snakegame/internal/services/todo"
)

// CredentialsRequest is the request body for signup and login
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SubmitScoreRequest is the request body for a leaderboard submission
type SubmitScoreRequest struct {
	Username string `json:"username"`
	Score    *int   `json:"score"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Mode  string `json:"mode,omitempty"`
	State string `json:"state,omitempty"`
}

// UpdateGameStateRequest is the request body for replacing a game's state
type UpdateGameStateRequest struct {
	State *string `json:"state"`
}

// CreateOpportunityRequest is the request body for creating an opportunity.
// Absent fields stay nil so validation can name the first one missing.
type CreateOpportunityRequest struct {
	Title        *string `json:"title"`
	Client       *string `json:"client"`
	ContactName  *string `json:"contact_name"`
	ContactEmail *string `json:"contact_email"`
	Description  *string `json:"description"`
	Type         *string `json:"type"`
	Complexity   *string `json:"complexity"`
	Duration     *string `json:"duration"`
	Skills       *string `json:"skills"`
	DealValue    *Number `json:"deal_value"`
}

// ToInput converts the request to service input
func (r CreateOpportunityRequest) ToInput() opportunity.Input {
	in := opportunity.Input{
		Title:        r.Title,
		Client:       r.Client,
		ContactName:  r.ContactName,
		ContactEmail: r.ContactEmail,
		Description:  r.Description,
		Type:         r.Type,
		Complexity:   r.Complexity,
		Duration:     r.Duration,
		Skills:       r.Skills,
	}
	if r.DealValue != nil {
		v := float64(*r.DealValue)
		in.DealValue = &v
	}
	return in
}

// Number is a float that may be sent either as a JSON number or a numeric string
type Number float64

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		*n = Number(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// TodoRequest is the request body for creating or replacing a todo
type TodoRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
	Resolved    bool    `json:"resolved"`
}

// dateLayout is the due date format used by the todo frontend
const dateLayout = "2006-01-02"

// ToFields converts the request to service fields. Due dates may be a
// calendar date or an RFC 3339 timestamp; an empty string clears the date.
func (r TodoRequest) ToFields() (todo.Fields, error) {
	f := todo.Fields{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Resolved:    r.Resolved,
	}

	if r.DueDate == nil || strings.TrimSpace(*r.DueDate) == "" {
		return f, nil
	}

	raw := strings.TrimSpace(*r.DueDate)
	due, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		due, err = time.Parse(dateLayout, raw)
		if err != nil {
			return todo.Fields{}, fmt.Errorf("due_date must be YYYY-MM-DD or RFC 3339: %q", raw)
		}
	}
	due = due.UTC()
	f.DueDate = &due
	return f, nil
}
