package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/services/auth"
	"github.com/mcoot/snakegame/internal/services/game"
	"github.com/mcoot/snakegame/internal/services/leaderboard"
	"github.com/mcoot/snakegame/internal/services/opportunity"
	"github.com/mcoot/snakegame/internal/services/todo"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeValidationError     = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeTodoNotFound        = "TODO_NOT_FOUND"
	CodeOpportunityNotFound = "OPPORTUNITY_NOT_FOUND"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var verr *opportunity.ValidationError
	if errors.As(err, &verr) {
		return validation(verr.Error())
	}

	switch {
	// Not found
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrTodoNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeTodoNotFound, "Todo not found"}}
	case errors.Is(err, model.ErrOpportunityNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeOpportunityNotFound, "Opportunity not found"}}

	// Ownership
	case errors.Is(err, model.ErrNotGameOwner):
		return &httpError{http.StatusForbidden, APIError{CodeForbidden, "Only the game's owner can update it"}}

	// Auth
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrMissingCredentials):
		return validation("username and password are required")

	// Service validation
	case errors.Is(err, leaderboard.ErrInvalidUsername), errors.Is(err, game.ErrInvalidUsername):
		return validation("username is required")
	case errors.Is(err, leaderboard.ErrInvalidScore):
		return validation("score must not be negative")
	case errors.Is(err, todo.ErrTitleRequired):
		return validation("title is required")

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

func validation(message string) *httpError {
	return &httpError{http.StatusUnprocessableEntity, APIError{CodeValidationError, message}}
}

// NewInvalidRequestError creates an error for a body that could not be parsed
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewValidationError creates an error for a well-formed request with missing or bad values
func NewValidationError(message string) error {
	return validation(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewRateLimitedError creates a too many requests error
func NewRateLimitedError() error {
	return &httpError{http.StatusTooManyRequests, APIError{CodeRateLimited, "Too many requests, slow down"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
