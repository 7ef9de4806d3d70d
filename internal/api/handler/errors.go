package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/snakegame/internal/api/apierr"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewValidationError creates a validation error
func NewValidationError(message string) error {
	return apierr.NewValidationError(message)
}

// decodeJSON reads the request body into v
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return NewInvalidRequestError("invalid request body")
	}
	return nil
}

// pathID reads a positive integer path variable. Digits too large for an
// id cannot name a stored record, so they report notFound.
func pathID(r *http.Request, name string, notFound error) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return 0, notFound
	}
	if err != nil || id <= 0 {
		return 0, NewValidationError(name + " must be a positive integer")
	}
	return id, nil
}
