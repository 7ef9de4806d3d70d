package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")

	// Game errors
	ErrGameNotFound = errors.New("game not found")
	ErrNotGameOwner = errors.New("user does not own this game")

	// Opportunity errors
	ErrOpportunityNotFound = errors.New("opportunity not found")

	// Todo errors
	ErrTodoNotFound = errors.New("todo not found")
)
