package model

import "time"

// GameID uniquely identifies a game
type GameID int64

// Game modes understood by the frontend. Mode is stored as free text.
const (
	GameModeWalls = "walls" // hitting the edge ends the game
	GameModeWrap  = "wrap"  // the snake wraps around the edges
)

// Game is a persisted game record. State is opaque and never validated.
type Game struct {
	ID        GameID
	Username  string
	Mode      string
	State     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Point is a cell on the game grid
type Point struct {
	X int
	Y int
}

// GameSnapshot is the board as shown to a viewer at a point in time
type GameSnapshot struct {
	ID       GameID
	Username string
	Mode     string
	Snake    []Point // head first
	Food     Point
	Score    int
}
