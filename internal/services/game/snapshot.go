package game

import (
	"context"

	"github.com/mcoot/snakegame/internal/dependencies/random"
	"github.com/mcoot/snakegame/internal/model"
)

// SnapshotSource produces the board a viewer sees for a stored game.
// It stands in for a game engine; the server does not simulate snake movement.
type SnapshotSource interface {
	Snapshot(ctx context.Context, game *model.Game) (*model.GameSnapshot, error)
}

// Placeholder board dimensions used by RandomSnapshotSource
const (
	PlaceholderGridSize  = 10
	PlaceholderMaxScore  = 20
	PlaceholderSnakeSize = 2
)

// RandomSnapshotSource fills snapshots with random positions and score
type RandomSnapshotSource struct {
	random random.Random
}

// NewRandomSnapshotSource creates a RandomSnapshotSource
func NewRandomSnapshotSource(random random.Random) *RandomSnapshotSource {
	return &RandomSnapshotSource{random: random}
}

func (r *RandomSnapshotSource) Snapshot(ctx context.Context, game *model.Game) (*model.GameSnapshot, error) {
	snake := make([]model.Point, PlaceholderSnakeSize)
	for i := range snake {
		snake[i] = r.point()
	}

	return &model.GameSnapshot{
		ID:       game.ID,
		Username: game.Username,
		Mode:     game.Mode,
		Snake:    snake,
		Food:     r.point(),
		Score:    r.random.Intn(PlaceholderMaxScore + 1),
	}, nil
}

func (r *RandomSnapshotSource) point() model.Point {
	return model.Point{
		X: r.random.Intn(PlaceholderGridSize),
		Y: r.random.Intn(PlaceholderGridSize),
	}
}
