package model

import "time"

// LeaderboardEntryID identifies a leaderboard submission
type LeaderboardEntryID int64

// LeaderboardEntry is a single score submission. Entries are never updated.
type LeaderboardEntry struct {
	ID        LeaderboardEntryID
	Username  string
	Score     int
	CreatedAt time.Time
}

// LeaderboardLess orders entries by score descending, earlier submissions first on ties
func LeaderboardLess(a, b *LeaderboardEntry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.ID < b.ID
}
