package model

import "time"

// UserID uniquely identifies a registered user
type UserID int64

// User is a registered account
type User struct {
	ID           UserID
	Username     string // login username (unique, immutable)
	PasswordHash string // bcrypt hash, never the plaintext password
	CreatedAt    time.Time
}
