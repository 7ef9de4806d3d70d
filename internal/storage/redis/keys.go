package redis

import (
	"fmt"
	"strconv"
)

// Key prefix for all snakegame data
const keyPrefix = "snake"

// Entity names used in sequence, record and index keys
const (
	entityUser        = "user"
	entityLeaderboard = "leaderboard"
	entityGame        = "game"
	entityOpportunity = "opportunity"
	entityTodo        = "todo"
)

// sequenceKey returns the counter used to allocate IDs for an entity
func sequenceKey(entity string) string {
	return fmt.Sprintf("%s:seq:%s", keyPrefix, entity)
}

// recordKey returns the key holding a single JSON record
func recordKey(entity string, id int64) string {
	return fmt.Sprintf("%s:%s:%d", keyPrefix, entity, id)
}

// indexKey returns the sorted set listing every record of an entity
func indexKey(entity string) string {
	return fmt.Sprintf("%s:idx:%s", keyPrefix, entity)
}

// usernameIndexKey returns the key for the username -> user id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// idMember encodes an ID as a sorted set member. Zero padding keeps
// lexicographic order equal to numeric order for members with equal scores.
func idMember(id int64) string {
	return fmt.Sprintf("%020d", id)
}

func parseIDMember(member string) (int64, error) {
	return strconv.ParseInt(member, 10, 64)
}
