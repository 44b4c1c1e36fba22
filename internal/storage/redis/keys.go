package redis

import (
	"fmt"

	"github.com/harborline/broadside/internal/model"
)

// Key prefix for all server data
const keyPrefix = "broadside"

// Key generation functions for each entity type

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// sessionKey returns the Redis key for a Session
func sessionKey(token string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, token)
}

// matchKey returns the Redis key for a MatchRecord
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// userMatchesIndexKey returns the Redis key for the SET of matches a user played
func userMatchesIndexKey(id model.UserID) string {
	return fmt.Sprintf("%s:idx:user_matches:%s", keyPrefix, id)
}

// placementKey returns the Redis key for one player's ship placement in a match
func placementKey(matchID model.MatchID, userID model.UserID) string {
	return fmt.Sprintf("%s:placement:%s:%s", keyPrefix, matchID, userID)
}

// movesKey returns the Redis key for the LIST of moves in a match
func movesKey(matchID model.MatchID) string {
	return fmt.Sprintf("%s:moves:%s", keyPrefix, matchID)
}
