package model

import "time"

// UserID uniquely identifies a registered account across the system
type UserID string

// DefaultElo is the rating assigned to a freshly registered account.
const DefaultElo = 1200

// User represents a registered account.
// The password hash lives here rather than in a separate record because
// every authenticated message resolves to a full account anyway.
type User struct {
	ID           UserID
	Username     string
	PasswordHash string // bcrypt hash
	Elo          int
	Wins         int
	Losses       int
	Draws        int
	CreatedAt    time.Time
}

// Session binds an opaque wire token to a user for its lifetime.
// Tokens travel in the fixed 64-byte header field, so they are exactly
// 64 hex characters.
type Session struct {
	Token     string
	UserID    UserID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// PlayerStatus is a player's live presence state, independent of
// persisted account data.
type PlayerStatus uint8

const (
	StatusOffline PlayerStatus = iota
	StatusAvailable
	StatusInGame
)

// String returns the human-readable form used in logs and list responses.
func (s PlayerStatus) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusInGame:
		return "in-game"
	default:
		return "offline"
	}
}
