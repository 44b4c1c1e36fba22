package model

import "time"

// MatchID uniquely identifies a match
type MatchID string

// MatchStatus represents the current phase of a match
type MatchStatus string

const (
	MatchAwaitingPlacement MatchStatus = "awaiting_placement" // Created, waiting for both fleets
	MatchActive            MatchStatus = "active"             // Turns being exchanged
	MatchPaused            MatchStatus = "paused"             // Pause agreed, reserved
	MatchEnded             MatchStatus = "ended"              // Terminal
)

// End reasons reported to both players on every terminal transition.
const (
	EndReasonAllSunk    = "all ships sunk"
	EndReasonResign     = "resign"
	EndReasonDisconnect = "disconnect"
	EndReasonDraw       = "draw agreed"
)

// Move is one resolved shot, appended to a match's history and never
// mutated afterwards.
type Move struct {
	MatchID  MatchID
	Turn     int
	Shooter  UserID
	Row      int
	Col      int
	Result   ShotResult
	PlayedAt time.Time
}

// MatchResult is the terminal outcome of a match. Winner is empty for
// a draw.
type MatchResult struct {
	Winner UserID
	Reason string
}

// Match is the live aggregate for one active match: both players,
// both boards, and turn state. It exists only inside the match
// registry; durable state is carried by MatchRecord.
type Match struct {
	ID            MatchID
	Players       [2]UserID
	Boards        map[UserID]*Board
	CurrentTurn   UserID
	TurnNumber    int
	TurnStartedAt time.Time
	TurnTimeLimit time.Duration
	Moves         []Move
	Status        MatchStatus
	Result        *MatchResult
	CreatedAt     time.Time
}

// HasPlayer reports whether the given user is one of the two participants.
func (m *Match) HasPlayer(id UserID) bool {
	return m.Players[0] == id || m.Players[1] == id
}

// Opponent returns the other participant, or "" if id is not in the match.
func (m *Match) Opponent(id UserID) UserID {
	switch id {
	case m.Players[0]:
		return m.Players[1]
	case m.Players[1]:
		return m.Players[0]
	}
	return ""
}

// Ended reports whether the match has reached a terminal state.
func (m *Match) Ended() bool {
	return m.Status == MatchEnded
}

// MatchRecord is the durable view of a match kept by the persistence
// gateway: who played, how it ended, and how long it ran.
type MatchRecord struct {
	ID        MatchID
	Player1   UserID
	Player2   UserID
	Status    MatchStatus
	Winner    UserID // empty for draw or unfinished
	Reason    string
	MoveCount int
	CreatedAt time.Time
	EndedAt   time.Time
}

// QueueEntry is one waiting player in the matchmaking queue. It lives
// only while the player waits; ordering is insertion order.
type QueueEntry struct {
	UserID        UserID
	Elo           int
	TurnTimeLimit time.Duration
	JoinedAt      time.Time
}
