// Package protocol implements the binary wire protocol spoken between
// clients and the server: a fixed 77-byte header followed by a
// fixed-size payload per message type. All multi-byte fields are
// big-endian; all strings are fixed-width, NUL-terminated buffers.
package protocol

import "errors"

// MsgType identifies the payload that follows a header.
type MsgType uint8

const (
	// Authentication
	MsgRegister MsgType = iota + 1
	MsgLogin
	MsgLogout
	MsgSessionCheck
	MsgAuthResponse

	// Presence
	MsgPlayerListRequest
	MsgPlayerListResponse
	MsgStatusUpdate

	// Matchmaking
	MsgChallenge
	MsgChallengeReceived
	MsgChallengeResponse
	MsgQueueJoin
	MsgQueueLeave
	MsgQueueStatusRequest
	MsgQueueStatusResponse
	MsgMatchStart

	// Gameplay
	MsgPlacement
	MsgPlacementAck
	MsgMove
	MsgMoveResult
	MsgTurnUpdate
	MsgTurnTimeout
	MsgMatchState
	MsgMatchEnd
	MsgPauseRequest
	MsgPauseResponse
	MsgDrawOffer
	MsgDrawResponse
	MsgResign
	MsgRematchRequest
	MsgRematchResponse

	// Chat
	MsgChat

	// Keepalive
	MsgPing
	MsgPong
)

// String returns the message type's name for logs.
func (t MsgType) String() string {
	if name, ok := msgNames[t]; ok {
		return name
	}
	return "unknown"
}

var msgNames = map[MsgType]string{
	MsgRegister:            "register",
	MsgLogin:               "login",
	MsgLogout:              "logout",
	MsgSessionCheck:        "session_check",
	MsgAuthResponse:        "auth_response",
	MsgPlayerListRequest:   "player_list_request",
	MsgPlayerListResponse:  "player_list_response",
	MsgStatusUpdate:        "status_update",
	MsgChallenge:           "challenge",
	MsgChallengeReceived:   "challenge_received",
	MsgChallengeResponse:   "challenge_response",
	MsgQueueJoin:           "queue_join",
	MsgQueueLeave:          "queue_leave",
	MsgQueueStatusRequest:  "queue_status_request",
	MsgQueueStatusResponse: "queue_status_response",
	MsgMatchStart:          "match_start",
	MsgPlacement:           "placement",
	MsgPlacementAck:        "placement_ack",
	MsgMove:                "move",
	MsgMoveResult:          "move_result",
	MsgTurnUpdate:          "turn_update",
	MsgTurnTimeout:         "turn_timeout",
	MsgMatchState:          "match_state",
	MsgMatchEnd:            "match_end",
	MsgPauseRequest:        "pause_request",
	MsgPauseResponse:       "pause_response",
	MsgDrawOffer:           "draw_offer",
	MsgDrawResponse:        "draw_response",
	MsgResign:              "resign",
	MsgRematchRequest:      "rematch_request",
	MsgRematchResponse:     "rematch_response",
	MsgChat:                "chat",
	MsgPing:                "ping",
	MsgPong:                "pong",
}

// Fixed field widths. IDs are UUID text; tokens fill the whole header
// field as 64 hex characters.
const (
	TokenSize   = 64
	IDLen       = 36
	UsernameLen = 32
	PasswordLen = 64
	ReasonLen   = 64
	ChatTextLen = 256
)

// HeaderSize is the byte length of every message header:
// type (1) + payload length (4) + timestamp (8) + session token (64).
const HeaderSize = 1 + 4 + 8 + TokenSize

// MaxPayloadSize bounds a declared payload length; anything larger is
// a protocol violation and the connection is dropped.
const MaxPayloadSize = 8192

// MaxListedPlayers bounds the player-list response array.
const MaxListedPlayers = 64

// Codec errors.
var (
	ErrPayloadSize    = errors.New("payload size mismatch")
	ErrPayloadTooLong = errors.New("declared payload length exceeds maximum")
)

// Header is the fixed message header preceding every payload.
type Header struct {
	Type      MsgType
	Length    uint32
	Timestamp uint64 // unix milliseconds, sender's clock; informational only
	Token     string // session token, empty for unauthenticated messages
}
