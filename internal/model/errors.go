package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("username already taken")
	ErrSessionNotFound = errors.New("session not found")

	// Matchmaking errors
	ErrAlreadyQueued = errors.New("player is already in the queue")
	ErrNotQueued     = errors.New("player is not in the queue")

	// Match errors
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchEnded          = errors.New("match has already ended")
	ErrMatchNotActive      = errors.New("match is not active")
	ErrNotParticipant      = errors.New("player is not part of this match")
	ErrNotPlayerTurn       = errors.New("not this player's turn")
	ErrAlreadyPlaced       = errors.New("ship placement already submitted")
	ErrPlacementNotDone    = errors.New("ship placement not submitted")
	ErrTurnNotExpired      = errors.New("turn time limit has not elapsed")
	ErrOpponentUnavailable = errors.New("opponent is not available")
	ErrNoDrawOffer         = errors.New("no draw offer outstanding")

	// Board errors
	ErrInvalidPlacement  = errors.New("invalid ship placement")
	ErrInvalidTarget     = errors.New("target cell is out of range")
	ErrCellAlreadyShot   = errors.New("cell has already been fired at")
	ErrPlacementNotFound = errors.New("ship placement not found")
)
