package storage

import (
	"context"

	"github.com/harborline/broadside/internal/model"
)

// Storage defines the interface for data persistence. The core treats
// this as a narrow record store; no backend details leak through it.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateEloRating(ctx context.Context, id model.UserID, elo int) error
	RecordResult(ctx context.Context, id model.UserID, wins, losses, draws int) error

	// Session operations
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error

	// Match operations
	CreateMatch(ctx context.Context, record *model.MatchRecord) error
	GetMatchByID(ctx context.Context, id model.MatchID) (*model.MatchRecord, error)
	UpdateMatchStatus(ctx context.Context, id model.MatchID, status model.MatchStatus) error
	EndMatch(ctx context.Context, record *model.MatchRecord) error
	GetUserMatches(ctx context.Context, id model.UserID) ([]*model.MatchRecord, error)

	// Ship placement operations
	SaveShipPlacement(ctx context.Context, matchID model.MatchID, userID model.UserID, ships []model.Ship) error
	GetShipPlacement(ctx context.Context, matchID model.MatchID, userID model.UserID) ([]model.Ship, error)

	// Move operations
	SaveMove(ctx context.Context, move *model.Move) error
	GetMatchMoves(ctx context.Context, matchID model.MatchID) ([]*model.Move, error)
}
