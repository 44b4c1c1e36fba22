package memory

import (
	"context"
	"sync"

	"github.com/harborline/broadside/internal/model"
	"github.com/harborline/broadside/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	sessions      map[string]*model.Session
	matches       map[model.MatchID]*model.MatchRecord
	placements    map[placementKey][]model.Ship
	moves         map[model.MatchID][]*model.Move
}

type placementKey struct {
	matchID model.MatchID
	userID  model.UserID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string]model.UserID),
		sessions:      make(map[string]*model.Session),
		matches:       make(map[model.MatchID]*model.MatchRecord),
		placements:    make(map[placementKey][]model.Ship),
		moves:         make(map[model.MatchID][]*model.Move),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.usernameIndex[user.Username]; taken {
		return model.ErrUserExists
	}
	u := *user
	s.users[user.ID] = &u
	s.usernameIndex[user.Username] = user.ID
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) UpdateEloRating(ctx context.Context, id model.UserID, elo int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	user.Elo = elo
	return nil
}

func (s *Storage) RecordResult(ctx context.Context, id model.UserID, wins, losses, draws int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	user.Wins += wins
	user.Losses += losses
	user.Draws += draws
	return nil
}

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := *session
	s.sessions[session.Token] = &sess
	return nil
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	sess := *session
	return &sess, nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Match operations

func (s *Storage) CreateMatch(ctx context.Context, record *model.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *record
	s.matches[record.ID] = &r
	return nil
}

func (s *Storage) GetMatchByID(ctx context.Context, id model.MatchID) (*model.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	r := *record
	return &r, nil
}

func (s *Storage) UpdateMatchStatus(ctx context.Context, id model.MatchID, status model.MatchStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.matches[id]
	if !ok {
		return model.ErrMatchNotFound
	}
	record.Status = status
	return nil
}

func (s *Storage) EndMatch(ctx context.Context, record *model.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[record.ID]; !ok {
		return model.ErrMatchNotFound
	}
	r := *record
	r.Status = model.MatchEnded
	s.matches[record.ID] = &r
	return nil
}

func (s *Storage) GetUserMatches(ctx context.Context, id model.UserID) ([]*model.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.MatchRecord
	for _, record := range s.matches {
		if record.Player1 == id || record.Player2 == id {
			r := *record
			out = append(out, &r)
		}
	}
	return out, nil
}

// Ship placement operations

func (s *Storage) SaveShipPlacement(ctx context.Context, matchID model.MatchID, userID model.UserID, ships []model.Ship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]model.Ship, len(ships))
	copy(stored, ships)
	s.placements[placementKey{matchID: matchID, userID: userID}] = stored
	return nil
}

func (s *Storage) GetShipPlacement(ctx context.Context, matchID model.MatchID, userID model.UserID) ([]model.Ship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ships, ok := s.placements[placementKey{matchID: matchID, userID: userID}]
	if !ok {
		return nil, model.ErrPlacementNotFound
	}
	out := make([]model.Ship, len(ships))
	copy(out, ships)
	return out, nil
}

// Move operations

func (s *Storage) SaveMove(ctx context.Context, move *model.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := *move
	s.moves[move.MatchID] = append(s.moves[move.MatchID], &m)
	return nil
}

func (s *Storage) GetMatchMoves(ctx context.Context, matchID model.MatchID) ([]*model.Move, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	moves := s.moves[matchID]
	out := make([]*model.Move, len(moves))
	for i, m := range moves {
		mv := *m
		out[i] = &mv
	}
	return out, nil
}
