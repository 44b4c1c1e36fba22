package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/harborline/broadside/internal/model"
	"github.com/harborline/broadside/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	// Reserve the username first so two registrations cannot share it
	ok, err := s.client.SetNX(ctx, usernameIndexKey(user.Username), string(user.ID), 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrUserExists
	}

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, userKey(user.ID), data, 0).Err()
}

func (s *Storage) GetUserByID(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	id, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUserByID(ctx, model.UserID(id))
}

func (s *Storage) UpdateEloRating(ctx context.Context, id model.UserID, elo int) error {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	user.Elo = elo
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, userKey(id), data, 0).Err()
}

func (s *Storage) RecordResult(ctx context.Context, id model.UserID, wins, losses, draws int) error {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	user.Wins += wins
	user.Losses += losses
	user.Draws += draws
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, userKey(id), data, 0).Err()
}

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.Token), data, s.cfg.SessionTTL).Err()
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}

// Match operations

func (s *Storage) CreateMatch(ctx context.Context, record *model.MatchRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	// Pipeline the record write with both players' history indexes
	pipe := s.client.Pipeline()
	pipe.Set(ctx, matchKey(record.ID), data, 0)
	pipe.SAdd(ctx, userMatchesIndexKey(record.Player1), string(record.ID))
	pipe.SAdd(ctx, userMatchesIndexKey(record.Player2), string(record.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatchByID(ctx context.Context, id model.MatchID) (*model.MatchRecord, error) {
	data, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}

	var record model.MatchRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Storage) UpdateMatchStatus(ctx context.Context, id model.MatchID, status model.MatchStatus) error {
	record, err := s.GetMatchByID(ctx, id)
	if err != nil {
		return err
	}
	record.Status = status
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, matchKey(id), data, 0).Err()
}

func (s *Storage) EndMatch(ctx context.Context, record *model.MatchRecord) error {
	if _, err := s.GetMatchByID(ctx, record.ID); err != nil {
		return err
	}

	final := *record
	final.Status = model.MatchEnded
	data, err := json.Marshal(&final)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, matchKey(record.ID), data, s.cfg.MatchTTL)
	if s.cfg.MatchTTL > 0 {
		pipe.Expire(ctx, placementKey(record.ID, record.Player1), s.cfg.MatchTTL)
		pipe.Expire(ctx, placementKey(record.ID, record.Player2), s.cfg.MatchTTL)
		pipe.Expire(ctx, movesKey(record.ID), s.cfg.MatchTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUserMatches(ctx context.Context, id model.UserID) ([]*model.MatchRecord, error) {
	ids, err := s.client.SMembers(ctx, userMatchesIndexKey(id)).Result()
	if err != nil {
		return nil, err
	}

	var out []*model.MatchRecord
	for _, matchID := range ids {
		record, err := s.GetMatchByID(ctx, model.MatchID(matchID))
		if err != nil {
			if errors.Is(err, model.ErrMatchNotFound) {
				// Expired record; skip stale index entry
				continue
			}
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

// Ship placement operations

func (s *Storage) SaveShipPlacement(ctx context.Context, matchID model.MatchID, userID model.UserID, ships []model.Ship) error {
	data, err := json.Marshal(ships)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, placementKey(matchID, userID), data, 0).Err()
}

func (s *Storage) GetShipPlacement(ctx context.Context, matchID model.MatchID, userID model.UserID) ([]model.Ship, error) {
	data, err := s.client.Get(ctx, placementKey(matchID, userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlacementNotFound
		}
		return nil, err
	}

	var ships []model.Ship
	if err := json.Unmarshal(data, &ships); err != nil {
		return nil, err
	}
	return ships, nil
}

// Move operations

func (s *Storage) SaveMove(ctx context.Context, move *model.Move) error {
	data, err := json.Marshal(move)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, movesKey(move.MatchID), data).Err()
}

func (s *Storage) GetMatchMoves(ctx context.Context, matchID model.MatchID) ([]*model.Move, error) {
	items, err := s.client.LRange(ctx, movesKey(matchID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*model.Move, 0, len(items))
	for _, item := range items {
		var move model.Move
		if err := json.Unmarshal([]byte(item), &move); err != nil {
			return nil, err
		}
		out = append(out, &move)
	}
	return out, nil
}
