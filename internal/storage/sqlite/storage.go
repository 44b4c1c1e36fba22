package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harborline/broadside/internal/model"
	"github.com/harborline/broadside/internal/storage"
)

// Storage is a SQLite-backed implementation of the storage interface.
// It is the durable backend: accounts and match history survive
// restarts, unlike the memory backend.
type Storage struct {
	db *sql.DB
}

// New opens (and creates if missing) a SQLite database at the given
// path and applies the schema. WAL and a busy timeout keep concurrent
// connection workers from tripping over each other.
func New(path string) (*Storage, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, elo, wins, losses, draws, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(user.ID), user.Username, user.PasswordHash, user.Elo,
		user.Wins, user.Losses, user.Draws, user.CreatedAt.UnixMilli(),
	)
	if err != nil && isUniqueViolation(err) {
		return model.ErrUserExists
	}
	return err
}

func (s *Storage) GetUserByID(ctx context.Context, id model.UserID) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, elo, wins, losses, draws, created_at
		 FROM users WHERE id = ?`, string(id))
	return scanUser(row)
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, elo, wins, losses, draws, created_at
		 FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (s *Storage) UpdateEloRating(ctx context.Context, id model.UserID, elo int) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET elo = ? WHERE id = ?`, elo, string(id))
	if err != nil {
		return err
	}
	return requireRow(res, model.ErrUserNotFound)
}

func (s *Storage) RecordResult(ctx context.Context, id model.UserID, wins, losses, draws int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET wins = wins + ?, losses = losses + ?, draws = draws + ? WHERE id = ?`,
		wins, losses, draws, string(id))
	if err != nil {
		return err
	}
	return requireRow(res, model.ErrUserNotFound)
}

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (token, user_id, created_at, expires_at)
		 VALUES (?, ?, ?, ?)`,
		session.Token, string(session.UserID),
		session.CreatedAt.UnixMilli(), session.ExpiresAt.UnixMilli(),
	)
	return err
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	var (
		session   model.Session
		userID    string
		createdAt int64
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?`, token,
	).Scan(&session.Token, &userID, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	session.UserID = model.UserID(userID)
	session.CreatedAt = time.UnixMilli(createdAt)
	session.ExpiresAt = time.UnixMilli(expiresAt)
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

// Match operations

func (s *Storage) CreateMatch(ctx context.Context, record *model.MatchRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO matches (id, player1, player2, status, winner, reason, move_count, created_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		string(record.ID), string(record.Player1), string(record.Player2),
		string(record.Status), string(record.Winner), record.Reason,
		record.MoveCount, record.CreatedAt.UnixMilli(),
	)
	return err
}

func (s *Storage) GetMatchByID(ctx context.Context, id model.MatchID) (*model.MatchRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, player1, player2, status, winner, reason, move_count, created_at, ended_at
		 FROM matches WHERE id = ?`, string(id))
	return scanMatch(row)
}

func (s *Storage) UpdateMatchStatus(ctx context.Context, id model.MatchID, status model.MatchStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE matches SET status = ? WHERE id = ?`, string(status), string(id))
	if err != nil {
		return err
	}
	return requireRow(res, model.ErrMatchNotFound)
}

func (s *Storage) EndMatch(ctx context.Context, record *model.MatchRecord) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE matches SET status = ?, winner = ?, reason = ?, move_count = ?, ended_at = ?
		 WHERE id = ?`,
		string(model.MatchEnded), string(record.Winner), record.Reason,
		record.MoveCount, record.EndedAt.UnixMilli(), string(record.ID),
	)
	if err != nil {
		return err
	}
	return requireRow(res, model.ErrMatchNotFound)
}

func (s *Storage) GetUserMatches(ctx context.Context, id model.UserID) ([]*model.MatchRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player1, player2, status, winner, reason, move_count, created_at, ended_at
		 FROM matches WHERE player1 = ? OR player2 = ? ORDER BY created_at`,
		string(id), string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.MatchRecord
	for rows.Next() {
		record, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// Ship placement operations

func (s *Storage) SaveShipPlacement(ctx context.Context, matchID model.MatchID, userID model.UserID, ships []model.Ship) error {
	data, err := json.Marshal(ships)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO placements (match_id, user_id, ships) VALUES (?, ?, ?)`,
		string(matchID), string(userID), string(data))
	return err
}

func (s *Storage) GetShipPlacement(ctx context.Context, matchID model.MatchID, userID model.UserID) ([]model.Ship, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT ships FROM placements WHERE match_id = ? AND user_id = ?`,
		string(matchID), string(userID)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlacementNotFound
	}
	if err != nil {
		return nil, err
	}

	var ships []model.Ship
	if err := json.Unmarshal([]byte(data), &ships); err != nil {
		return nil, err
	}
	return ships, nil
}

// Move operations

func (s *Storage) SaveMove(ctx context.Context, move *model.Move) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO moves (match_id, turn, shooter, row, col, result, played_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(move.MatchID), move.Turn, string(move.Shooter),
		move.Row, move.Col, int(move.Result), move.PlayedAt.UnixMilli(),
	)
	return err
}

func (s *Storage) GetMatchMoves(ctx context.Context, matchID model.MatchID) ([]*model.Move, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_id, turn, shooter, row, col, result, played_at
		 FROM moves WHERE match_id = ? ORDER BY rowid`, string(matchID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Move
	for rows.Next() {
		var (
			move     model.Move
			mid      string
			shooter  string
			result   int
			playedAt int64
		)
		if err := rows.Scan(&mid, &move.Turn, &shooter, &move.Row, &move.Col, &result, &playedAt); err != nil {
			return nil, err
		}
		move.MatchID = model.MatchID(mid)
		move.Shooter = model.UserID(shooter)
		move.Result = model.ShotResult(result)
		move.PlayedAt = time.UnixMilli(playedAt)
		out = append(out, &move)
	}
	return out, rows.Err()
}

// Scan helpers

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		user      model.User
		id        string
		createdAt int64
	)
	err := row.Scan(&id, &user.Username, &user.PasswordHash, &user.Elo,
		&user.Wins, &user.Losses, &user.Draws, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	user.ID = model.UserID(id)
	user.CreatedAt = time.UnixMilli(createdAt)
	return &user, nil
}

func scanMatch(row rowScanner) (*model.MatchRecord, error) {
	var (
		record    model.MatchRecord
		id        string
		p1, p2    string
		status    string
		winner    string
		createdAt int64
		endedAt   int64
	)
	err := row.Scan(&id, &p1, &p2, &status, &winner, &record.Reason,
		&record.MoveCount, &createdAt, &endedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	record.ID = model.MatchID(id)
	record.Player1 = model.UserID(p1)
	record.Player2 = model.UserID(p2)
	record.Status = model.MatchStatus(status)
	record.Winner = model.UserID(winner)
	record.CreatedAt = time.UnixMilli(createdAt)
	if endedAt > 0 {
		record.EndedAt = time.UnixMilli(endedAt)
	}
	return &record, nil
}

func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}

func isUniqueViolation(err error) bool {
	// mattn/go-sqlite3 reports constraint failures in the error text;
	// matching on the message avoids coupling callers to driver types.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
