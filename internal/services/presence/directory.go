// Package presence tracks which players are connected right now and
// what they are doing, independent of persisted account data. It is
// the routing table for every targeted send and broadcast.
package presence

import (
	"log/slog"
	"sync"

	"github.com/harborline/broadside/internal/model"
	"github.com/harborline/broadside/internal/protocol"
)

// Sender is the outbound half of a client connection. The directory
// never reads from connections, so this is all it needs.
type Sender interface {
	Send(msgType protocol.MsgType, payload []byte) error
}

// Entry is one online player's live snapshot.
type Entry struct {
	UserID   model.UserID
	Username string
	Elo      int
	Status   model.PlayerStatus
}

type record struct {
	entry Entry
	conn  Sender
}

// Directory maps user ids to live connections and presence status.
type Directory struct {
	logger *slog.Logger

	mu      sync.RWMutex
	players map[model.UserID]*record
}

// New creates an empty Directory
func New(logger *slog.Logger) *Directory {
	return &Directory{
		logger:  logger,
		players: make(map[model.UserID]*record),
	}
}

// Register adds a player on login. An existing registration for the
// same user is replaced, which covers reconnects.
func (d *Directory) Register(userID model.UserID, username string, elo int, conn Sender) {
	d.mu.Lock()
	d.players[userID] = &record{
		entry: Entry{UserID: userID, Username: username, Elo: elo, Status: model.StatusAvailable},
		conn:  conn,
	}
	d.mu.Unlock()

	d.logger.Info("player online",
		slog.String("user_id", string(userID)),
		slog.String("username", username),
	)
}

// Unregister removes a player on logout or disconnect.
func (d *Directory) Unregister(userID model.UserID) {
	d.mu.Lock()
	_, ok := d.players[userID]
	delete(d.players, userID)
	d.mu.Unlock()

	if ok {
		d.logger.Info("player offline", slog.String("user_id", string(userID)))
	}
}

// Connection returns the live connection for a user, if any. The
// caller sends outside the directory's lock.
func (d *Directory) Connection(userID model.UserID) (Sender, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.players[userID]
	if !ok {
		return nil, false
	}
	return rec.conn, true
}

// IsOnline reports whether the user has a live connection.
func (d *Directory) IsOnline(userID model.UserID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.players[userID]
	return ok
}

// Status returns the user's presence status; offline if unknown.
func (d *Directory) Status(userID model.UserID) model.PlayerStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.players[userID]
	if !ok {
		return model.StatusOffline
	}
	return rec.entry.Status
}

// SetStatus updates a player's presence status.
func (d *Directory) SetStatus(userID model.UserID, status model.PlayerStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if rec, ok := d.players[userID]; ok {
		rec.entry.Status = status
	}
}

// SetElo updates the cached rating shown in player lists.
func (d *Directory) SetElo(userID model.UserID, elo int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if rec, ok := d.players[userID]; ok {
		rec.entry.Elo = elo
	}
}

// List returns a snapshot of every online player.
func (d *Directory) List() []Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Entry, 0, len(d.players))
	for _, rec := range d.players {
		out = append(out, rec.entry)
	}
	return out
}

// SendTo marshals and sends a message to one user. Missing or failed
// connections are logged, not fatal: the disconnect path owns cleanup.
func (d *Directory) SendTo(userID model.UserID, msgType protocol.MsgType, payload []byte) {
	conn, ok := d.Connection(userID)
	if !ok {
		return
	}
	if err := conn.Send(msgType, payload); err != nil {
		d.logger.Warn("send failed",
			slog.String("user_id", string(userID)),
			slog.String("msg_type", msgType.String()),
			slog.String("error", err.Error()),
		)
	}
}

// Broadcast sends a message to every online player.
func (d *Directory) Broadcast(msgType protocol.MsgType, payload []byte) {
	d.mu.RLock()
	conns := make([]Sender, 0, len(d.players))
	for _, rec := range d.players {
		conns = append(conns, rec.conn)
	}
	d.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.Send(msgType, payload)
	}
}
