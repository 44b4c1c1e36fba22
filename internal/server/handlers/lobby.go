package handlers

import (
	"context"
	"log/slog"

	"github.com/harborline/broadside/internal/model"
	"github.com/harborline/broadside/internal/protocol"
	"github.com/harborline/broadside/internal/server"
	"github.com/harborline/broadside/internal/services/presence"
)

// Lobby serves the online-player list and player status changes.
type Lobby struct {
	presence *presence.Directory
	logger   *slog.Logger
}

var _ server.Handler = (*Lobby)(nil)

// NewLobby creates a new Lobby handler
func NewLobby(dir *presence.Directory, logger *slog.Logger) *Lobby {
	return &Lobby{presence: dir, logger: logger}
}

func (h *Lobby) CanHandle(msgType protocol.MsgType) bool {
	return msgType == protocol.MsgPlayerListRequest || msgType == protocol.MsgStatusUpdate
}

func (h *Lobby) Handle(ctx context.Context, req *server.Request) error {
	switch req.Header.Type {
	case protocol.MsgPlayerListRequest:
		return h.playerList(req)
	case protocol.MsgStatusUpdate:
		return h.statusUpdate(req)
	}
	return nil
}

func (h *Lobby) playerList(req *server.Request) error {
	entries := h.presence.List()
	if len(entries) > protocol.MaxListedPlayers {
		entries = entries[:protocol.MaxListedPlayers]
	}

	list := protocol.PlayerList{Players: make([]protocol.PlayerEntry, 0, len(entries))}
	for _, e := range entries {
		list.Players = append(list.Players, protocol.PlayerEntry{
			UserID:   e.UserID,
			Username: e.Username,
			Elo:      uint32(e.Elo),
			Status:   e.Status,
		})
	}
	return req.Conn.Send(protocol.MsgPlayerListResponse, list.Marshal())
}

// statusUpdate lets a player flip their own availability. In-game
// status is owned by the match engine and cannot be set or cleared
// from here.
func (h *Lobby) statusUpdate(req *server.Request) error {
	var update protocol.StatusUpdate
	if err := update.Unmarshal(req.Payload); err != nil {
		return err
	}

	if h.presence.Status(req.UserID) == model.StatusInGame {
		return nil
	}
	if update.Status != model.StatusAvailable && update.Status != model.StatusOffline {
		return nil
	}

	h.presence.SetStatus(req.UserID, update.Status)
	h.presence.Broadcast(protocol.MsgStatusUpdate, (&protocol.StatusUpdate{
		UserID: req.UserID,
		Status: update.Status,
	}).Marshal())
	return nil
}
