package handlers

import (
	"context"
	"log/slog"

	"github.com/harborline/broadside/internal/protocol"
	"github.com/harborline/broadside/internal/server"
	"github.com/harborline/broadside/internal/services/match"
)

// Game forwards in-match messages to the engine, which owns all
// gameplay validation and fan-out.
type Game struct {
	engine *match.Engine
	logger *slog.Logger
}

var _ server.Handler = (*Game)(nil)

// NewGame creates a new Game handler
func NewGame(engine *match.Engine, logger *slog.Logger) *Game {
	return &Game{engine: engine, logger: logger}
}

func (h *Game) CanHandle(msgType protocol.MsgType) bool {
	switch msgType {
	case protocol.MsgPlacement, protocol.MsgMove, protocol.MsgTurnTimeout,
		protocol.MsgResign, protocol.MsgDrawOffer, protocol.MsgDrawResponse,
		protocol.MsgPauseRequest, protocol.MsgPauseResponse, protocol.MsgChat:
		return true
	}
	return false
}

func (h *Game) Handle(ctx context.Context, req *server.Request) error {
	switch req.Header.Type {
	case protocol.MsgPlacement:
		var p protocol.Placement
		if err := p.Unmarshal(req.Payload); err != nil {
			return err
		}
		return h.engine.SubmitPlacement(ctx, p.MatchID, req.UserID, p.Models())

	case protocol.MsgMove:
		var m protocol.Move
		if err := m.Unmarshal(req.Payload); err != nil {
			return err
		}
		return h.engine.Fire(ctx, m.MatchID, req.UserID, int(m.Row), int(m.Col))

	case protocol.MsgTurnTimeout:
		var ref protocol.MatchRef
		if err := ref.Unmarshal(req.Payload); err != nil {
			return err
		}
		return h.engine.Timeout(ctx, ref.MatchID, req.UserID)

	case protocol.MsgResign:
		var ref protocol.MatchRef
		if err := ref.Unmarshal(req.Payload); err != nil {
			return err
		}
		return h.engine.Resign(ctx, ref.MatchID, req.UserID)

	case protocol.MsgDrawOffer:
		var ref protocol.MatchRef
		if err := ref.Unmarshal(req.Payload); err != nil {
			return err
		}
		return h.engine.OfferDraw(ref.MatchID, req.UserID)

	case protocol.MsgDrawResponse:
		var resp protocol.MatchResponse
		if err := resp.Unmarshal(req.Payload); err != nil {
			return err
		}
		return h.engine.RespondDraw(ctx, resp.MatchID, req.UserID, resp.Accepted)

	case protocol.MsgPauseRequest:
		var ref protocol.MatchRef
		if err := ref.Unmarshal(req.Payload); err != nil {
			return err
		}
		return h.engine.RequestPause(ref.MatchID, req.UserID)

	case protocol.MsgPauseResponse:
		var resp protocol.MatchResponse
		if err := resp.Unmarshal(req.Payload); err != nil {
			return err
		}
		return h.engine.RespondPause(resp.MatchID, req.UserID, resp.Accepted)

	case protocol.MsgChat:
		var chat protocol.Chat
		if err := chat.Unmarshal(req.Payload); err != nil {
			return err
		}
		return h.engine.Chat(chat.MatchID, req.UserID, chat.Text)
	}
	return nil
}
