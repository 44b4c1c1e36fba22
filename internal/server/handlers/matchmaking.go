package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/harborline/broadside/internal/dependencies/clock"
	"github.com/harborline/broadside/internal/model"
	"github.com/harborline/broadside/internal/protocol"
	"github.com/harborline/broadside/internal/server"
	"github.com/harborline/broadside/internal/services/auth"
	"github.com/harborline/broadside/internal/services/match"
	"github.com/harborline/broadside/internal/services/matchmaking"
	"github.com/harborline/broadside/internal/services/presence"
)

// Matchmaking handles direct challenges, the rating queue, and
// rematch offers. Offers carry their turn limit only on the initial
// request, so outstanding ones are parked here until the response
// arrives or they expire.
type Matchmaking struct {
	queue    *matchmaking.Queue
	engine   *match.Engine
	presence *presence.Directory
	auth     *auth.Service
	logger   *slog.Logger
	offers   *offerTable
}

var _ server.Handler = (*Matchmaking)(nil)

// NewMatchmaking creates a new Matchmaking handler
func NewMatchmaking(
	queue *matchmaking.Queue,
	engine *match.Engine,
	dir *presence.Directory,
	authService *auth.Service,
	clk clock.Clock,
	logger *slog.Logger,
) *Matchmaking {
	return &Matchmaking{
		queue:    queue,
		engine:   engine,
		presence: dir,
		auth:     authService,
		logger:   logger,
		offers:   newOfferTable(clk, offerTTL),
	}
}

// ClearOffers drops every outstanding offer the user made or
// received. Wired to logout and disconnect so a vanished challenger
// cannot be accepted into a match nobody can play.
func (h *Matchmaking) ClearOffers(userID model.UserID) {
	h.offers.clearUser(userID)
}

func (h *Matchmaking) CanHandle(msgType protocol.MsgType) bool {
	switch msgType {
	case protocol.MsgChallenge, protocol.MsgChallengeResponse,
		protocol.MsgQueueJoin, protocol.MsgQueueLeave, protocol.MsgQueueStatusRequest,
		protocol.MsgRematchRequest, protocol.MsgRematchResponse:
		return true
	}
	return false
}

func (h *Matchmaking) Handle(ctx context.Context, req *server.Request) error {
	switch req.Header.Type {
	case protocol.MsgChallenge:
		return h.challenge(ctx, req)
	case protocol.MsgChallengeResponse:
		return h.challengeResponse(ctx, req)
	case protocol.MsgQueueJoin:
		return h.queueJoin(ctx, req)
	case protocol.MsgQueueLeave:
		return h.queueLeave(req)
	case protocol.MsgQueueStatusRequest:
		return h.queueStatus(req)
	case protocol.MsgRematchRequest:
		return h.rematchRequest(req)
	case protocol.MsgRematchResponse:
		return h.rematchResponse(ctx, req)
	}
	return nil
}

// challenge forwards a direct challenge to an available opponent. An
// unavailable opponent produces an immediate declined response, the
// same shape an explicit decline would.
func (h *Matchmaking) challenge(ctx context.Context, req *server.Request) error {
	var c protocol.Challenge
	if err := c.Unmarshal(req.Payload); err != nil {
		return err
	}

	if c.OpponentID == req.UserID ||
		!h.presence.IsOnline(c.OpponentID) ||
		h.presence.Status(c.OpponentID) != model.StatusAvailable {
		return req.Conn.Send(protocol.MsgChallengeResponse, (&protocol.ChallengeResponse{
			ChallengerID: c.OpponentID,
		}).Marshal())
	}

	forward := protocol.ChallengeReceived{
		FromID:        req.UserID,
		TurnLimitSecs: c.TurnLimitSecs,
	}
	if user, err := h.auth.GetUser(ctx, req.UserID); err == nil {
		forward.FromName = user.Username
		forward.FromElo = uint32(user.Elo)
	}

	h.offers.put(req.UserID, c.OpponentID, time.Duration(c.TurnLimitSecs)*time.Second)

	h.presence.SendTo(c.OpponentID, protocol.MsgChallengeReceived, forward.Marshal())
	return nil
}

func (h *Matchmaking) challengeResponse(ctx context.Context, req *server.Request) error {
	var resp protocol.ChallengeResponse
	if err := resp.Unmarshal(req.Payload); err != nil {
		return err
	}

	turnLimit, ok := h.offers.take(resp.ChallengerID, req.UserID)
	if !ok {
		return model.ErrOpponentUnavailable
	}

	if !resp.Accepted {
		h.presence.SendTo(resp.ChallengerID, protocol.MsgChallengeResponse, (&protocol.ChallengeResponse{
			ChallengerID: req.UserID,
		}).Marshal())
		return nil
	}

	// The challenger may have dropped or started another match since
	// the offer was made. Tell the accepter it fell through rather
	// than creating a match nobody can play.
	if !h.presence.IsOnline(resp.ChallengerID) ||
		h.presence.Status(resp.ChallengerID) != model.StatusAvailable {
		return req.Conn.Send(protocol.MsgChallengeResponse, (&protocol.ChallengeResponse{
			ChallengerID: resp.ChallengerID,
		}).Marshal())
	}

	_, err := h.engine.CreateMatch(ctx, resp.ChallengerID, req.UserID, turnLimit)
	return err
}

func (h *Matchmaking) queueJoin(ctx context.Context, req *server.Request) error {
	var join protocol.QueueJoin
	if err := join.Unmarshal(req.Payload); err != nil {
		return err
	}

	if h.presence.Status(req.UserID) == model.StatusInGame {
		return model.ErrAlreadyQueued
	}

	user, err := h.auth.GetUser(ctx, req.UserID)
	if err != nil {
		return err
	}

	if err := h.queue.Join(req.UserID, user.Elo, time.Duration(join.TurnLimitSecs)*time.Second); err != nil {
		return err
	}
	return h.sendQueueStatus(req)
}

func (h *Matchmaking) queueLeave(req *server.Request) error {
	if err := h.queue.Leave(req.UserID); err != nil {
		return err
	}
	return h.sendQueueStatus(req)
}

func (h *Matchmaking) queueStatus(req *server.Request) error {
	return h.sendQueueStatus(req)
}

func (h *Matchmaking) sendQueueStatus(req *server.Request) error {
	st := h.queue.Status(req.UserID)
	return req.Conn.Send(protocol.MsgQueueStatusResponse, (&protocol.QueueStatus{
		Queued:   st.Queued,
		Position: uint16(st.Position),
		Window:   uint32(st.Window),
	}).Marshal())
}

func (h *Matchmaking) rematchRequest(req *server.Request) error {
	var r protocol.RematchRequest
	if err := r.Unmarshal(req.Payload); err != nil {
		return err
	}

	turnLimit := time.Duration(r.TurnLimitSecs) * time.Second
	if err := h.engine.RequestRematch(req.UserID, r.OpponentID, turnLimit); err != nil {
		return err
	}

	h.offers.put(req.UserID, r.OpponentID, turnLimit)
	return nil
}

func (h *Matchmaking) rematchResponse(ctx context.Context, req *server.Request) error {
	var resp protocol.RematchResponse
	if err := resp.Unmarshal(req.Payload); err != nil {
		return err
	}

	turnLimit, ok := h.offers.take(resp.OpponentID, req.UserID)
	if !ok {
		return model.ErrOpponentUnavailable
	}

	if !resp.Accepted {
		h.presence.SendTo(resp.OpponentID, protocol.MsgRematchResponse, (&protocol.RematchResponse{
			OpponentID: req.UserID,
		}).Marshal())
		return nil
	}

	return h.engine.AcceptRematch(ctx, req.UserID, resp.OpponentID, turnLimit)
}
