// Package match owns every currently active match: the placement
// phase, the alternating-turn state machine, shot resolution, and all
// terminal transitions. It is the only writer of live match state.
package match

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harborline/broadside/internal/dependencies/clock"
	"github.com/harborline/broadside/internal/dependencies/random"
	"github.com/harborline/broadside/internal/model"
	"github.com/harborline/broadside/internal/protocol"
	"github.com/harborline/broadside/internal/services/elo"
	"github.com/harborline/broadside/internal/services/presence"
	"github.com/harborline/broadside/internal/storage"
)

// Config holds configuration for the match engine
type Config struct {
	// DefaultTurnLimit applies when a match is created without an
	// explicit per-turn time limit.
	DefaultTurnLimit time.Duration
}

// DefaultConfig returns default engine configuration
func DefaultConfig() Config {
	return Config{
		DefaultTurnLimit: 60 * time.Second,
	}
}

// entry wraps one live match. Its mutex is the serialization point
// for the two participants' worker threads: every operation re-checks
// turn ownership and terminal status after acquiring it.
type entry struct {
	mu    sync.Mutex
	match *model.Match

	// Ready-set for the placement phase: placements validated so far.
	placements map[model.UserID][]model.Ship

	// drawOffered holds the player whose draw offer is outstanding.
	// Empty means no offer; it lapses when a shot resolves.
	drawOffered model.UserID
}

// Dequeuer removes a player from the matchmaking queue. The queue
// calls into the engine to start matches, so this direction is an
// interface to keep the packages decoupled.
type Dequeuer interface {
	Leave(userID model.UserID) error
}

// Engine manages the active-match registry and the gameplay state
// machine.
type Engine struct {
	storage  storage.Storage
	presence *presence.Directory
	elo      *elo.Service
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	cfg      Config
	dequeue  Dequeuer

	// Registry lock guards only the map; it is never held across a
	// network send or a storage call.
	mu      sync.Mutex
	matches map[model.MatchID]*entry
}

// NewEngine creates a new match Engine
func NewEngine(
	store storage.Storage,
	dir *presence.Directory,
	eloService *elo.Service,
	clk clock.Clock,
	rnd random.Random,
	cfg Config,
	logger *slog.Logger,
) *Engine {
	if cfg.DefaultTurnLimit == 0 {
		cfg.DefaultTurnLimit = DefaultConfig().DefaultTurnLimit
	}
	return &Engine{
		storage:  store,
		presence: dir,
		elo:      eloService,
		clock:    clk,
		random:   rnd,
		logger:   logger,
		cfg:      cfg,
		matches:  make(map[model.MatchID]*entry),
	}
}

// SetDequeuer wires the matchmaking queue in after construction. The
// queue is built with the engine as its pairer, so this side of the
// link cannot be a constructor argument.
func (e *Engine) SetDequeuer(d Dequeuer) {
	e.dequeue = d
}

// notification is one outbound message, flushed after locks are
// released so no send ever happens under a match or registry lock.
type notification struct {
	to      model.UserID
	msgType protocol.MsgType
	payload []byte
}

func (e *Engine) flush(out []notification) {
	for _, n := range out {
		e.presence.SendTo(n.to, n.msgType, n.payload)
	}
}

// CreateMatch allocates a match id, persists a waiting record, flips
// both players to in-game, and notifies both connections. This is the
// only path by which a match enters the registry, and it always
// enters awaiting placement.
func (e *Engine) CreateMatch(ctx context.Context, p1, p2 model.UserID, turnLimit time.Duration) (*model.Match, error) {
	if turnLimit <= 0 {
		turnLimit = e.cfg.DefaultTurnLimit
	}

	// A player entering a match through a challenge or rematch may
	// still be sitting in the queue. Pull both out so the sweep never
	// pairs an in-game player into a second match.
	if e.dequeue != nil {
		for _, playerID := range []model.UserID{p1, p2} {
			if err := e.dequeue.Leave(playerID); err != nil && !errors.Is(err, model.ErrNotQueued) {
				e.logger.Warn("failed to dequeue player for match",
					slog.String("user_id", string(playerID)),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	now := e.clock.Now()
	m := &model.Match{
		ID:            model.MatchID(uuid.NewString()),
		Players:       [2]model.UserID{p1, p2},
		Boards:        make(map[model.UserID]*model.Board),
		TurnTimeLimit: turnLimit,
		Status:        model.MatchAwaitingPlacement,
		CreatedAt:     now,
	}

	record := &model.MatchRecord{
		ID:        m.ID,
		Player1:   p1,
		Player2:   p2,
		Status:    model.MatchAwaitingPlacement,
		CreatedAt: now,
	}
	if err := e.storage.CreateMatch(ctx, record); err != nil {
		e.logger.Error("failed to persist match record",
			slog.String("match_id", string(m.ID)),
			slog.String("error", err.Error()),
		)
	}

	e.mu.Lock()
	e.matches[m.ID] = &entry{
		match:      m,
		placements: make(map[model.UserID][]model.Ship),
	}
	e.mu.Unlock()

	e.presence.SetStatus(p1, model.StatusInGame)
	e.presence.SetStatus(p2, model.StatusInGame)

	var out []notification
	for _, pair := range [][2]model.UserID{{p1, p2}, {p2, p1}} {
		self, opp := pair[0], pair[1]
		start := protocol.MatchStart{
			MatchID:       m.ID,
			OpponentID:    opp,
			TurnLimitSecs: uint32(turnLimit / time.Second),
		}
		if user, err := e.storage.GetUserByID(ctx, opp); err == nil {
			start.OpponentName = user.Username
			start.OpponentElo = uint32(user.Elo)
		}
		out = append(out, notification{to: self, msgType: protocol.MsgMatchStart, payload: start.Marshal()})
	}
	e.flush(out)

	e.logger.Info("match created",
		slog.String("match_id", string(m.ID)),
		slog.String("player1", string(p1)),
		slog.String("player2", string(p2)),
	)
	return m, nil
}

// StartQueuedMatch adapts a matchmaking pairing into a match. The
// earlier joiner's requested turn limit wins.
func (e *Engine) StartQueuedMatch(a, b model.QueueEntry) {
	turnLimit := a.TurnTimeLimit
	if b.JoinedAt.Before(a.JoinedAt) {
		turnLimit = b.TurnTimeLimit
	}
	_, _ = e.CreateMatch(context.Background(), a.UserID, b.UserID, turnLimit)
}

// Get returns the live match for an id, if it is still in the
// registry. Ended matches are removed immediately, so a hit means the
// match has not reached a terminal state at the time of lookup.
func (e *Engine) Get(matchID model.MatchID) (*model.Match, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.matches[matchID]
	if !ok {
		return nil, false
	}
	return ent.match, true
}

func (e *Engine) lookup(matchID model.MatchID) (*entry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.matches[matchID]
	return ent, ok
}

func (e *Engine) remove(matchID model.MatchID) {
	e.mu.Lock()
	delete(e.matches, matchID)
	e.mu.Unlock()
}

// SubmitPlacement validates and stores one player's fleet. When both
// players are ready the match goes active with a random first turn.
// The submitting player always receives a placement ack; on rejection
// nothing else changes.
func (e *Engine) SubmitPlacement(ctx context.Context, matchID model.MatchID, userID model.UserID, ships []model.Ship) error {
	ent, ok := e.lookup(matchID)
	if !ok {
		return model.ErrMatchNotFound
	}

	var out []notification
	defer func() { e.flush(out) }()

	ent.mu.Lock()
	defer ent.mu.Unlock()

	m := ent.match
	if m.Ended() {
		return model.ErrMatchEnded
	}
	if !m.HasPlayer(userID) {
		return model.ErrNotParticipant
	}
	if m.Status != model.MatchAwaitingPlacement {
		return model.ErrMatchNotActive
	}
	if _, done := ent.placements[userID]; done {
		return model.ErrAlreadyPlaced
	}

	if err := model.ValidatePlacement(ships); err != nil {
		out = append(out, notification{
			to:      userID,
			msgType: protocol.MsgPlacementAck,
			payload: (&protocol.PlacementAck{MatchID: matchID, Message: "invalid ship placement"}).Marshal(),
		})
		return err
	}

	if err := e.storage.SaveShipPlacement(ctx, matchID, userID, ships); err != nil {
		e.logger.Error("failed to persist placement",
			slog.String("match_id", string(matchID)),
			slog.String("error", err.Error()),
		)
	}
	ent.placements[userID] = ships

	out = append(out, notification{
		to:      userID,
		msgType: protocol.MsgPlacementAck,
		payload: (&protocol.PlacementAck{MatchID: matchID, Accepted: true, Message: "placement accepted"}).Marshal(),
	})

	if len(ent.placements) < 2 {
		return nil
	}

	// Both fleets in: activate.
	for _, playerID := range m.Players {
		board, err := model.NewBoard(ent.placements[playerID])
		if err != nil {
			// Placements were validated on submission.
			return err
		}
		m.Boards[playerID] = board
	}

	m.Status = model.MatchActive
	m.CurrentTurn = m.Players[e.random.Intn(2)]
	m.TurnNumber = 1
	m.TurnStartedAt = e.clock.Now()

	if err := e.storage.UpdateMatchStatus(ctx, matchID, model.MatchActive); err != nil {
		e.logger.Error("failed to persist match activation",
			slog.String("match_id", string(matchID)),
			slog.String("error", err.Error()),
		)
	}

	state := (&protocol.MatchState{
		MatchID:     matchID,
		Status:      protocol.StatusCode(m.Status),
		CurrentTurn: m.CurrentTurn,
		TurnNumber:  uint32(m.TurnNumber),
	}).Marshal()
	turn := e.turnUpdate(m)
	for _, playerID := range m.Players {
		out = append(out, notification{to: playerID, msgType: protocol.MsgMatchState, payload: state})
		out = append(out, notification{to: playerID, msgType: protocol.MsgTurnUpdate, payload: turn})
	}

	e.logger.Info("match active",
		slog.String("match_id", string(matchID)),
		slog.String("first_turn", string(m.CurrentTurn)),
	)
	return nil
}

// Fire resolves one shot from the current-turn player against the
// opponent's board. Miss switches the turn; hit and sunk keep it. A
// shot that sinks the last ship ends the match in the same step.
func (e *Engine) Fire(ctx context.Context, matchID model.MatchID, shooter model.UserID, row, col int) error {
	ent, ok := e.lookup(matchID)
	if !ok {
		return model.ErrMatchNotFound
	}

	var out []notification
	defer func() { e.flush(out) }()

	ent.mu.Lock()
	defer ent.mu.Unlock()

	m := ent.match
	if m.Ended() {
		return model.ErrMatchEnded
	}
	if m.Status != model.MatchActive {
		return model.ErrMatchNotActive
	}
	if !m.HasPlayer(shooter) {
		return model.ErrNotParticipant
	}
	if m.CurrentTurn != shooter {
		return model.ErrNotPlayerTurn
	}

	opponent := m.Opponent(shooter)
	board := m.Boards[opponent]

	result, err := board.ApplyShot(row, col)
	if err != nil {
		// Rejection goes to the shooter only; the opponent never
		// learns an invalid shot was attempted.
		out = append(out, notification{
			to:      shooter,
			msgType: protocol.MsgMoveResult,
			payload: (&protocol.MoveResult{
				MatchID:    matchID,
				Shooter:    shooter,
				Row:        uint8(row),
				Col:        uint8(col),
				Result:     model.ShotInvalid,
				TurnNumber: uint32(m.TurnNumber),
			}).Marshal(),
		})
		return err
	}

	// A resolved shot supersedes any draw offer on the table.
	ent.drawOffered = ""

	move := model.Move{
		MatchID:  matchID,
		Turn:     m.TurnNumber,
		Shooter:  shooter,
		Row:      row,
		Col:      col,
		Result:   result,
		PlayedAt: e.clock.Now(),
	}
	m.Moves = append(m.Moves, move)
	if err := e.storage.SaveMove(ctx, &move); err != nil {
		e.logger.Error("failed to persist move",
			slog.String("match_id", string(matchID)),
			slog.String("error", err.Error()),
		)
	}

	moveResult := (&protocol.MoveResult{
		MatchID:        matchID,
		Shooter:        shooter,
		Row:            uint8(row),
		Col:            uint8(col),
		Result:         result,
		TurnNumber:     uint32(move.Turn),
		ShipsRemaining: uint8(board.RemainingShips()),
	}).Marshal()
	for _, playerID := range m.Players {
		out = append(out, notification{to: playerID, msgType: protocol.MsgMoveResult, payload: moveResult})
	}

	if board.AllSunk() {
		out = append(out, e.endLocked(ctx, m, shooter, model.EndReasonAllSunk)...)
		return nil
	}

	if result == model.ShotMiss {
		e.switchTurnLocked(m)
	}

	turn := e.turnUpdate(m)
	for _, playerID := range m.Players {
		out = append(out, notification{to: playerID, msgType: protocol.MsgTurnUpdate, payload: turn})
	}
	return nil
}

// Timeout switches the turn after the current turn's time limit has
// elapsed. Only the player holding the turn may claim it, and the
// elapsed time is re-validated against the server clock.
func (e *Engine) Timeout(ctx context.Context, matchID model.MatchID, claimer model.UserID) error {
	ent, ok := e.lookup(matchID)
	if !ok {
		return model.ErrMatchNotFound
	}

	var out []notification
	defer func() { e.flush(out) }()

	ent.mu.Lock()
	defer ent.mu.Unlock()

	m := ent.match
	if m.Ended() {
		return model.ErrMatchEnded
	}
	if m.Status != model.MatchActive {
		return model.ErrMatchNotActive
	}
	if m.CurrentTurn != claimer {
		return model.ErrNotPlayerTurn
	}
	if e.clock.Now().Sub(m.TurnStartedAt) < m.TurnTimeLimit {
		return model.ErrTurnNotExpired
	}

	e.switchTurnLocked(m)

	turn := e.turnUpdate(m)
	for _, playerID := range m.Players {
		out = append(out, notification{to: playerID, msgType: protocol.MsgTurnUpdate, payload: turn})
	}
	return nil
}

// Resign ends the match immediately with the other player as winner.
func (e *Engine) Resign(ctx context.Context, matchID model.MatchID, userID model.UserID) error {
	ent, ok := e.lookup(matchID)
	if !ok {
		return model.ErrMatchNotFound
	}

	var out []notification
	defer func() { e.flush(out) }()

	ent.mu.Lock()
	defer ent.mu.Unlock()

	m := ent.match
	if m.Ended() {
		return model.ErrMatchEnded
	}
	if !m.HasPlayer(userID) {
		return model.ErrNotParticipant
	}

	out = e.endLocked(ctx, m, m.Opponent(userID), model.EndReasonResign)
	return nil
}

// OfferDraw records the offer against the match and forwards it to
// the opponent. Only the recorded offer can later be accepted.
func (e *Engine) OfferDraw(matchID model.MatchID, from model.UserID) error {
	ent, ok := e.lookup(matchID)
	if !ok {
		return model.ErrMatchNotFound
	}

	ent.mu.Lock()
	m := ent.match
	valid := !m.Ended() && m.HasPlayer(from)
	opponent := m.Opponent(from)
	if valid {
		ent.drawOffered = from
	}
	ent.mu.Unlock()

	if !valid {
		return model.ErrNotParticipant
	}

	e.presence.SendTo(opponent, protocol.MsgDrawOffer, (&protocol.MatchRef{MatchID: matchID}).Marshal())
	return nil
}

// RespondDraw resolves an outstanding draw offer: accept ends the
// match with no winner; decline is forwarded back to the offerer.
// Only the offeree may respond, and only while the offer stands.
func (e *Engine) RespondDraw(ctx context.Context, matchID model.MatchID, from model.UserID, accepted bool) error {
	ent, ok := e.lookup(matchID)
	if !ok {
		return model.ErrMatchNotFound
	}

	var out []notification
	defer func() { e.flush(out) }()

	ent.mu.Lock()
	defer ent.mu.Unlock()

	m := ent.match
	if m.Ended() {
		return model.ErrMatchEnded
	}
	if !m.HasPlayer(from) {
		return model.ErrNotParticipant
	}
	if ent.drawOffered == "" || ent.drawOffered != m.Opponent(from) {
		return model.ErrNoDrawOffer
	}
	ent.drawOffered = ""

	if !accepted {
		out = append(out, notification{
			to:      m.Opponent(from),
			msgType: protocol.MsgDrawResponse,
			payload: (&protocol.MatchResponse{MatchID: matchID}).Marshal(),
		})
		return nil
	}

	out = e.endLocked(ctx, m, "", model.EndReasonDraw)
	return nil
}

// RequestPause forwards a pause request to the opponent.
func (e *Engine) RequestPause(matchID model.MatchID, from model.UserID) error {
	ent, ok := e.lookup(matchID)
	if !ok {
		return model.ErrMatchNotFound
	}

	ent.mu.Lock()
	m := ent.match
	valid := !m.Ended() && m.HasPlayer(from)
	opponent := m.Opponent(from)
	ent.mu.Unlock()

	if !valid {
		return model.ErrNotParticipant
	}

	e.presence.SendTo(opponent, protocol.MsgPauseRequest, (&protocol.MatchRef{MatchID: matchID}).Marshal())
	return nil
}

// RespondPause toggles the pause flag on acceptance. Pausing is just
// the flag flip for now; paused matches reject moves until resumed.
func (e *Engine) RespondPause(matchID model.MatchID, from model.UserID, accepted bool) error {
	ent, ok := e.lookup(matchID)
	if !ok {
		return model.ErrMatchNotFound
	}

	var out []notification
	defer func() { e.flush(out) }()

	ent.mu.Lock()
	defer ent.mu.Unlock()

	m := ent.match
	if m.Ended() {
		return model.ErrMatchEnded
	}
	if !m.HasPlayer(from) {
		return model.ErrNotParticipant
	}

	if accepted {
		switch m.Status {
		case model.MatchActive:
			m.Status = model.MatchPaused
		case model.MatchPaused:
			m.Status = model.MatchActive
			m.TurnStartedAt = e.clock.Now()
		}
	}

	resp := (&protocol.MatchResponse{MatchID: matchID, Accepted: accepted}).Marshal()
	out = append(out, notification{to: m.Opponent(from), msgType: protocol.MsgPauseResponse, payload: resp})
	return nil
}

// Chat relays an in-match message to the sender's opponent.
func (e *Engine) Chat(matchID model.MatchID, from model.UserID, text string) error {
	ent, ok := e.lookup(matchID)
	if !ok {
		return model.ErrMatchNotFound
	}

	ent.mu.Lock()
	m := ent.match
	valid := !m.Ended() && m.HasPlayer(from)
	opponent := m.Opponent(from)
	ent.mu.Unlock()

	if !valid {
		return model.ErrNotParticipant
	}

	relay := (&protocol.Chat{MatchID: matchID, From: from, Text: text}).Marshal()
	e.presence.SendTo(opponent, protocol.MsgChat, relay)
	return nil
}

// RequestRematch forwards a rematch request to a recent opponent. It
// is valid only while the opponent is online and available.
func (e *Engine) RequestRematch(from, opponent model.UserID, turnLimit time.Duration) error {
	if !e.presence.IsOnline(opponent) || e.presence.Status(opponent) != model.StatusAvailable {
		return model.ErrOpponentUnavailable
	}

	req := (&protocol.RematchRequest{
		OpponentID:    from,
		TurnLimitSecs: uint32(turnLimit / time.Second),
	}).Marshal()
	e.presence.SendTo(opponent, protocol.MsgRematchRequest, req)
	return nil
}

// AcceptRematch spins up a brand-new match pipeline between the two
// players, independent of the original match.
func (e *Engine) AcceptRematch(ctx context.Context, accepter, challenger model.UserID, turnLimit time.Duration) error {
	if !e.presence.IsOnline(challenger) || e.presence.Status(challenger) != model.StatusAvailable {
		return model.ErrOpponentUnavailable
	}
	_, err := e.CreateMatch(ctx, challenger, accepter, turnLimit)
	return err
}

// HandleDisconnect force-ends every match containing the given user,
// with the remaining player declared winner. This is the only path
// that resolves a match whose next move can never arrive.
func (e *Engine) HandleDisconnect(ctx context.Context, userID model.UserID) {
	e.mu.Lock()
	var affected []*entry
	for _, ent := range e.matches {
		if ent.match.HasPlayer(userID) {
			affected = append(affected, ent)
		}
	}
	e.mu.Unlock()

	for _, ent := range affected {
		ent.mu.Lock()
		m := ent.match
		if m.Ended() {
			ent.mu.Unlock()
			continue
		}
		out := e.endLocked(ctx, m, m.Opponent(userID), model.EndReasonDisconnect)
		ent.mu.Unlock()
		e.flush(out)
	}
}

// ActiveCount returns the number of matches in the registry.
func (e *Engine) ActiveCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.matches)
}

// switchTurnLocked advances the turn to the opponent. Caller holds
// the entry lock.
func (e *Engine) switchTurnLocked(m *model.Match) {
	m.CurrentTurn = m.Opponent(m.CurrentTurn)
	m.TurnNumber++
	m.TurnStartedAt = e.clock.Now()
}

func (e *Engine) turnUpdate(m *model.Match) []byte {
	return (&protocol.TurnUpdate{
		MatchID:       m.ID,
		CurrentTurn:   m.CurrentTurn,
		TurnNumber:    uint32(m.TurnNumber),
		TurnLimitSecs: uint32(m.TurnTimeLimit / time.Second),
	}).Marshal()
}

// endLocked performs the terminal transition: ratings, presence,
// durable record, registry removal, and the definitive match-end
// notifications. Caller holds the entry lock; the returned
// notifications must be flushed after it is released. After this a
// match can never be resurrected: the registry entry is gone and
// every later operation on the id is a no-op.
func (e *Engine) endLocked(ctx context.Context, m *model.Match, winner model.UserID, reason string) []notification {
	now := e.clock.Now()
	m.Status = model.MatchEnded
	m.Result = &model.MatchResult{Winner: winner, Reason: reason}

	e.remove(m.ID)

	p1, p2 := m.Players[0], m.Players[1]
	deltas := map[model.UserID]int{}
	newElos := map[model.UserID]int{}

	u1, err1 := e.storage.GetUserByID(ctx, p1)
	u2, err2 := e.storage.GetUserByID(ctx, p2)
	if err1 == nil && err2 == nil {
		var new1, new2 int
		switch winner {
		case "":
			new1, new2 = e.elo.Draw(u1.Elo, u2.Elo)
			_ = e.recordResult(ctx, p1, 0, 0, 1)
			_ = e.recordResult(ctx, p2, 0, 0, 1)
		case p1:
			new1, new2 = e.elo.Update(u1.Elo, u2.Elo)
			_ = e.recordResult(ctx, p1, 1, 0, 0)
			_ = e.recordResult(ctx, p2, 0, 1, 0)
		default:
			new2, new1 = e.elo.Update(u2.Elo, u1.Elo)
			_ = e.recordResult(ctx, p2, 1, 0, 0)
			_ = e.recordResult(ctx, p1, 0, 1, 0)
		}

		deltas[p1], deltas[p2] = new1-u1.Elo, new2-u2.Elo
		newElos[p1], newElos[p2] = new1, new2

		for id, rating := range newElos {
			if err := e.storage.UpdateEloRating(ctx, id, rating); err != nil {
				e.logger.Error("failed to persist rating",
					slog.String("user_id", string(id)),
					slog.String("error", err.Error()),
				)
			}
			e.presence.SetElo(id, rating)
		}
	} else {
		e.logger.Error("failed to load players for rating update",
			slog.String("match_id", string(m.ID)),
		)
	}

	record := &model.MatchRecord{
		ID:        m.ID,
		Player1:   p1,
		Player2:   p2,
		Status:    model.MatchEnded,
		Winner:    winner,
		Reason:    reason,
		MoveCount: len(m.Moves),
		CreatedAt: m.CreatedAt,
		EndedAt:   now,
	}
	if err := e.storage.EndMatch(ctx, record); err != nil {
		e.logger.Error("failed to persist match end",
			slog.String("match_id", string(m.ID)),
			slog.String("error", err.Error()),
		)
	}

	e.presence.SetStatus(p1, model.StatusAvailable)
	e.presence.SetStatus(p2, model.StatusAvailable)

	var out []notification
	for _, playerID := range m.Players {
		end := protocol.MatchEnd{
			MatchID: m.ID,
			Winner:  winner,
			Reason:  reason,
		}
		if rating, ok := newElos[playerID]; ok {
			end.EloDelta = int32(deltas[playerID])
			end.NewElo = uint32(rating)
		}
		out = append(out, notification{to: playerID, msgType: protocol.MsgMatchEnd, payload: end.Marshal()})
	}

	e.logger.Info("match ended",
		slog.String("match_id", string(m.ID)),
		slog.String("winner", string(winner)),
		slog.String("reason", reason),
		slog.Int("moves", len(m.Moves)),
		slog.Duration("duration", now.Sub(m.CreatedAt)),
	)
	return out
}

func (e *Engine) recordResult(ctx context.Context, id model.UserID, wins, losses, draws int) error {
	if err := e.storage.RecordResult(ctx, id, wins, losses, draws); err != nil {
		e.logger.Error("failed to persist result tally",
			slog.String("user_id", string(id)),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}
