package match

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/harborline/broadside/internal/dependencies/mocks"
	"github.com/harborline/broadside/internal/model"
	"github.com/harborline/broadside/internal/protocol"
	"github.com/harborline/broadside/internal/services/elo"
	"github.com/harborline/broadside/internal/services/matchmaking"
	"github.com/harborline/broadside/internal/services/presence"
	"github.com/harborline/broadside/internal/storage/memory"
	"github.com/harborline/broadside/internal/testutil"
)

type sentMsg struct {
	msgType protocol.MsgType
	payload []byte
}

type fakeConn struct {
	mu   sync.Mutex
	msgs []sentMsg
}

func (c *fakeConn) Send(msgType protocol.MsgType, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, sentMsg{msgType: msgType, payload: payload})
	return nil
}

func (c *fakeConn) received(msgType protocol.MsgType) []sentMsg {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []sentMsg
	for _, m := range c.msgs {
		if m.msgType == msgType {
			out = append(out, m)
		}
	}
	return out
}

func (c *fakeConn) last(msgType protocol.MsgType) (sentMsg, bool) {
	msgs := c.received(msgType)
	if len(msgs) == 0 {
		return sentMsg{}, false
	}
	return msgs[len(msgs)-1], true
}

type EngineSuite struct {
	suite.Suite

	ctx     context.Context
	storage *memory.Storage
	dir     *presence.Directory
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	engine  *Engine

	p1, p2       model.UserID
	conn1, conn2 *fakeConn
	baseTime     time.Time
	turnLimit    time.Duration
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctx = context.Background()
	s.storage = memory.New()
	s.dir = presence.New(testutil.NopLogger())
	s.baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.clock = mocks.NewMockClock(s.baseTime)
	s.random = mocks.NewMockRandom()
	s.turnLimit = 60 * time.Second
	s.engine = NewEngine(
		s.storage,
		s.dir,
		elo.New(elo.DefaultConfig()),
		s.clock,
		s.random,
		DefaultConfig(),
		testutil.NopLogger(),
	)

	s.p1 = "11111111-1111-1111-1111-111111111111"
	s.p2 = "22222222-2222-2222-2222-222222222222"
	s.Require().NoError(s.storage.CreateUser(s.ctx, &model.User{ID: s.p1, Username: "anchorage", Elo: model.DefaultElo}))
	s.Require().NoError(s.storage.CreateUser(s.ctx, &model.User{ID: s.p2, Username: "broadside", Elo: model.DefaultElo}))

	s.conn1 = &fakeConn{}
	s.conn2 = &fakeConn{}
	s.dir.Register(s.p1, "anchorage", model.DefaultElo, s.conn1)
	s.dir.Register(s.p2, "broadside", model.DefaultElo, s.conn2)
}

// fleet places one of each ship horizontally on even rows, so every
// ship cell sits in rows 0,2,4,6,8 starting at column 0.
func fleet() []model.Ship {
	return []model.Ship{
		{Type: model.ShipCarrier, Row: 0, Col: 0, Horizontal: true},
		{Type: model.ShipBattleship, Row: 2, Col: 0, Horizontal: true},
		{Type: model.ShipCruiser, Row: 4, Col: 0, Horizontal: true},
		{Type: model.ShipSubmarine, Row: 6, Col: 0, Horizontal: true},
		{Type: model.ShipDestroyer, Row: 8, Col: 0, Horizontal: true},
	}
}

// startActiveMatch creates a match and plays both placements through,
// with the first turn forced to p1.
func (s *EngineSuite) startActiveMatch() *model.Match {
	m, err := s.engine.CreateMatch(s.ctx, s.p1, s.p2, s.turnLimit)
	s.Require().NoError(err)

	s.random.QueueIntn(0)
	s.Require().NoError(s.engine.SubmitPlacement(s.ctx, m.ID, s.p1, fleet()))
	s.Require().NoError(s.engine.SubmitPlacement(s.ctx, m.ID, s.p2, fleet()))

	live, ok := s.engine.Get(m.ID)
	s.Require().True(ok)
	s.Require().Equal(model.MatchActive, live.Status)
	s.Require().Equal(s.p1, live.CurrentTurn)
	return live
}

func (s *EngineSuite) TestCreateMatchNotifiesBothPlayers() {
	m, err := s.engine.CreateMatch(s.ctx, s.p1, s.p2, s.turnLimit)
	s.Require().NoError(err)

	msg1, ok := s.conn1.last(protocol.MsgMatchStart)
	s.Require().True(ok)
	var start protocol.MatchStart
	s.Require().NoError(start.Unmarshal(msg1.payload))
	s.Equal(m.ID, start.MatchID)
	s.Equal(s.p2, start.OpponentID)
	s.Equal("broadside", start.OpponentName)
	s.Equal(uint32(60), start.TurnLimitSecs)

	_, ok = s.conn2.last(protocol.MsgMatchStart)
	s.True(ok)

	s.Equal(model.StatusInGame, s.dir.Status(s.p1))
	s.Equal(model.StatusInGame, s.dir.Status(s.p2))

	record, err := s.storage.GetMatchByID(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Equal(model.MatchAwaitingPlacement, record.Status)
}

func (s *EngineSuite) TestInvalidPlacementRejected() {
	m, err := s.engine.CreateMatch(s.ctx, s.p1, s.p2, s.turnLimit)
	s.Require().NoError(err)

	bad := fleet()
	bad[1].Row = 0 // overlaps the carrier
	err = s.engine.SubmitPlacement(s.ctx, m.ID, s.p1, bad)
	s.Require().ErrorIs(err, model.ErrInvalidPlacement)

	msg, ok := s.conn1.last(protocol.MsgPlacementAck)
	s.Require().True(ok)
	var ack protocol.PlacementAck
	s.Require().NoError(ack.Unmarshal(msg.payload))
	s.False(ack.Accepted)

	// A rejected fleet can be resubmitted.
	s.Require().NoError(s.engine.SubmitPlacement(s.ctx, m.ID, s.p1, fleet()))
}

func (s *EngineSuite) TestSecondPlacementActivatesMatch() {
	m, err := s.engine.CreateMatch(s.ctx, s.p1, s.p2, s.turnLimit)
	s.Require().NoError(err)

	s.random.QueueIntn(1)
	s.Require().NoError(s.engine.SubmitPlacement(s.ctx, m.ID, s.p1, fleet()))

	live, ok := s.engine.Get(m.ID)
	s.Require().True(ok)
	s.Equal(model.MatchAwaitingPlacement, live.Status)

	s.Require().NoError(s.engine.SubmitPlacement(s.ctx, m.ID, s.p2, fleet()))
	s.Equal(model.MatchActive, live.Status)
	s.Equal(s.p2, live.CurrentTurn)
	s.Equal(1, live.TurnNumber)

	for _, conn := range []*fakeConn{s.conn1, s.conn2} {
		_, ok := conn.last(protocol.MsgMatchState)
		s.True(ok)
		msg, ok := conn.last(protocol.MsgTurnUpdate)
		s.Require().True(ok)
		var turn protocol.TurnUpdate
		s.Require().NoError(turn.Unmarshal(msg.payload))
		s.Equal(s.p2, turn.CurrentTurn)
		s.Equal(uint32(1), turn.TurnNumber)
	}

	err = s.engine.SubmitPlacement(s.ctx, m.ID, s.p1, fleet())
	s.ErrorIs(err, model.ErrMatchNotActive)
}

func (s *EngineSuite) TestDuplicatePlacementRejected() {
	m, err := s.engine.CreateMatch(s.ctx, s.p1, s.p2, s.turnLimit)
	s.Require().NoError(err)

	s.Require().NoError(s.engine.SubmitPlacement(s.ctx, m.ID, s.p1, fleet()))
	err = s.engine.SubmitPlacement(s.ctx, m.ID, s.p1, fleet())
	s.ErrorIs(err, model.ErrAlreadyPlaced)
}

func (s *EngineSuite) TestFireOutOfTurnRejected() {
	m := s.startActiveMatch()

	err := s.engine.Fire(s.ctx, m.ID, s.p2, 9, 9)
	s.ErrorIs(err, model.ErrNotPlayerTurn)
}

func (s *EngineSuite) TestFireBeforeActivationRejected() {
	m, err := s.engine.CreateMatch(s.ctx, s.p1, s.p2, s.turnLimit)
	s.Require().NoError(err)

	err = s.engine.Fire(s.ctx, m.ID, s.p1, 0, 0)
	s.ErrorIs(err, model.ErrMatchNotActive)
}

func (s *EngineSuite) TestMissSwitchesTurn() {
	m := s.startActiveMatch()

	s.clock.Advance(5 * time.Second)
	s.Require().NoError(s.engine.Fire(s.ctx, m.ID, s.p1, 9, 9))

	s.Equal(s.p2, m.CurrentTurn)
	s.Equal(2, m.TurnNumber)
	s.Equal(s.baseTime.Add(5*time.Second), m.TurnStartedAt)

	msg, ok := s.conn2.last(protocol.MsgMoveResult)
	s.Require().True(ok)
	var result protocol.MoveResult
	s.Require().NoError(result.Unmarshal(msg.payload))
	s.Equal(s.p1, result.Shooter)
	s.Equal(model.ShotMiss, result.Result)
	s.Equal(uint8(model.ShipTypeCount), result.ShipsRemaining)

	moves, err := s.storage.GetMatchMoves(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Require().Len(moves, 1)
	s.Equal(1, moves[0].Turn)
}

func (s *EngineSuite) TestHitRetainsTurn() {
	m := s.startActiveMatch()

	s.Require().NoError(s.engine.Fire(s.ctx, m.ID, s.p1, 0, 0))

	s.Equal(s.p1, m.CurrentTurn)
	s.Equal(1, m.TurnNumber)

	msg, ok := s.conn1.last(protocol.MsgMoveResult)
	s.Require().True(ok)
	var result protocol.MoveResult
	s.Require().NoError(result.Unmarshal(msg.payload))
	s.Equal(model.ShotHit, result.Result)
}

func (s *EngineSuite) TestSinkingShipKeepsTurn() {
	m := s.startActiveMatch()

	// The destroyer occupies (8,0) and (8,1); the second hit sinks it.
	s.Require().NoError(s.engine.Fire(s.ctx, m.ID, s.p1, 8, 0))
	s.Require().NoError(s.engine.Fire(s.ctx, m.ID, s.p1, 8, 1))

	s.Equal(s.p1, m.CurrentTurn)

	msg, ok := s.conn1.last(protocol.MsgMoveResult)
	s.Require().True(ok)
	var result protocol.MoveResult
	s.Require().NoError(result.Unmarshal(msg.payload))
	s.Equal(model.ShotSunk, result.Result)
	s.Equal(uint8(model.ShipTypeCount-1), result.ShipsRemaining)
}

func (s *EngineSuite) TestRepeatShotRejected() {
	m := s.startActiveMatch()

	s.Require().NoError(s.engine.Fire(s.ctx, m.ID, s.p1, 0, 0))
	err := s.engine.Fire(s.ctx, m.ID, s.p1, 0, 0)
	s.ErrorIs(err, model.ErrCellAlreadyShot)

	msg, ok := s.conn1.last(protocol.MsgMoveResult)
	s.Require().True(ok)
	var result protocol.MoveResult
	s.Require().NoError(result.Unmarshal(msg.payload))
	s.Equal(model.ShotInvalid, result.Result)

	// The rejection reaches the shooter only; the turn does not move.
	s.Len(s.conn2.received(protocol.MsgMoveResult), 1)
	s.Equal(s.p1, m.CurrentTurn)
}

func (s *EngineSuite) TestOutOfRangeShotRejected() {
	m := s.startActiveMatch()

	err := s.engine.Fire(s.ctx, m.ID, s.p1, 10, 0)
	s.ErrorIs(err, model.ErrInvalidTarget)

	msg, ok := s.conn1.last(protocol.MsgMoveResult)
	s.Require().True(ok)
	var result protocol.MoveResult
	s.Require().NoError(result.Unmarshal(msg.payload))
	s.Equal(model.ShotInvalid, result.Result)
	s.Equal(uint8(10), result.Row)

	s.Empty(s.conn2.received(protocol.MsgMoveResult))
	s.Equal(s.p1, m.CurrentTurn)
}

func (s *EngineSuite) TestSinkingLastShipEndsMatch() {
	m := s.startActiveMatch()
	matchID := m.ID

	// Every hit retains the turn, so p1 can sweep the whole fleet.
	for _, ship := range fleet() {
		for i := 0; i < ship.Type.Length(); i++ {
			s.Require().NoError(s.engine.Fire(s.ctx, matchID, s.p1, ship.Row, ship.Col+i))
		}
	}

	s.Equal(0, s.engine.ActiveCount())

	msg, ok := s.conn1.last(protocol.MsgMatchEnd)
	s.Require().True(ok)
	var end protocol.MatchEnd
	s.Require().NoError(end.Unmarshal(msg.payload))
	s.Equal(s.p1, end.Winner)
	s.Equal(model.EndReasonAllSunk, end.Reason)
	s.Equal(int32(16), end.EloDelta)
	s.Equal(uint32(1216), end.NewElo)

	msg, ok = s.conn2.last(protocol.MsgMatchEnd)
	s.Require().True(ok)
	s.Require().NoError(end.Unmarshal(msg.payload))
	s.Equal(int32(-16), end.EloDelta)
	s.Equal(uint32(1184), end.NewElo)

	winner, err := s.storage.GetUserByID(s.ctx, s.p1)
	s.Require().NoError(err)
	s.Equal(1216, winner.Elo)
	s.Equal(1, winner.Wins)

	loser, err := s.storage.GetUserByID(s.ctx, s.p2)
	s.Require().NoError(err)
	s.Equal(1184, loser.Elo)
	s.Equal(1, loser.Losses)

	record, err := s.storage.GetMatchByID(s.ctx, matchID)
	s.Require().NoError(err)
	s.Equal(model.MatchEnded, record.Status)
	s.Equal(s.p1, record.Winner)
	s.Equal(17, record.MoveCount)

	s.Equal(model.StatusAvailable, s.dir.Status(s.p1))
	s.Equal(model.StatusAvailable, s.dir.Status(s.p2))

	// The id is gone from the registry, so late moves are no-ops.
	err = s.engine.Fire(s.ctx, matchID, s.p2, 9, 9)
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *EngineSuite) TestTimeoutBeforeLimitRejected() {
	m := s.startActiveMatch()

	s.clock.Advance(30 * time.Second)
	err := s.engine.Timeout(s.ctx, m.ID, s.p1)
	s.ErrorIs(err, model.ErrTurnNotExpired)
	s.Equal(s.p1, m.CurrentTurn)
}

func (s *EngineSuite) TestTimeoutSwitchesTurnWithoutEnding() {
	m := s.startActiveMatch()

	s.clock.Advance(61 * time.Second)
	s.Require().NoError(s.engine.Timeout(s.ctx, m.ID, s.p1))

	s.Equal(s.p2, m.CurrentTurn)
	s.Equal(2, m.TurnNumber)
	s.Equal(model.MatchActive, m.Status)

	msg, ok := s.conn2.last(protocol.MsgTurnUpdate)
	s.Require().True(ok)
	var turn protocol.TurnUpdate
	s.Require().NoError(turn.Unmarshal(msg.payload))
	s.Equal(s.p2, turn.CurrentTurn)
}

func (s *EngineSuite) TestTimeoutByNonTurnHolderRejected() {
	m := s.startActiveMatch()

	s.clock.Advance(61 * time.Second)
	err := s.engine.Timeout(s.ctx, m.ID, s.p2)
	s.ErrorIs(err, model.ErrNotPlayerTurn)
}

func (s *EngineSuite) TestResignAwardsOpponent() {
	m := s.startActiveMatch()

	s.Require().NoError(s.engine.Resign(s.ctx, m.ID, s.p2))

	record, err := s.storage.GetMatchByID(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Equal(s.p1, record.Winner)
	s.Equal(model.EndReasonResign, record.Reason)
	s.Equal(0, s.engine.ActiveCount())
}

func (s *EngineSuite) TestDrawDeclinedForwardsResponse() {
	m := s.startActiveMatch()

	s.Require().NoError(s.engine.OfferDraw(m.ID, s.p1))
	_, ok := s.conn2.last(protocol.MsgDrawOffer)
	s.True(ok)

	s.Require().NoError(s.engine.RespondDraw(s.ctx, m.ID, s.p2, false))

	msg, ok := s.conn1.last(protocol.MsgDrawResponse)
	s.Require().True(ok)
	var resp protocol.MatchResponse
	s.Require().NoError(resp.Unmarshal(msg.payload))
	s.False(resp.Accepted)
	s.Equal(model.MatchActive, m.Status)
}

func (s *EngineSuite) TestDrawAcceptedEndsWithoutWinner() {
	m := s.startActiveMatch()

	s.Require().NoError(s.engine.OfferDraw(m.ID, s.p1))
	s.Require().NoError(s.engine.RespondDraw(s.ctx, m.ID, s.p2, true))

	record, err := s.storage.GetMatchByID(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Equal(model.UserID(""), record.Winner)
	s.Equal(model.EndReasonDraw, record.Reason)

	// Equal ratings move nowhere on a draw.
	u1, err := s.storage.GetUserByID(s.ctx, s.p1)
	s.Require().NoError(err)
	s.Equal(model.DefaultElo, u1.Elo)
	s.Equal(1, u1.Draws)
}

func (s *EngineSuite) TestDrawAcceptWithoutOfferRejected() {
	m := s.startActiveMatch()

	err := s.engine.RespondDraw(s.ctx, m.ID, s.p2, true)
	s.ErrorIs(err, model.ErrNoDrawOffer)
	s.Equal(model.MatchActive, m.Status)
	s.Equal(1, s.engine.ActiveCount())

	// The offerer cannot accept their own offer either.
	s.Require().NoError(s.engine.OfferDraw(m.ID, s.p1))
	err = s.engine.RespondDraw(s.ctx, m.ID, s.p1, true)
	s.ErrorIs(err, model.ErrNoDrawOffer)
	s.Equal(model.MatchActive, m.Status)
}

func (s *EngineSuite) TestDrawOfferLapsesAfterMove() {
	m := s.startActiveMatch()

	s.Require().NoError(s.engine.OfferDraw(m.ID, s.p1))
	s.Require().NoError(s.engine.Fire(s.ctx, m.ID, s.p1, 9, 9))

	err := s.engine.RespondDraw(s.ctx, m.ID, s.p2, true)
	s.ErrorIs(err, model.ErrNoDrawOffer)
	s.Equal(model.MatchActive, m.Status)
}

func (s *EngineSuite) TestDrawDeclineConsumesOffer() {
	m := s.startActiveMatch()

	s.Require().NoError(s.engine.OfferDraw(m.ID, s.p1))
	s.Require().NoError(s.engine.RespondDraw(s.ctx, m.ID, s.p2, false))

	err := s.engine.RespondDraw(s.ctx, m.ID, s.p2, true)
	s.ErrorIs(err, model.ErrNoDrawOffer)
}

func (s *EngineSuite) TestDisconnectForfeitsMatch() {
	m := s.startActiveMatch()

	s.engine.HandleDisconnect(s.ctx, s.p2)

	record, err := s.storage.GetMatchByID(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Equal(s.p1, record.Winner)
	s.Equal(model.EndReasonDisconnect, record.Reason)
	s.Equal(0, s.engine.ActiveCount())

	msg, ok := s.conn1.last(protocol.MsgMatchEnd)
	s.Require().True(ok)
	var end protocol.MatchEnd
	s.Require().NoError(end.Unmarshal(msg.payload))
	s.Equal(s.p1, end.Winner)
}

func (s *EngineSuite) TestChatRelayedToOpponent() {
	m := s.startActiveMatch()

	s.Require().NoError(s.engine.Chat(m.ID, s.p1, "good luck"))

	msg, ok := s.conn2.last(protocol.MsgChat)
	s.Require().True(ok)
	var chat protocol.Chat
	s.Require().NoError(chat.Unmarshal(msg.payload))
	s.Equal(s.p1, chat.From)
	s.Equal("good luck", chat.Text)

	s.Empty(s.conn1.received(protocol.MsgChat))
}

func (s *EngineSuite) TestChatFromOutsiderRejected() {
	m := s.startActiveMatch()

	err := s.engine.Chat(m.ID, "99999999-9999-9999-9999-999999999999", "hi")
	s.ErrorIs(err, model.ErrNotParticipant)
}

func (s *EngineSuite) TestPauseBlocksMovesUntilResumed() {
	m := s.startActiveMatch()

	s.Require().NoError(s.engine.RequestPause(m.ID, s.p1))
	_, ok := s.conn2.last(protocol.MsgPauseRequest)
	s.True(ok)

	s.Require().NoError(s.engine.RespondPause(m.ID, s.p2, true))
	s.Equal(model.MatchPaused, m.Status)

	err := s.engine.Fire(s.ctx, m.ID, s.p1, 9, 9)
	s.ErrorIs(err, model.ErrMatchNotActive)

	s.clock.Advance(10 * time.Minute)
	s.Require().NoError(s.engine.RespondPause(m.ID, s.p2, true))
	s.Equal(model.MatchActive, m.Status)
	// The turn clock restarts on resume.
	s.Equal(s.clock.Now(), m.TurnStartedAt)
	s.Require().NoError(s.engine.Fire(s.ctx, m.ID, s.p1, 9, 9))
}

func (s *EngineSuite) TestRematchRequiresAvailableOpponent() {
	s.dir.SetStatus(s.p2, model.StatusInGame)
	err := s.engine.RequestRematch(s.p1, s.p2, s.turnLimit)
	s.ErrorIs(err, model.ErrOpponentUnavailable)

	s.dir.SetStatus(s.p2, model.StatusAvailable)
	s.Require().NoError(s.engine.RequestRematch(s.p1, s.p2, s.turnLimit))

	msg, ok := s.conn2.last(protocol.MsgRematchRequest)
	s.Require().True(ok)
	var req protocol.RematchRequest
	s.Require().NoError(req.Unmarshal(msg.payload))
	s.Equal(s.p1, req.OpponentID)
}

func (s *EngineSuite) TestAcceptRematchCreatesNewMatch() {
	s.Require().NoError(s.engine.AcceptRematch(s.ctx, s.p2, s.p1, s.turnLimit))

	s.Equal(1, s.engine.ActiveCount())
	_, ok := s.conn1.last(protocol.MsgMatchStart)
	s.True(ok)
	_, ok = s.conn2.last(protocol.MsgMatchStart)
	s.True(ok)
}

func (s *EngineSuite) TestCreateMatchRemovesPlayersFromQueue() {
	queue := matchmaking.New(s.engine, s.clock, matchmaking.DefaultConfig(), testutil.NopLogger())
	s.engine.SetDequeuer(queue)

	s.Require().NoError(queue.Join(s.p1, model.DefaultElo, s.turnLimit))
	s.Require().NoError(queue.Join(s.p2, model.DefaultElo, s.turnLimit))

	// A challenge accepted mid-queue must pull both players out, or
	// the next sweep would pair them into a second match.
	_, err := s.engine.CreateMatch(s.ctx, s.p1, s.p2, s.turnLimit)
	s.Require().NoError(err)

	s.Equal(0, queue.Len())
	s.False(queue.Status(s.p1).Queued)
	s.False(queue.Status(s.p2).Queued)
	s.Equal(1, s.engine.ActiveCount())
}

func (s *EngineSuite) TestStartQueuedMatchUsesEarlierJoinersLimit() {
	a := model.QueueEntry{UserID: s.p1, Elo: 1200, TurnTimeLimit: 30 * time.Second, JoinedAt: s.baseTime}
	b := model.QueueEntry{UserID: s.p2, Elo: 1200, TurnTimeLimit: 90 * time.Second, JoinedAt: s.baseTime.Add(10 * time.Second)}

	s.engine.StartQueuedMatch(a, b)

	msg, ok := s.conn1.last(protocol.MsgMatchStart)
	s.Require().True(ok)
	var start protocol.MatchStart
	s.Require().NoError(start.Unmarshal(msg.payload))
	s.Equal(uint32(30), start.TurnLimitSecs)

	live, found := s.engine.Get(start.MatchID)
	s.Require().True(found)
	s.Equal(model.MatchAwaitingPlacement, live.Status)
}
