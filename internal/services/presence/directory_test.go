package presence

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/harborline/broadside/internal/model"
	"github.com/harborline/broadside/internal/protocol"
	"github.com/harborline/broadside/internal/testutil"
)

// fakeConn records sent messages for assertions.
type fakeConn struct {
	sent []protocol.MsgType
}

func (c *fakeConn) Send(msgType protocol.MsgType, payload []byte) error {
	c.sent = append(c.sent, msgType)
	return nil
}

type DirectorySuite struct {
	suite.Suite
	dir *Directory
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.dir = New(testutil.NopLogger())
}

func (s *DirectorySuite) TestRegisterMakesPlayerAvailable() {
	s.dir.Register("u1", "anne", 1200, &fakeConn{})

	s.True(s.dir.IsOnline("u1"))
	s.Equal(model.StatusAvailable, s.dir.Status("u1"))
}

func (s *DirectorySuite) TestUnknownPlayerIsOffline() {
	s.False(s.dir.IsOnline("ghost"))
	s.Equal(model.StatusOffline, s.dir.Status("ghost"))

	_, ok := s.dir.Connection("ghost")
	s.False(ok)
}

func (s *DirectorySuite) TestUnregisterRemovesPlayer() {
	s.dir.Register("u1", "anne", 1200, &fakeConn{})
	s.dir.Unregister("u1")

	s.False(s.dir.IsOnline("u1"))
}

func (s *DirectorySuite) TestStatusAndEloUpdates() {
	s.dir.Register("u1", "anne", 1200, &fakeConn{})

	s.dir.SetStatus("u1", model.StatusInGame)
	s.Equal(model.StatusInGame, s.dir.Status("u1"))

	s.dir.SetElo("u1", 1216)
	list := s.dir.List()
	s.Require().Len(list, 1)
	s.Equal(1216, list[0].Elo)
}

func (s *DirectorySuite) TestSendToRoutesToConnection() {
	conn := &fakeConn{}
	s.dir.Register("u1", "anne", 1200, conn)

	s.dir.SendTo("u1", protocol.MsgTurnUpdate, nil)
	s.dir.SendTo("ghost", protocol.MsgTurnUpdate, nil) // silently dropped

	s.Equal([]protocol.MsgType{protocol.MsgTurnUpdate}, conn.sent)
}

func (s *DirectorySuite) TestBroadcastReachesEveryone() {
	a, b := &fakeConn{}, &fakeConn{}
	s.dir.Register("u1", "anne", 1200, a)
	s.dir.Register("u2", "bram", 1300, b)

	s.dir.Broadcast(protocol.MsgStatusUpdate, nil)

	s.Len(a.sent, 1)
	s.Len(b.sent, 1)
}

func (s *DirectorySuite) TestReconnectReplacesConnection() {
	old := &fakeConn{}
	fresh := &fakeConn{}
	s.dir.Register("u1", "anne", 1200, old)
	s.dir.Register("u1", "anne", 1200, fresh)

	s.dir.SendTo("u1", protocol.MsgPong, nil)
	s.Empty(old.sent)
	s.Len(fresh.sent, 1)
}
