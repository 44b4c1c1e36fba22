package server

import (
	"net"
	"sync"

	"github.com/harborline/broadside/internal/dependencies/clock"
	"github.com/harborline/broadside/internal/model"
	"github.com/harborline/broadside/internal/protocol"
	"github.com/harborline/broadside/internal/services/presence"
)

// Conn wraps one client socket. Writes are serialized so concurrent
// notifications from match and lobby paths never interleave frames.
// Until Authenticate is called the connection has no identity and
// outbound headers carry a zero token.
type Conn struct {
	nc    net.Conn
	clock clock.Clock

	writeMu sync.Mutex

	mu     sync.Mutex
	userID model.UserID
	token  string
}

var _ presence.Sender = (*Conn)(nil)

func newConn(nc net.Conn, clk clock.Clock) *Conn {
	return &Conn{nc: nc, clock: clk}
}

// Send frames and writes one message. It satisfies the sender
// contract the presence directory routes through.
func (c *Conn) Send(msgType protocol.MsgType, payload []byte) error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return protocol.WriteMessage(c.nc, msgType, token, payload, c.clock.Now())
}

// Authenticate binds a logged-in identity and session token to the
// connection.
func (c *Conn) Authenticate(userID model.UserID, token string) {
	c.mu.Lock()
	c.userID = userID
	c.token = token
	c.mu.Unlock()
}

// ClearIdentity drops the bound identity, reverting the connection to
// its pre-login state.
func (c *Conn) ClearIdentity() {
	c.mu.Lock()
	c.userID = ""
	c.token = ""
	c.mu.Unlock()
}

// UserID returns the authenticated user, or false before login.
func (c *Conn) UserID() (model.UserID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID, c.userID != ""
}

// RemoteAddr returns the peer address for logging.
func (c *Conn) RemoteAddr() string {
	return c.nc.RemoteAddr().String()
}

// Close closes the underlying socket.
func (c *Conn) Close() error {
	return c.nc.Close()
}
