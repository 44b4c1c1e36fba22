package handlers

import (
	"context"

	"github.com/harborline/broadside/internal/protocol"
	"github.com/harborline/broadside/internal/server"
)

// Keepalive answers pings so idle clients can hold their connection
// open through NAT timeouts.
type Keepalive struct{}

var _ server.Handler = (*Keepalive)(nil)

// NewKeepalive creates a new Keepalive handler
func NewKeepalive() *Keepalive {
	return &Keepalive{}
}

func (h *Keepalive) CanHandle(msgType protocol.MsgType) bool {
	return msgType == protocol.MsgPing
}

func (h *Keepalive) Handle(ctx context.Context, req *server.Request) error {
	return req.Conn.Send(protocol.MsgPong, nil)
}
