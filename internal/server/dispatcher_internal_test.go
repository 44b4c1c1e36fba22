package server

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harborline/broadside/internal/dependencies/clock"
	"github.com/harborline/broadside/internal/protocol"
)

func TestRequiresAuth(t *testing.T) {
	open := []protocol.MsgType{
		protocol.MsgRegister,
		protocol.MsgLogin,
		protocol.MsgSessionCheck,
		protocol.MsgPing,
	}
	for _, msgType := range open {
		assert.False(t, requiresAuth(msgType), msgType.String())
	}

	gated := []protocol.MsgType{
		protocol.MsgLogout,
		protocol.MsgPlayerListRequest,
		protocol.MsgQueueJoin,
		protocol.MsgMove,
		protocol.MsgChat,
		protocol.MsgResign,
	}
	for _, msgType := range gated {
		assert.True(t, requiresAuth(msgType), msgType.String())
	}
}

func TestConnIdentityLifecycle(t *testing.T) {
	client, srv := net.Pipe()
	defer client.Close()
	conn := newConn(srv, clock.New())
	defer conn.Close()

	_, ok := conn.UserID()
	assert.False(t, ok)

	conn.Authenticate("user-1", "token-1")
	id, ok := conn.UserID()
	assert.True(t, ok)
	assert.Equal(t, "user-1", string(id))

	conn.ClearIdentity()
	_, ok = conn.UserID()
	assert.False(t, ok)
}
