package server

import (
	"context"
	"log/slog"

	"github.com/harborline/broadside/internal/model"
	"github.com/harborline/broadside/internal/protocol"
	"github.com/harborline/broadside/internal/services/auth"
)

// Request carries one decoded message through dispatch. UserID is
// filled from session validation before any authenticated handler
// runs.
type Request struct {
	Conn    *Conn
	Header  protocol.Header
	Payload []byte
	UserID  model.UserID
}

// Handler consumes a subset of message types. Handlers are consulted
// in registration order; the first one claiming the type wins.
type Handler interface {
	CanHandle(msgType protocol.MsgType) bool
	Handle(ctx context.Context, req *Request) error
}

// Dispatcher validates sessions and routes messages to handlers.
type Dispatcher struct {
	auth     *auth.Service
	logger   *slog.Logger
	handlers []Handler
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(authService *auth.Service, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		auth:   authService,
		logger: logger,
	}
}

// Register appends handlers to the routing order.
func (d *Dispatcher) Register(handlers ...Handler) {
	d.handlers = append(d.handlers, handlers...)
}

// requiresAuth reports whether a message type needs a valid session
// token. Registration, login, session checks, and pings are the only
// messages a client may send before authenticating.
func requiresAuth(msgType protocol.MsgType) bool {
	switch msgType {
	case protocol.MsgRegister, protocol.MsgLogin, protocol.MsgSessionCheck, protocol.MsgPing:
		return false
	}
	return true
}

// Dispatch routes one message. Messages that fail session validation
// or have no handler are logged and dropped; a handler error is a
// rejected request, not a connection fault, so the caller keeps
// reading either way.
func (d *Dispatcher) Dispatch(ctx context.Context, conn *Conn, header protocol.Header, payload []byte) {
	req := &Request{Conn: conn, Header: header, Payload: payload}

	if requiresAuth(header.Type) {
		userID, err := d.auth.ValidateSession(ctx, header.Token)
		if err != nil {
			d.logger.Warn("rejecting message with invalid session",
				slog.String("type", header.Type.String()),
				slog.String("remote", conn.RemoteAddr()),
			)
			return
		}
		if bound, ok := conn.UserID(); ok && bound != userID {
			d.logger.Warn("token does not match connection identity",
				slog.String("type", header.Type.String()),
				slog.String("remote", conn.RemoteAddr()),
			)
			return
		}
		req.UserID = userID
	}

	for _, h := range d.handlers {
		if !h.CanHandle(header.Type) {
			continue
		}
		if err := h.Handle(ctx, req); err != nil {
			d.logger.Debug("handler rejected message",
				slog.String("type", header.Type.String()),
				slog.String("user_id", string(req.UserID)),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	d.logger.Warn("no handler for message type",
		slog.String("type", header.Type.String()),
		slog.String("remote", conn.RemoteAddr()),
	)
}
