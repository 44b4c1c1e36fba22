// Package handlers contains the message handlers registered with the
// dispatcher, grouped by concern.
package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/harborline/broadside/internal/model"
	"github.com/harborline/broadside/internal/protocol"
	"github.com/harborline/broadside/internal/server"
	"github.com/harborline/broadside/internal/services/auth"
	"github.com/harborline/broadside/internal/services/presence"
)

// Auth handles registration, login, logout, and session checks.
type Auth struct {
	auth     *auth.Service
	presence *presence.Directory
	logger   *slog.Logger

	// onLogout runs after a successful logout so in-flight state
	// (queue entries, live matches) is resolved the same way a
	// dropped socket would resolve it.
	onLogout func(model.UserID)
}

var _ server.Handler = (*Auth)(nil)

// NewAuth creates a new Auth handler
func NewAuth(authService *auth.Service, dir *presence.Directory, onLogout func(model.UserID), logger *slog.Logger) *Auth {
	return &Auth{
		auth:     authService,
		presence: dir,
		onLogout: onLogout,
		logger:   logger,
	}
}

func (h *Auth) CanHandle(msgType protocol.MsgType) bool {
	switch msgType {
	case protocol.MsgRegister, protocol.MsgLogin, protocol.MsgLogout, protocol.MsgSessionCheck:
		return true
	}
	return false
}

func (h *Auth) Handle(ctx context.Context, req *server.Request) error {
	switch req.Header.Type {
	case protocol.MsgRegister:
		return h.register(ctx, req)
	case protocol.MsgLogin:
		return h.login(ctx, req)
	case protocol.MsgLogout:
		return h.logout(ctx, req)
	case protocol.MsgSessionCheck:
		return h.sessionCheck(ctx, req)
	}
	return nil
}

func (h *Auth) register(ctx context.Context, req *server.Request) error {
	var creds protocol.Credentials
	if err := creds.Unmarshal(req.Payload); err != nil {
		return err
	}

	user, err := h.auth.Register(ctx, creds.Username, creds.Password)
	if err != nil {
		msg := "registration failed"
		switch {
		case errors.Is(err, model.ErrUserExists):
			msg = "username already taken"
		case errors.Is(err, auth.ErrInvalidCredentials):
			msg = "invalid credentials"
		}
		return h.respond(req, &protocol.AuthResponse{Message: msg})
	}

	h.logger.Info("user registered",
		slog.String("user_id", string(user.ID)),
		slog.String("username", user.Username),
	)
	return h.respond(req, &protocol.AuthResponse{
		Success: true,
		UserID:  user.ID,
		Elo:     uint32(user.Elo),
		Message: "registered",
	})
}

func (h *Auth) login(ctx context.Context, req *server.Request) error {
	var creds protocol.Credentials
	if err := creds.Unmarshal(req.Payload); err != nil {
		return err
	}

	user, session, err := h.auth.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		return h.respond(req, &protocol.AuthResponse{Message: "invalid credentials"})
	}

	// From here every outbound header carries the session token, so
	// authenticate before responding.
	req.Conn.Authenticate(user.ID, session.Token)
	h.presence.Register(user.ID, user.Username, user.Elo, req.Conn)
	h.presence.Broadcast(protocol.MsgStatusUpdate, (&protocol.StatusUpdate{
		UserID: user.ID,
		Status: model.StatusAvailable,
	}).Marshal())

	h.logger.Info("user logged in",
		slog.String("user_id", string(user.ID)),
		slog.String("username", user.Username),
	)
	return h.respond(req, &protocol.AuthResponse{
		Success: true,
		UserID:  user.ID,
		Elo:     uint32(user.Elo),
		Message: "logged in",
	})
}

func (h *Auth) logout(ctx context.Context, req *server.Request) error {
	if err := h.auth.Logout(ctx, req.Header.Token); err != nil {
		h.logger.Error("failed to delete session",
			slog.String("user_id", string(req.UserID)),
			slog.String("error", err.Error()),
		)
	}

	h.presence.Unregister(req.UserID)
	if h.onLogout != nil {
		h.onLogout(req.UserID)
	}
	req.Conn.ClearIdentity()

	h.logger.Info("user logged out", slog.String("user_id", string(req.UserID)))
	return h.respond(req, &protocol.AuthResponse{Success: true, UserID: req.UserID, Message: "logged out"})
}

func (h *Auth) sessionCheck(ctx context.Context, req *server.Request) error {
	userID, err := h.auth.ValidateSession(ctx, req.Header.Token)
	if err != nil {
		return h.respond(req, &protocol.AuthResponse{Message: "invalid or expired session"})
	}

	resp := &protocol.AuthResponse{Success: true, UserID: userID, Message: "session valid"}
	if user, err := h.auth.GetUser(ctx, userID); err == nil {
		resp.Elo = uint32(user.Elo)
	}
	return h.respond(req, resp)
}

func (h *Auth) respond(req *server.Request, resp *protocol.AuthResponse) error {
	return req.Conn.Send(protocol.MsgAuthResponse, resp.Marshal())
}
