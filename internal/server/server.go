// Package server owns the TCP listener, per-connection read loops,
// and message dispatch. One goroutine per connection reads framed
// messages; all gameplay notifications flow back through the
// connection's serialized writer.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"

	"github.com/harborline/broadside/internal/dependencies/clock"
	"github.com/harborline/broadside/internal/model"
	"github.com/harborline/broadside/internal/protocol"
	"github.com/harborline/broadside/internal/services/match"
	"github.com/harborline/broadside/internal/services/matchmaking"
	"github.com/harborline/broadside/internal/services/presence"
)

// Config holds configuration for the TCP server
type Config struct {
	ListenAddr string
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		ListenAddr: ":4242",
	}
}

// Server accepts connections and pumps their messages through the
// dispatcher.
type Server struct {
	cfg        Config
	dispatcher *Dispatcher
	engine     *match.Engine
	queue      *matchmaking.Queue
	presence   *presence.Directory
	clock      clock.Clock
	logger     *slog.Logger

	// onDisconnect runs extra cleanup for a logged-in user whose
	// connection died, beyond queue and match teardown.
	onDisconnect func(model.UserID)

	mu       sync.Mutex
	listener net.Listener
	conns    map[*Conn]struct{}

	wg sync.WaitGroup
}

// SetDisconnectHook installs the extra disconnect cleanup. Handlers
// are built after the server, so this cannot be a constructor
// argument.
func (s *Server) SetDisconnectHook(fn func(model.UserID)) {
	s.onDisconnect = fn
}

// New creates a new Server
func New(
	cfg Config,
	dispatcher *Dispatcher,
	engine *match.Engine,
	queue *matchmaking.Queue,
	dir *presence.Directory,
	clk clock.Clock,
	logger *slog.Logger,
) *Server {
	if cfg.ListenAddr == "" {
		cfg = DefaultConfig()
	}
	return &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		engine:     engine,
		queue:      queue,
		presence:   dir,
		clock:      clk,
		logger:     logger,
		conns:      make(map[*Conn]struct{}),
	}
}

// Serve listens and accepts until the context is cancelled. It
// returns once the listener is closed and all connection goroutines
// have drained.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("listening", slog.String("addr", listener.Addr().String()))

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	for {
		nc, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Error("accept failed", slog.String("error", err.Error()))
			continue
		}

		conn := newConn(nc, s.clock)
		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.serveConn(ctx, conn)
	}

	s.wg.Wait()
	return nil
}

// Addr returns the bound listen address, for tests that listen on an
// ephemeral port.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting and closes every live connection.
func (s *Server) Shutdown() {
	s.mu.Lock()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()
}

// serveConn reads framed messages until the peer goes away or sends a
// malformed frame, then runs disconnect cleanup.
func (s *Server) serveConn(ctx context.Context, conn *Conn) {
	defer s.wg.Done()

	s.logger.Info("connection opened", slog.String("remote", conn.RemoteAddr()))

	for {
		header, payload, err := protocol.ReadMessage(conn.nc)
		if err != nil {
			if errors.Is(err, protocol.ErrPayloadTooLong) {
				s.logger.Warn("dropping connection for oversized frame",
					slog.String("remote", conn.RemoteAddr()),
				)
			}
			break
		}
		s.dispatcher.Dispatch(ctx, conn, *header, payload)
	}

	s.closeConn(conn)
}

// closeConn tears down one connection. A logged-in user forfeits any
// live matches and leaves the queue before going offline.
func (s *Server) closeConn(conn *Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	_ = conn.Close()

	userID, ok := conn.UserID()
	if !ok {
		s.logger.Info("connection closed", slog.String("remote", conn.RemoteAddr()))
		return
	}

	// Presence goes first so match-end notifications are not sent to
	// the dead socket.
	s.presence.Unregister(userID)
	if err := s.queue.Leave(userID); err != nil && !errors.Is(err, model.ErrNotQueued) {
		s.logger.Error("queue cleanup failed",
			slog.String("user_id", string(userID)),
			slog.String("error", err.Error()),
		)
	}
	s.engine.HandleDisconnect(context.Background(), userID)
	if s.onDisconnect != nil {
		s.onDisconnect(userID)
	}

	s.logger.Info("player disconnected",
		slog.String("user_id", string(userID)),
		slog.String("remote", conn.RemoteAddr()),
	)
}
