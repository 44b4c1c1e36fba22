// Package factory constructs the full application graph from
// configuration: storage backend, services, handlers, dispatcher, and
// the TCP server.
package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harborline/broadside/internal/dependencies/clock"
	"github.com/harborline/broadside/internal/dependencies/random"
	"github.com/harborline/broadside/internal/model"
	"github.com/harborline/broadside/internal/server"
	"github.com/harborline/broadside/internal/server/handlers"
	"github.com/harborline/broadside/internal/services/auth"
	"github.com/harborline/broadside/internal/services/elo"
	"github.com/harborline/broadside/internal/services/match"
	"github.com/harborline/broadside/internal/services/matchmaking"
	"github.com/harborline/broadside/internal/services/presence"
	"github.com/harborline/broadside/internal/storage"
	"github.com/harborline/broadside/internal/storage/memory"
	"github.com/harborline/broadside/internal/storage/redis"
	"github.com/harborline/broadside/internal/storage/sqlite"
)

// Storage backend selectors.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Config aggregates every component's configuration.
type Config struct {
	Storage    string
	Redis      redis.Config
	SQLitePath string

	Server      server.Config
	Auth        auth.Config
	Elo         elo.Config
	Match       match.Config
	Matchmaking matchmaking.Config
}

// DefaultConfig returns the all-defaults configuration with in-memory
// storage.
func DefaultConfig() Config {
	return Config{
		Storage:     StorageMemory,
		Redis:       redis.DefaultConfig(),
		SQLitePath:  "broadside.db",
		Server:      server.DefaultConfig(),
		Auth:        auth.DefaultConfig(),
		Elo:         elo.DefaultConfig(),
		Match:       match.DefaultConfig(),
		Matchmaking: matchmaking.DefaultConfig(),
	}
}

// App is the assembled application.
type App struct {
	Logger   *slog.Logger
	Storage  storage.Storage
	Presence *presence.Directory
	Auth     *auth.Service
	Engine   *match.Engine
	Queue    *matchmaking.Queue
	Server   *server.Server
}

// New builds the application from configuration.
func New(cfg Config, logger *slog.Logger) (*App, error) {
	store, err := newStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return NewWithStorage(cfg, store, clock.New(), random.New(), logger), nil
}

// NewWithStorage builds the application around an existing storage
// backend and injected clock and randomness sources.
func NewWithStorage(cfg Config, store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	dir := presence.New(logger)
	authService := auth.New(store, clk, rnd, cfg.Auth)
	eloService := elo.New(cfg.Elo)
	engine := match.NewEngine(store, dir, eloService, clk, rnd, cfg.Match, logger)
	queue := matchmaking.New(engine, clk, cfg.Matchmaking, logger)
	engine.SetDequeuer(queue)

	mm := handlers.NewMatchmaking(queue, engine, dir, authService, clk, logger)

	onLogout := func(userID model.UserID) {
		_ = queue.Leave(userID)
		engine.HandleDisconnect(context.Background(), userID)
		mm.ClearOffers(userID)
	}

	dispatcher := server.NewDispatcher(authService, logger)
	dispatcher.Register(
		handlers.NewAuth(authService, dir, onLogout, logger),
		handlers.NewLobby(dir, logger),
		mm,
		handlers.NewGame(engine, logger),
		handlers.NewKeepalive(),
	)

	srv := server.New(cfg.Server, dispatcher, engine, queue, dir, clk, logger)
	srv.SetDisconnectHook(mm.ClearOffers)

	return &App{
		Logger:   logger,
		Storage:  store,
		Presence: dir,
		Auth:     authService,
		Engine:   engine,
		Queue:    queue,
		Server:   srv,
	}
}

// Run starts the matchmaking sweep and serves until the context is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	go a.Queue.Run(ctx)
	return a.Server.Serve(ctx)
}

func newStorage(cfg Config) (storage.Storage, error) {
	switch cfg.Storage {
	case StorageMemory, "":
		return memory.New(), nil
	case StorageRedis:
		return redis.New(cfg.Redis)
	case StorageSQLite:
		return sqlite.New(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
