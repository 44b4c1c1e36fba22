// Package matchmaking holds the rating-windowed queue. Players wait
// in join order and each entry's acceptable rating window widens the
// longer it waits, so close matches are preferred but nobody waits
// forever.
package matchmaking

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/harborline/broadside/internal/dependencies/clock"
	"github.com/harborline/broadside/internal/model"
)

// Pairer receives matched queue entries. The match engine implements
// this; the indirection keeps pairing testable without a full engine.
type Pairer interface {
	StartQueuedMatch(a, b model.QueueEntry)
}

// Config holds configuration for the matchmaking queue
type Config struct {
	// TickInterval is how often the pairing sweep runs.
	TickInterval time.Duration
	// BaseWindow is the rating distance accepted immediately on join.
	BaseWindow int
	// WindowStep is added to an entry's window for every full
	// StepEvery it has waited.
	WindowStep int
	StepEvery  time.Duration
}

// DefaultConfig returns default matchmaking configuration
func DefaultConfig() Config {
	return Config{
		TickInterval: 2 * time.Second,
		BaseWindow:   200,
		WindowStep:   100,
		StepEvery:    30 * time.Second,
	}
}

// Status is a point-in-time view of one player's queue entry.
type Status struct {
	Queued   bool
	Position int // 1-based join-order position
	Window   int
}

// Queue is the matchmaking queue. Entries are kept in join order;
// the sweep pairs greedily from the front.
type Queue struct {
	pairer Pairer
	clock  clock.Clock
	logger *slog.Logger
	cfg    Config

	mu      sync.Mutex
	entries []model.QueueEntry
}

// New creates a new matchmaking Queue
func New(pairer Pairer, clk clock.Clock, cfg Config, logger *slog.Logger) *Queue {
	if cfg.TickInterval == 0 {
		cfg = DefaultConfig()
	}
	return &Queue{
		pairer: pairer,
		clock:  clk,
		logger: logger,
		cfg:    cfg,
	}
}

// Join enqueues a player with the rating and turn limit captured at
// join time.
func (q *Queue) Join(userID model.UserID, elo int, turnLimit time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		if e.UserID == userID {
			return model.ErrAlreadyQueued
		}
	}

	q.entries = append(q.entries, model.QueueEntry{
		UserID:        userID,
		Elo:           elo,
		TurnTimeLimit: turnLimit,
		JoinedAt:      q.clock.Now(),
	})

	q.logger.Info("player joined queue",
		slog.String("user_id", string(userID)),
		slog.Int("elo", elo),
		slog.Int("queue_size", len(q.entries)),
	)
	return nil
}

// Leave removes a player from the queue.
func (q *Queue) Leave(userID model.UserID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, e := range q.entries {
		if e.UserID == userID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			q.logger.Info("player left queue",
				slog.String("user_id", string(userID)),
				slog.Int("queue_size", len(q.entries)),
			)
			return nil
		}
	}
	return model.ErrNotQueued
}

// Status reports whether a player is queued and, if so, their
// position and current rating window.
func (q *Queue) Status(userID model.UserID) Status {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.clock.Now()
	for i, e := range q.entries {
		if e.UserID == userID {
			return Status{
				Queued:   true,
				Position: i + 1,
				Window:   q.window(e, now),
			}
		}
	}
	return Status{}
}

// Len returns the number of queued players.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Run sweeps the queue on every tick until the context is done.
func (q *Queue) Run(ctx context.Context) {
	ticker := time.NewTicker(q.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			q.tick()
		}
	}
}

// tick runs one greedy pairing sweep. Two entries may be paired when
// their rating distance fits inside the wider of their two windows,
// and longer-waiting players are considered first.
func (q *Queue) tick() {
	now := q.clock.Now()

	q.mu.Lock()
	var pairs [][2]model.QueueEntry
	matched := make([]bool, len(q.entries))

	for i := 0; i < len(q.entries); i++ {
		if matched[i] {
			continue
		}
		for j := i + 1; j < len(q.entries); j++ {
			if matched[j] {
				continue
			}
			if q.compatible(q.entries[i], q.entries[j], now) {
				matched[i], matched[j] = true, true
				pairs = append(pairs, [2]model.QueueEntry{q.entries[i], q.entries[j]})
				break
			}
		}
	}

	if len(pairs) > 0 {
		remaining := q.entries[:0]
		for i, e := range q.entries {
			if !matched[i] {
				remaining = append(remaining, e)
			}
		}
		q.entries = remaining
	}
	q.mu.Unlock()

	for _, pair := range pairs {
		q.logger.Info("queue pairing",
			slog.String("player1", string(pair[0].UserID)),
			slog.String("player2", string(pair[1].UserID)),
			slog.Int("elo_gap", abs(pair[0].Elo-pair[1].Elo)),
		)
		q.pairer.StartQueuedMatch(pair[0], pair[1])
	}
}

func (q *Queue) compatible(a, b model.QueueEntry, now time.Time) bool {
	allowed := q.window(a, now)
	if w := q.window(b, now); w > allowed {
		allowed = w
	}
	return abs(a.Elo-b.Elo) <= allowed
}

func (q *Queue) window(e model.QueueEntry, now time.Time) int {
	waited := now.Sub(e.JoinedAt)
	steps := int(waited / q.cfg.StepEvery)
	return q.cfg.BaseWindow + steps*q.cfg.WindowStep
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
