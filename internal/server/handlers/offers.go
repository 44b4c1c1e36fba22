package handlers

import (
	"sync"
	"time"

	"github.com/harborline/broadside/internal/dependencies/clock"
	"github.com/harborline/broadside/internal/model"
)

// offerTTL bounds how long an unanswered challenge or rematch offer
// stays claimable.
const offerTTL = 60 * time.Second

// pendingKey identifies an outstanding challenge or rematch offer
// from one player to another.
type pendingKey struct {
	from model.UserID
	to   model.UserID
}

type offer struct {
	turnLimit time.Duration
	expiresAt time.Time
}

// offerTable parks outstanding offers until the response arrives.
// Offers expire after the TTL and expired ones are pruned on every
// insert, so unanswered offers cannot accumulate.
type offerTable struct {
	clock clock.Clock
	ttl   time.Duration

	mu     sync.Mutex
	offers map[pendingKey]offer
}

func newOfferTable(clk clock.Clock, ttl time.Duration) *offerTable {
	return &offerTable{
		clock:  clk,
		ttl:    ttl,
		offers: make(map[pendingKey]offer),
	}
}

func (t *offerTable) put(from, to model.UserID, turnLimit time.Duration) {
	now := t.clock.Now()
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, o := range t.offers {
		if now.After(o.expiresAt) {
			delete(t.offers, key)
		}
	}
	t.offers[pendingKey{from: from, to: to}] = offer{
		turnLimit: turnLimit,
		expiresAt: now.Add(t.ttl),
	}
}

// take claims the offer from one player to another. An expired offer
// is removed and reported as absent.
func (t *offerTable) take(from, to model.UserID) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := pendingKey{from: from, to: to}
	o, ok := t.offers[key]
	if !ok {
		return 0, false
	}
	delete(t.offers, key)
	if t.clock.Now().After(o.expiresAt) {
		return 0, false
	}
	return o.turnLimit, true
}

// clearUser drops every offer the user made or received. Called when
// the user logs out or disconnects.
func (t *offerTable) clearUser(userID model.UserID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key := range t.offers {
		if key.from == userID || key.to == userID {
			delete(t.offers, key)
		}
	}
}

func (t *offerTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.offers)
}
