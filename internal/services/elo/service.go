// Package elo implements the standard logistic expected-score rating
// update applied after every decisive or drawn match.
package elo

import "math"

// DefaultKFactor is the fixed K used for all rating updates.
const DefaultKFactor = 32

// Service computes rating updates.
type Service struct {
	k float64
}

// Config holds configuration for the elo service
type Config struct {
	KFactor int
}

// DefaultConfig returns default elo configuration
func DefaultConfig() Config {
	return Config{KFactor: DefaultKFactor}
}

// New creates a new elo Service
func New(cfg Config) *Service {
	if cfg.KFactor == 0 {
		cfg.KFactor = DefaultKFactor
	}
	return &Service{k: float64(cfg.KFactor)}
}

// Expected returns the expected score of a player rated `rating`
// against an opponent rated `opponent`.
func (s *Service) Expected(rating, opponent int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(opponent-rating)/400.0))
}

// Update returns both players' new ratings after a decisive result.
func (s *Service) Update(winner, loser int) (newWinner, newLoser int) {
	winnerDelta := s.delta(winner, loser, 1.0)
	loserDelta := s.delta(loser, winner, 0.0)
	return winner + winnerDelta, loser + loserDelta
}

// Draw returns both players' new ratings after a drawn result.
func (s *Service) Draw(a, b int) (newA, newB int) {
	return a + s.delta(a, b, 0.5), b + s.delta(b, a, 0.5)
}

// delta is the rounded rating change for one player given their
// actual score against the opponent's pre-match rating.
func (s *Service) delta(rating, opponent int, score float64) int {
	return int(math.Round(s.k * (score - s.Expected(rating, opponent))))
}
