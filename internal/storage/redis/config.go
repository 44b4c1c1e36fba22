package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// SessionTTL bounds how long a session key lives server-side.
	// The auth service still checks ExpiresAt; this just reclaims keys.
	SessionTTL time.Duration

	// MatchTTL bounds how long finished-match data (record, placements,
	// moves) is retained. Zero means keep forever.
	MatchTTL time.Duration
}

// DefaultConfig returns sensible defaults for local development
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		SessionTTL:   24 * time.Hour,
		MatchTTL:     0,
	}
}
