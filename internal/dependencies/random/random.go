package random

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

// Random provides random number generation that can be mocked for
// testing. Intn decides first-turn coin flips; Hex mints session
// tokens and similar opaque identifiers.
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// Hex returns a random lowercase hex string of the given length
	Hex(length int) string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a cryptographically random int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	max := big.NewInt(int64(n))
	result, err := rand.Int(rand.Reader, max)
	if err != nil {
		// Fall back to 0 on error (should never happen with crypto/rand)
		return 0
	}
	return int(result.Int64())
}

// Hex returns a random lowercase hex string of the given length
func (r *CryptoRandom) Hex(length int) string {
	if length <= 0 {
		return ""
	}
	b := make([]byte, (length+1)/2)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)[:length]
}
