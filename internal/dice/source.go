package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"sync"
)

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Uniform returns a random int in [low, high], inclusive on both ends.
	//
	// Precondition: low <= high.
	Uniform(low, high int) int
}

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are cryptographically secure and uniformly
// distributed in [low, high].
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Uniform returns a cryptographically secure random int in [low, high].
//
// Panics with "dice: Uniform called with low > high" on an empty range and
// with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Uniform(low, high int) int {
	if low > high {
		panic("dice: Uniform called with low > high")
	}
	span := big.NewInt(int64(high) - int64(low) + 1)
	val, err := rand.Int(rand.Reader, span)
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return low + int(val.Int64())
}

// SeededSource is a reproducible Source for simulations and replays.
type SeededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a Source whose draws are fully determined by seed.
func NewSeededSource(seed int64) *SeededSource {
	s := uint64(seed)
	return &SeededSource{rng: mrand.New(mrand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

// Uniform returns a pseudo-random int in [low, high].
func (s *SeededSource) Uniform(low, high int) int {
	if low > high {
		panic("dice: Uniform called with low > high")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return low + int(s.rng.Int64N(int64(high)-int64(low)+1))
}
