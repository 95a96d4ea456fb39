package testutil

import (
	"fmt"
	"math/rand"
	"sync"
)

// RNG encapsulates a seeded random number generator.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Bytes returns n pseudo-random bytes.
func (r *RNG) Bytes(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	r.rand.Read(b)
	return b
}

// KV returns a random key/value pair of the given lengths.
func (r *RNG) KV(keyLen, valueLen int) ([]byte, []byte) {
	return r.Bytes(keyLen), r.Bytes(valueLen)
}

// SeqKey returns a deterministic, ordered key with the given prefix.
// Keys generated with increasing i sort in increasing order.
func SeqKey(prefix string, i int) []byte {
	return fmt.Appendf(nil, "%s%08d", prefix, i)
}
