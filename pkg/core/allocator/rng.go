package allocator

import (
	"math/rand"
	"time"
)

// RandomSource is the randomness the driver consumes. *rand.Rand satisfies it;
// tests inject deterministic sequences to assert exact cancellation sets.
type RandomSource interface {
	// Float64 returns a uniform value in [0, 1)
	Float64() float64
	// Intn returns a uniform value in [0, n)
	Intn(n int) int
}

// NewSeed returns a fresh seed for runs that were not given one
func NewSeed() int64 {
	return time.Now().UnixNano()
}

// NewRandomSource returns a deterministic source for the given seed
func NewRandomSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// DeriveSeed mixes a parent seed and a stream identifier into an independent seed
// (SplitMix64 finalizer), so parallel restarts get decorrelated streams.
func DeriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// shuffle performs an in-place Fisher-Yates shuffle
func shuffle(values []int, rng RandomSource) {
	for i := len(values) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		values[i], values[j] = values[j], values[i]
	}
}
