package xword

import (
	"math/rand"
)

// AbstractRng is the pseudo-random source injected into the search. The
// core never reaches for a process-global source directly so that
// construction stays deterministic end to end whenever a deterministic
// source is supplied (property P8).
type AbstractRng interface {
	// Float32 returns a value in [0, max).
	Float32(max float32) float32
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// defaultRng is backed by an unseeded math/rand source, used for
// production diversity.
type defaultRng struct {
	r *rand.Rand
}

// NewDefaultRng returns a production pseudo-random source with no fixed
// seed, suitable for diverse, non-reproducible construction runs.
func NewDefaultRng() AbstractRng {
	return &defaultRng{r: rand.New(rand.NewSource(rand.Int63()))}
}

func (d *defaultRng) Float32(max float32) float32 { return d.r.Float32() * max }
func (d *defaultRng) Intn(n int) int              { return d.r.Intn(n) }

// deterministicRng is a fixed-seed math/rand source: identical seed implies
// identical draw sequence, which is what property P8 (determinism) relies
// on.
type deterministicRng struct {
	r *rand.Rand
}

// NewDeterministicRng returns a reproducible pseudo-random source seeded
// with the given value.
func NewDeterministicRng(seed int64) AbstractRng {
	return &deterministicRng{r: rand.New(rand.NewSource(seed))}
}

func (d *deterministicRng) Float32(max float32) float32 { return d.r.Float32() * max }
func (d *deterministicRng) Intn(n int) int              { return d.r.Intn(n) }
