// Package rng wraps math/rand/v2 for generation code that may run against
// either a seeded source or the global one.
//
// A nil *Rand is valid and draws from the global math/rand/v2 source. A
// seeded Rand serializes access with a mutex so one generator can be shared
// by concurrent calls; the sequence is only reproducible when calls are not
// interleaved.
package rng

import (
	"math"
	mathrand "math/rand/v2"
	"sync"
)

// Rand is a random source.
type Rand struct {
	mu sync.Mutex
	r  *mathrand.Rand
}

// New returns a Rand seeded with seed.
func New(seed uint64) *Rand {
	return &Rand{r: mathrand.New(mathrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Uint64 returns a uniformly distributed 64-bit value.
func (r *Rand) Uint64() uint64 {
	if r == nil {
		return mathrand.Uint64()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Uint64()
}

// IntN returns a random int in [0, n). It returns 0 when n <= 0.
func (r *Rand) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	if r == nil {
		return mathrand.IntN(n)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.IntN(n)
}

// Float64 returns a random float64 in [0, 1).
func (r *Rand) Float64() float64 {
	if r == nil {
		return mathrand.Float64()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Float64()
}

// Between returns a random int64 in [lo, hi]. Bounds are swapped when
// reversed.
func (r *Rand) Between(lo, hi int64) int64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	span := uint64(hi-lo) + 1
	if span == 0 {
		// full int64 range
		return int64(r.Uint64())
	}
	var n uint64
	if r == nil {
		n = mathrand.Uint64N(span)
	} else {
		r.mu.Lock()
		n = r.r.Uint64N(span)
		r.mu.Unlock()
	}
	return lo + int64(n)
}

// IntBetween is Between for ints.
func (r *Rand) IntBetween(lo, hi int) int {
	return int(r.Between(int64(lo), int64(hi)))
}

// FloatBetween returns a random float64 in [lo, hi].
func (r *Rand) FloatBetween(lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	v := lo + r.Float64()*(hi-lo)
	if v > hi {
		v = hi
	}
	return v
}

// Decimal returns a random value in [lo, hi] with at most places decimal
// places, drawn uniformly from the grid of such values. When the grid is
// empty (the bounds are closer than one step) lo is returned.
func (r *Rand) Decimal(lo, hi float64, places int) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if places < 0 {
		places = 0
	}
	scale := math.Pow10(places)
	a, b := math.Ceil(lo*scale), math.Floor(hi*scale)
	if a > b {
		return lo
	}
	if math.Abs(a) > 1<<62 || math.Abs(b) > 1<<62 {
		return r.FloatBetween(lo, hi)
	}
	v := float64(r.Between(int64(a), int64(b))) / scale
	// division can land a hair outside the bounds
	return math.Min(math.Max(v, lo), hi)
}

// Chance returns true with probability pct/100.
func (r *Rand) Chance(pct float64) bool {
	switch {
	case pct <= 0:
		return false
	case pct >= 100:
		return true
	}
	return r.Float64()*100 < pct
}

// Pick returns a random element of list, or "" when list is empty.
func (r *Rand) Pick(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[r.IntN(len(list))]
}

// Digits returns n random decimal digits.
func (r *Rand) Digits(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + r.IntN(10))
	}
	return string(b)
}
