package rng

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestNilUsesGlobalSource(t *testing.T) {
	var r *Rand
	for i := 0; i < 100; i++ {
		v := r.IntN(10)
		assert.True(t, v >= 0 && v < 10)
	}
	assert.Equal(t, 0, r.IntN(0))
	assert.Len(t, r.Digits(6), 6)
}

func TestBetweenInclusive(t *testing.T) {
	for _, r := range []*Rand{nil, New(1)} {
		sawLo, sawHi := false, false
		for i := 0; i < 2000; i++ {
			v := r.Between(-2, 2)
			assert.True(t, v >= -2 && v <= 2, "out of range: %d", v)
			sawLo = sawLo || v == -2
			sawHi = sawHi || v == 2
		}
		assert.True(t, sawLo && sawHi, "bounds never produced")
	}
}

func TestBetweenDegenerate(t *testing.T) {
	r := New(1)
	assert.Equal(t, int64(7), r.Between(7, 7))
	v := r.Between(10, 5)
	assert.True(t, v >= 5 && v <= 10)
	// full range must not panic
	_ = r.Between(-1<<63, 1<<63-1)
}

func TestFloatBetween(t *testing.T) {
	r := New(3)
	for i := 0; i < 1000; i++ {
		v := r.FloatBetween(1.5, 2.5)
		assert.True(t, v >= 1.5 && v <= 2.5)
	}
}

func TestChance(t *testing.T) {
	r := New(5)
	for i := 0; i < 500; i++ {
		assert.True(t, r.Chance(100))
		assert.False(t, r.Chance(0))
	}

	hits := 0
	for i := 0; i < 10000; i++ {
		if r.Chance(25) {
			hits++
		}
	}
	assert.InDelta(t, 2500, hits, 300)
}

func TestPick(t *testing.T) {
	r := New(9)
	assert.Equal(t, "", r.Pick(nil))
	assert.Equal(t, "only", r.Pick([]string{"only"}))
}

func TestConcurrentUse(t *testing.T) {
	r := New(11)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				_ = r.IntBetween(1, 6)
			}
		}()
	}
	wg.Wait()
}

func TestDecimal(t *testing.T) {
	r := New(13)
	for i := 0; i < 2000; i++ {
		v := r.Decimal(1, 100, 2)
		assert.True(t, v >= 1 && v <= 100, "out of range: %v", v)
		assert.InDelta(t, v, float64(int64(v*100+0.5))/100, 1e-9, "too many places: %v", v)
	}
	assert.Equal(t, 1.55, r.Decimal(1.55, 1.56, 1))
	assert.Equal(t, 3.0, r.Decimal(3, 3, 4))

	sawLo, sawHi := false, false
	for i := 0; i < 2000; i++ {
		v := r.Decimal(0.1, 0.3, 1)
		sawLo = sawLo || v == 0.1
		sawHi = sawHi || v == 0.3
	}
	assert.True(t, sawLo && sawHi)
}
