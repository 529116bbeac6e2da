// Package randsrc wraps a seeded math/rand generator so every draw the
// simulator makes — vehicle parameters, trip slot sampling — is reproducible
// given the same seed and call order.
package randsrc

import (
	"math"
	"math/rand"
)

// Source is a deterministic, seeded draw source.
type Source struct {
	rng *rand.Rand
}

// New seeds a Source. The same seed and call order always reproduces the
// same sequence of draws.
func New(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// NormalTruncated returns |N(mean, std)| rounded to two decimals.
func (s *Source) NormalTruncated(mean, std float64) float64 {
	v := math.Abs(s.rng.NormFloat64()*std + mean)
	return math.Round(v*100) / 100
}

// UniformInt returns an integer uniformly drawn from [lo, hi] inclusive.
func (s *Source) UniformInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// SampleWithoutReplacement draws k distinct integers from [0, n) without
// replacement, in the order they were drawn (unsorted).
func (s *Source) SampleWithoutReplacement(n, k int) []int {
	if k > n {
		k = n
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	s.rng.Shuffle(n, func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	out := make([]int, k)
	copy(out, pool[:k])
	return out
}
