package librertos

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// runTimeSampleCapacity is the number of recent per-dispatch run times
// kept per task for RunTimePercentile. Must be a power of 2.
const runTimeSampleCapacity = 64

// ringSamples is a fixed-capacity power-of-two ring buffer that
// overwrites its oldest element once full, grounded on
// joeycumines-go-utilpkg/catrate's ringBuffer (ring.go). Unlike that
// ring, which grows without bound on Insert, this one is sized once
// and never reallocates — appropriate for a statistics feature meant
// to run for the lifetime of a long-lived kernel rather than retain a
// perfectly complete history.
type ringSamples[E constraints.Ordered] struct {
	s []E
	w uint64 // total pushes ever made
}

func newRingSamples[E constraints.Ordered](size int) *ringSamples[E] {
	if size <= 0 || size&(size-1) != 0 {
		panic("librertos: stats: ring size must be a power of 2")
	}
	return &ringSamples[E]{s: make([]E, size)}
}

// Push records v as the newest sample, evicting the oldest once the
// ring is full.
func (x *ringSamples[E]) Push(v E) {
	x.s[x.w%uint64(len(x.s))] = v
	x.w++
}

// Len returns the number of samples currently held (capped at
// capacity).
func (x *ringSamples[E]) Len() int {
	if x.w < uint64(len(x.s)) {
		return int(x.w)
	}
	return len(x.s)
}

// Get returns the i-th oldest surviving sample, 0 <= i < Len.
func (x *ringSamples[E]) Get(i int) E {
	n := x.Len()
	start := x.w - uint64(n)
	return x.s[(start+uint64(i))%uint64(len(x.s))]
}

// Percentile returns the p-th percentile (0-100, clamped) of the
// currently held samples: the sorted sample at index
// floor(p/100*(n-1)), with no interpolation between samples. Returns
// the zero value of E if no samples have been pushed yet.
func (x *ringSamples[E]) Percentile(p float64) E {
	n := x.Len()
	if n == 0 {
		var zero E
		return zero
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}

	sorted := make([]E, n)
	for i := 0; i < n; i++ {
		sorted[i] = x.Get(i)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	index := int(p / 100 * float64(n-1))
	return sorted[index]
}
