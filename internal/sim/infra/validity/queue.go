// Package validity implements the rate-validity queue: the
// multiset of reaction indices whose stored rate is known stale, drained by
// a rate manager into exact recomputation calls.
package validity

import (
	"encoding/binary"
	"math"

	bitsbloom "github.com/bits-and-blooms/bloom/v3"
)

// Queue collects invalidated reaction indices. Invalidate is idempotent
// within a drain cycle: a bloom filter fast-rejects indices that are
// certainly not yet pending, falling back to an exact set lookup only when
// the filter reports a possible duplicate (grounded on the repos/blocklist
// bloom pre-check pattern).
type Queue struct {
	order   []int
	pending map[int]bool
	bf      *bitsbloom.BloomFilter
	m, k    uint
}

// NewQueue allocates a Queue sized for roughly capacity simultaneously
// pending indices at a 1% false-positive rate.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	m, k := sizeBloom(uint64(capacity), 0.01)
	return &Queue{
		pending: make(map[int]bool, capacity),
		bf:      bitsbloom.New(uint(m), uint(k)),
		m:       uint(m),
		k:       uint(k),
	}
}

// sizeBloom computes (m, k) from the standard formulas, mirroring the
// blocklist bloom sizer's approach.
func sizeBloom(n uint64, p float64) (uint64, uint8) {
	if n == 0 {
		n = 1
	}
	if !(p > 0 && p < 1) {
		p = 0.01
	}
	ln2 := math.Ln2
	m := uint64(math.Ceil(-float64(n) * math.Log(p) / (ln2 * ln2)))
	if m == 0 {
		m = 1
	}
	k := uint8(math.Max(1, math.Round((float64(m)/float64(n))*ln2)))
	return m, k
}

func key(i int) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(i))
	return b[:]
}

// Invalidate pushes index i. Duplicates collapse: an index already pending
// is not re-added.
func (q *Queue) Invalidate(i int) {
	k := key(i)
	if q.bf.MightContain(k) && q.pending[i] {
		return
	}
	q.bf.Add(k)
	q.pending[i] = true
	q.order = append(q.order, i)
}

// Drain returns every unique pending index in first-invalidated order and
// resets the queue to empty.
func (q *Queue) Drain() []int {
	out := q.order
	q.order = nil
	q.pending = make(map[int]bool, len(q.pending))
	q.bf = bitsbloom.New(q.m, q.k)
	return out
}

// Len reports the number of unique indices currently pending.
func (q *Queue) Len() int { return len(q.pending) }
