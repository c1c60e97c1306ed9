package ratecontainer

// Tree is the segment-tree ("rate tree") implementation: a complete binary
// tree over R leaves where each inner node caches the sum of its subtree.
// Set updates one leaf and its O(log R) ancestors; Pick descends from the
// root using the cached left-subtree sum at each level.
//
// Internal sums are always the freshly recomputed sum of their two
// children immediately after a Set, so they never drift from the leaves
// they cover.
type Tree struct {
	n    int       // number of reaction indices this tree was sized for
	cap  int       // leaf capacity: smallest power of two >= n
	node []float64 // 1-indexed complete binary tree, node[1] is the root
}

var _ Container = (*Tree)(nil)

// NewTree allocates a Tree sized for n reaction indices, all zero rate.
func NewTree(n int) *Tree {
	cap := 1
	for cap < n {
		cap *= 2
	}
	if cap == 0 {
		cap = 1
	}
	return &Tree{n: n, cap: cap, node: make([]float64, 2*cap)}
}

func (t *Tree) Len() int { return t.n }

func (t *Tree) Set(i int, r float64) error {
	if i < 0 || i >= t.n {
		return ErrIndexOutOfRange
	}
	if r < 0 {
		return ErrNegativeRate
	}
	idx := t.cap + i
	t.node[idx] = r
	for idx > 1 {
		idx /= 2
		t.node[idx] = t.node[2*idx] + t.node[2*idx+1]
	}
	return nil
}

func (t *Tree) Total() float64 {
	if t.cap == 0 {
		return 0
	}
	return t.node[1]
}

func (t *Tree) Pick(u float64) (int, error) {
	if t.Total() == 0 {
		return 0, ErrEmptyDistribution
	}
	node := 1
	for node < t.cap {
		left := 2 * node
		// tie-break: u equal to left.sum goes to the right subtree, so the
		// least index whose cumulative sum exceeds u wins.
		if u < t.node[left] {
			node = left
		} else {
			u -= t.node[left]
			node = left + 1
		}
	}
	leaf := node - t.cap
	if leaf >= t.n {
		// padding region beyond n real leaves: fall back to the last real
		// leaf with positive weight (can only happen under floating-point
		// rounding at the very top of the range).
		for i := t.n - 1; i >= 0; i-- {
			if t.node[t.cap+i] > 0 {
				return i, nil
			}
		}
		return 0, ErrEmptyDistribution
	}
	return leaf, nil
}
