// Package loadingtable implements the product/loading tables consulted by
// Loading-family reactions: a mapping from (sequence,
// template position) to the product reactant id, grounded on
// infra/memcache/memcache.go's LRU-backed cache shape.
package loadingtable

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

type tableKey struct {
	seqID    int
	position int
}

// Table is one named loading table: a fixed-size LRU cache sized to the
// table's full entry count at construction, so ordinary lookups never
// evict a needed entry.
type Table struct {
	name string
	lru  *lru.Cache[tableKey, int]
}

// New allocates a Table sized for capacity (sequence, position) entries.
func New(name string, capacity int) (*Table, error) {
	if capacity < 1 {
		capacity = 1
	}
	c, err := lru.New[tableKey, int](capacity)
	if err != nil {
		return nil, err
	}
	return &Table{name: name, lru: c}, nil
}

func (t *Table) Name() string { return t.name }

// Register binds (seqID, position) to productID.
func (t *Table) Register(seqID, position, productID int) {
	t.lru.Add(tableKey{seqID, position}, productID)
}

// Lookup returns the product registered at (seqID, position), if any.
func (t *Table) Lookup(seqID, position int) (int, bool) {
	return t.lru.Get(tableKey{seqID, position})
}

func (t *Table) Len() int { return t.lru.Len() }
