package domain

import "fmt"

// Reactant is any named entity whose count is read by one or more reaction
// rate functions. Reactants carry no observer list of their own:
// reactant-to-reaction dependencies live in a single table owned by
// services/ratemanager, and reactants themselves hold only identity and
// value.
type Reactant interface {
	ID() int
	Name() string
}

// FreeChemical is a named quantity with an integer count >= 0.
type FreeChemical struct {
	id    int
	name  string
	count int
}

// NewFreeChemical constructs a FreeChemical with a non-negative initial count.
func NewFreeChemical(id int, name string, count int) (*FreeChemical, error) {
	if name == "" {
		return nil, fmt.Errorf("reactant name must not be empty")
	}
	if count < 0 {
		return nil, fmt.Errorf("reactant %q: count must be >= 0, got %d", name, count)
	}
	return &FreeChemical{id: id, name: name, count: count}, nil
}

func (f *FreeChemical) ID() int      { return f.id }
func (f *FreeChemical) Name() string { return f.name }
func (f *FreeChemical) Count() int   { return f.count }

// SetCount overwrites the count directly.
// Returns an error if count is negative; the caller is responsible for
// invalidating dependent reactions afterward.
func (f *FreeChemical) SetCount(count int) error {
	if count < 0 {
		return fmt.Errorf("reactant %q: count must be >= 0, got %d", f.name, count)
	}
	f.count = count
	return nil
}

// Add adjusts the count by delta (may be negative), used by ChemicalReaction
// and Release apply() steps. Returns an error if the result would be
// negative.
func (f *FreeChemical) Add(delta int) error {
	next := f.count + delta
	if next < 0 {
		return fmt.Errorf("reactant %q: count would go negative (%d + %d)", f.name, f.count, delta)
	}
	f.count = next
	return nil
}

// BoundUnit is a single binder occupying a footprint on a sequence
// (GLOSSARY), identified by the (sequence, position, reading frame) triple.
type BoundUnit struct {
	SequenceID int
	Position   int
	Frame      int
}

// BoundChemical is a multiset of bound units; its count is len(units).
type BoundChemical struct {
	id    int
	name  string
	units []BoundUnit
}

// NewBoundChemical constructs an empty BoundChemical.
func NewBoundChemical(id int, name string) (*BoundChemical, error) {
	if name == "" {
		return nil, fmt.Errorf("reactant name must not be empty")
	}
	return &BoundChemical{id: id, name: name}, nil
}

func (b *BoundChemical) ID() int      { return b.id }
func (b *BoundChemical) Name() string { return b.name }
func (b *BoundChemical) Count() int   { return len(b.units) }

// Units returns the current bound units. The returned slice must not be
// mutated by the caller; use AddUnit/RemoveUnitAt instead.
func (b *BoundChemical) Units() []BoundUnit {
	return b.units
}

// AddUnit appends a newly created bound unit (binding reaction apply()).
func (b *BoundChemical) AddUnit(u BoundUnit) {
	b.units = append(b.units, u)
}

// RemoveUnitAt removes and returns the unit at index i (release reaction
// apply()).
// Order is not preserved (swap-with-last) since bound units are an
// unordered multiset.
func (b *BoundChemical) RemoveUnitAt(i int) (BoundUnit, error) {
	if i < 0 || i >= len(b.units) {
		return BoundUnit{}, fmt.Errorf("bound chemical %q: index %d out of range [0,%d)", b.name, i, len(b.units))
	}
	u := b.units[i]
	last := len(b.units) - 1
	b.units[i] = b.units[last]
	b.units = b.units[:last]
	return u, nil
}

// ReplaceUnitAt overwrites the unit at index i in place, used by
// translocation to advance a bound unit's position without reallocating.
func (b *BoundChemical) ReplaceUnitAt(i int, u BoundUnit) error {
	if i < 0 || i >= len(b.units) {
		return fmt.Errorf("bound chemical %q: index %d out of range [0,%d)", b.name, i, len(b.units))
	}
	b.units[i] = u
	return nil
}

// ChemicalSequence is the polymer itself: an immutable length plus mutable
// occupancy. The occupancy structure is owned by repos/sequence and indexed
// by this reactant's ID, keeping domain free of any repos-layer dependency.
type ChemicalSequence struct {
	id     int
	name   string
	length int
}

// NewChemicalSequence constructs a ChemicalSequence of the given length.
// Length 0 is accepted and yields a sequence with no positions. Whether a
// sequence starts complete or under progressive construction is chosen when
// it is added to a cell state; growth is capped at the registered length.
func NewChemicalSequence(id int, name string, length int) (*ChemicalSequence, error) {
	if name == "" {
		return nil, fmt.Errorf("reactant name must not be empty")
	}
	if length < 0 {
		return nil, fmt.Errorf("sequence %q: length must be >= 0, got %d", name, length)
	}
	return &ChemicalSequence{id: id, name: name, length: length}, nil
}

func (c *ChemicalSequence) ID() int      { return c.id }
func (c *ChemicalSequence) Name() string { return c.name }
func (c *ChemicalSequence) Length() int  { return c.length }
