package domain

import "github.com/cellsim/cellsim/internal/sim/common/rng"

// SiteInterval describes the sequence location a binding site covers,
// returned by SiteAccess.SiteInterval so reaction Apply() implementations
// don't need to know how sites are stored.
type SiteInterval struct {
	SequenceID int
	First      int
	Last       int
	Width      int
	Frame      int
}

// ChemicalAccess is the subset of cell-state operations a reaction needs to
// read and mutate free and bound chemical reactants.
type ChemicalAccess interface {
	FreeCount(reactantID int) int
	SetFreeCount(reactantID int, count int) error
	AddFree(reactantID int, delta int) error

	BoundCount(reactantID int) int
	BoundUnitAt(reactantID, index int) (BoundUnit, error)
	AddBoundUnit(reactantID int, u BoundUnit) error
	RemoveBoundUnitAt(reactantID, index int) (BoundUnit, error)
	ReplaceBoundUnitAt(reactantID, index int, u BoundUnit) error
}

// SiteAccess is the subset of cell-state operations a binding/translocation
// reaction needs to weigh and pick binding sites.
type SiteAccess interface {
	FamilyWeight(familyID int) float64
	// PickSite selects a site from familyID weighted by k(s)*affinity(s),
	// given a target in [0, FamilyWeight(familyID)).
	PickSite(familyID int, target float64) (siteID int, err error)
	SiteInterval(siteID int) (SiteInterval, error)
	// FreeOffset picks uniformly among the site's currently free start
	// offsets, given u in [0,1).
	FreeOffset(siteID int, u float64) (offset int, err error)
	// IsStallSite reports whether a bound unit's footprint starting at
	// position on sequence seqID should refuse to move further.
	IsStallSite(seqID, position int) bool
}

// SequenceAccess is the subset of cell-state operations that mutate or
// query sequence occupancy.
type SequenceAccess interface {
	SequenceLength(seqID int) int
	// CanOccupy reports whether [first,last] on seqID is entirely free and
	// within a completed or partial strand, without mutating anything.
	CanOccupy(seqID, first, last int) bool
	Bind(seqID, first, last int) error
	Unbind(seqID, first, last int) error
}

// TableAccess is the subset of cell-state operations that read loading /
// product tables keyed by template position.
type TableAccess interface {
	LookupProduct(tableID, seqID, position int) (productID int, ok bool)
}

// State is the full contract a Reaction's Rate/Apply methods are given. It
// is implemented by repos/cellstate; domain itself never depends on repos.
type State interface {
	ChemicalAccess
	SiteAccess
	SequenceAccess
	TableAccess
	Volume() float64
	RNG() rng.Source
}
