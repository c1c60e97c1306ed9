// Package inputparser defines the callback contract an external network
// description parser uses to populate a cell state. Loading
// the wire format itself — whatever shape the external network file takes
// — is out of scope; this package only fixes the shape a parser must
// target, the way repos/zone.go's loader shape is documented against
// services/resolver's ZoneCache interface without resolver depending on
// repos/zone directly.
package inputparser

import "github.com/cellsim/cellsim/internal/sim/domain"

// Registrar is driven by an external parser as it reads a network
// description. No type in this module implements it; repos/cellstate.CellState
// exposes its own construction methods (AddFreeChemical, AddSequence,
// AddFamily, AddTable, RegisterSite) instead. One call per entity
// or reaction discovered, in any order the parser's source format allows
// (a registrar may defer wiring that needs a forward reference, such as
// RegisterSite needing its family and sequence already registered).
type Registrar interface {
	// RegisterReactant adds a free chemical, bound chemical, or sequence
	// reactant, returning the stable id assigned to name.
	RegisterReactant(kind ReactantKind, name string, initial int) (id int, err error)

	// RegisterReaction adds a fully-specified reaction of kind impl, using
	// already-registered reactant ids as its reactants/products.
	RegisterReaction(impl domain.ReactionImpl) (index int, err error)

	// RegisterFamily adds an (initially empty) binding-site family.
	RegisterFamily(name string) (familyID int, err error)

	// RegisterSite attaches a binding site to an already-registered family
	// and sequence.
	RegisterSite(familyID, seqID, first, last, frame, width int, affinity float64) (siteID int, err error)

	// RegisterTable adds a loading/product table under a stable table id.
	RegisterTable(name string, capacity int) (tableID int, err error)
}

// ReactantKind distinguishes the three reactant shapes a parser can
// register.
type ReactantKind uint8

const (
	ReactantFree ReactantKind = iota
	ReactantBound
	ReactantSequence
)
