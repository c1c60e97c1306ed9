// Package cellstate implements the cell's entity registry: the
// single domain.State façade a Solver drives, owning every flat arena of
// reactants, binding sites, and sequence occupancy, indexed by stable
// integer ids. Grounded on repos/zonecache's concurrent-safe map-registry
// shape and its compile-time interface assertion.
package cellstate

import (
	"fmt"
	"sync"

	"github.com/cellsim/cellsim/internal/sim/common/rng"
	"github.com/cellsim/cellsim/internal/sim/domain"
	"github.com/cellsim/cellsim/internal/sim/repos/loadingtable"
	"github.com/cellsim/cellsim/internal/sim/repos/sequence"
	"github.com/cellsim/cellsim/internal/sim/services/selector"
)

// CellState is the concrete domain.State implementation: one cell's full
// reactant population plus the sequence occupancy and loading tables that
// back it.
type CellState struct {
	mu sync.RWMutex

	free   map[int]*domain.FreeChemical
	bound  map[int]*domain.BoundChemical
	seqs   map[int]*domain.ChemicalSequence
	occ    map[int]*sequence.Occupancy // seqID -> occupancy
	sites  map[int]*domain.BindingSite
	fams   map[int]*domain.BindingSiteFamily
	tables *loadingtable.Registry

	stall map[int]map[int]bool // seqID -> position -> is a stalling site

	volume float64
	rngSrc rng.Source
}

var _ domain.State = (*CellState)(nil)

// New allocates an empty CellState. volume must be > 0; source supplies
// every random draw a reaction or the solver performs against this state.
func New(volume float64, source rng.Source) (*CellState, error) {
	if volume <= 0 {
		return nil, fmt.Errorf("cellstate: volume must be > 0, got %v", volume)
	}
	if source == nil {
		return nil, fmt.Errorf("cellstate: rng source must not be nil")
	}
	return &CellState{
		free:   make(map[int]*domain.FreeChemical),
		bound:  make(map[int]*domain.BoundChemical),
		seqs:   make(map[int]*domain.ChemicalSequence),
		occ:    make(map[int]*sequence.Occupancy),
		sites:  make(map[int]*domain.BindingSite),
		fams:   make(map[int]*domain.BindingSiteFamily),
		tables: loadingtable.NewRegistry(),
		stall:  make(map[int]map[int]bool),
		volume: volume,
		rngSrc: source,
	}, nil
}

// --- registration (construction-time wiring, not part of domain.State) ---

// AddFreeChemical registers a free reactant under its own id.
func (c *CellState) AddFreeChemical(f *domain.FreeChemical) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.free[f.ID()] = f
}

// AddBoundChemical registers an (initially empty) bound reactant.
func (c *CellState) AddBoundChemical(b *domain.BoundChemical) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bound[b.ID()] = b
}

// AddSequence registers a polymer and its occupancy tracker. complete marks
// a sequence that starts fully synthesized rather than growing from empty.
func (c *CellState) AddSequence(seq *domain.ChemicalSequence, complete bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seqs[seq.ID()] = seq
	c.occ[seq.ID()] = sequence.NewOccupancy(seq.Length(), complete)
}

// AddFamily registers a binding-site family (the weighted pool bind
// reactions draw from).
func (c *CellState) AddFamily(f *domain.BindingSiteFamily) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fams[f.ID()] = f
}

// AddTable registers a loading/product table under tableID.
func (c *CellState) AddTable(tableID int, t *loadingtable.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables.Add(tableID, t)
}

// AddStallSite marks position on seqID as a translocation stalling site.
func (c *CellState) AddStallSite(seqID, position int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.stall[seqID]
	if !ok {
		m = make(map[int]bool)
		c.stall[seqID] = m
	}
	m[position] = true
}

// RegisterSite adds site to its family's weighted pool and attaches its
// availability tracking to its sequence's occupancy. Must be called after
// the site's family and sequence are both registered.
func (c *CellState) RegisterSite(site *domain.BindingSite) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	fam, ok := c.fams[site.FamilyID()]
	if !ok {
		return fmt.Errorf("cellstate: site %d: family %d not registered", site.ID(), site.FamilyID())
	}
	occ, ok := c.occ[site.SequenceID()]
	if !ok {
		return fmt.Errorf("cellstate: site %d: sequence %d not registered", site.ID(), site.SequenceID())
	}
	if err := fam.Register(site); err != nil {
		return err
	}
	k, err := occ.RegisterSite(site.ID(), fam, site.First(), site.Last(), site.Width())
	if err != nil {
		return err
	}
	if err := fam.SetInitialAvailability(site.ID(), k); err != nil {
		return err
	}
	c.sites[site.ID()] = site
	return nil
}

// FreeChemicalIDs returns every registered free-chemical id, in no
// particular order. Used by cmd/cellsimd to build the chemical log columns
// and checkpoint snapshots.
func (c *CellState) FreeChemicalIDs() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]int, 0, len(c.free))
	for id := range c.free {
		ids = append(ids, id)
	}
	return ids
}

// BoundChemicalIDs returns every registered bound-chemical id.
func (c *CellState) BoundChemicalIDs() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]int, 0, len(c.bound))
	for id := range c.bound {
		ids = append(ids, id)
	}
	return ids
}

// --- domain.ChemicalAccess ---

func (c *CellState) FreeCount(id int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if f, ok := c.free[id]; ok {
		return f.Count()
	}
	return 0
}

func (c *CellState) SetFreeCount(id, count int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.free[id]
	if !ok {
		return fmt.Errorf("cellstate: free reactant %d not registered", id)
	}
	return f.SetCount(count)
}

func (c *CellState) AddFree(id, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.free[id]
	if !ok {
		return fmt.Errorf("cellstate: free reactant %d not registered", id)
	}
	return f.Add(delta)
}

func (c *CellState) BoundCount(id int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if b, ok := c.bound[id]; ok {
		return b.Count()
	}
	return 0
}

func (c *CellState) BoundUnitAt(id, index int) (domain.BoundUnit, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bound[id]
	if !ok {
		return domain.BoundUnit{}, fmt.Errorf("cellstate: bound reactant %d not registered", id)
	}
	units := b.Units()
	if index < 0 || index >= len(units) {
		return domain.BoundUnit{}, fmt.Errorf("cellstate: bound reactant %d: index %d out of range [0,%d)", id, index, len(units))
	}
	return units[index], nil
}

func (c *CellState) AddBoundUnit(id int, u domain.BoundUnit) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bound[id]
	if !ok {
		return fmt.Errorf("cellstate: bound reactant %d not registered", id)
	}
	b.AddUnit(u)
	return nil
}

func (c *CellState) RemoveBoundUnitAt(id, index int) (domain.BoundUnit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bound[id]
	if !ok {
		return domain.BoundUnit{}, fmt.Errorf("cellstate: bound reactant %d not registered", id)
	}
	return b.RemoveUnitAt(index)
}

func (c *CellState) ReplaceBoundUnitAt(id, index int, u domain.BoundUnit) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bound[id]
	if !ok {
		return fmt.Errorf("cellstate: bound reactant %d not registered", id)
	}
	return b.ReplaceUnitAt(index, u)
}

// --- domain.SiteAccess ---

func (c *CellState) FamilyWeight(familyID int) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if f, ok := c.fams[familyID]; ok {
		return f.Weight()
	}
	return 0
}

func (c *CellState) PickSite(familyID int, target float64) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fam, ok := c.fams[familyID]
	if !ok {
		return 0, fmt.Errorf("cellstate: family %d not registered", familyID)
	}
	ids := fam.SiteIDs()
	weights := make([]float64, len(ids))
	for i, id := range ids {
		site := c.sites[id]
		weights[i] = float64(fam.Availability(id)) * site.Affinity()
	}
	idx, err := selector.Pick(weights, fam.Weight(), target)
	if err != nil {
		return 0, err
	}
	return ids[idx], nil
}

func (c *CellState) SiteInterval(siteID int) (domain.SiteInterval, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	site, ok := c.sites[siteID]
	if !ok {
		return domain.SiteInterval{}, fmt.Errorf("cellstate: site %d not registered", siteID)
	}
	return domain.SiteInterval{
		SequenceID: site.SequenceID(),
		First:      site.First(),
		Last:       site.Last(),
		Width:      site.Width(),
		Frame:      site.Frame(),
	}, nil
}

func (c *CellState) FreeOffset(siteID int, u float64) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	site, ok := c.sites[siteID]
	if !ok {
		return 0, fmt.Errorf("cellstate: site %d not registered", siteID)
	}
	occ, ok := c.occ[site.SequenceID()]
	if !ok {
		return 0, fmt.Errorf("cellstate: sequence %d not registered", site.SequenceID())
	}
	return occ.FreeOffset(siteID, u)
}

func (c *CellState) IsStallSite(seqID, position int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.stall[seqID]
	if !ok {
		return false
	}
	return m[position]
}

// --- domain.SequenceAccess ---

func (c *CellState) SequenceLength(seqID int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if s, ok := c.seqs[seqID]; ok {
		return s.Length()
	}
	return 0
}

func (c *CellState) CanOccupy(seqID, first, last int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	occ, ok := c.occ[seqID]
	if !ok {
		return false
	}
	return occ.CanOccupy(first, last)
}

func (c *CellState) Bind(seqID, first, last int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	occ, ok := c.occ[seqID]
	if !ok {
		return fmt.Errorf("cellstate: sequence %d not registered", seqID)
	}
	return occ.Bind(first, last)
}

func (c *CellState) Unbind(seqID, first, last int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	occ, ok := c.occ[seqID]
	if !ok {
		return fmt.Errorf("cellstate: sequence %d not registered", seqID)
	}
	return occ.Unbind(first, last)
}

// Grow synthesizes [first,last] of a partial strand, exposed
// alongside domain.SequenceAccess for loading reactions that extend a
// growing template.
func (c *CellState) Grow(seqID, first, last int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	occ, ok := c.occ[seqID]
	if !ok {
		return fmt.Errorf("cellstate: sequence %d not registered", seqID)
	}
	return occ.Grow(first, last)
}

// --- domain.TableAccess ---

func (c *CellState) LookupProduct(tableID, seqID, position int) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tables.LookupProduct(tableID, seqID, position)
}

// --- remaining domain.State methods ---

func (c *CellState) Volume() float64 { return c.volume }

func (c *CellState) RNG() rng.Source { return c.rngSrc }
