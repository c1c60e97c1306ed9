package domain

import (
	"errors"

	"github.com/cellsim/cellsim/internal/sim/common/rng"
)

var (
	errNeg = errors.New("fakeState: would go negative")
	errOOB = errors.New("fakeState: index out of range")
)

// fakeState is a minimal State stub used across the domain package's
// reaction-kind tests, so each reaction variant can be exercised without
// pulling in repos/cellstate.
type fakeState struct {
	free     map[int]int
	volume   float64
	bound    map[int][]BoundUnit
	familyW  map[int]float64
	pickSite map[int]int // familyID -> siteID to return from PickSite
	sites    map[int]SiteInterval
	freeOff  map[int]int
	occupied map[[3]int]bool // [seqID,first,last] -> occupied
	products map[[3]int]int  // [tableID,seqID,position] -> productID
	stall    map[[2]int]bool
	seqLen   map[int]int
	rngSrc   rng.Source
}

func newFakeState() *fakeState {
	return &fakeState{
		free:     make(map[int]int),
		bound:    make(map[int][]BoundUnit),
		familyW:  make(map[int]float64),
		pickSite: make(map[int]int),
		sites:    make(map[int]SiteInterval),
		freeOff:  make(map[int]int),
		occupied: make(map[[3]int]bool),
		products: make(map[[3]int]int),
		stall:    make(map[[2]int]bool),
		seqLen:   make(map[int]int),
		volume:   1,
		rngSrc:   rng.NewRealSource(1),
	}
}

func (f *fakeState) FreeCount(id int) int { return f.free[id] }
func (f *fakeState) SetFreeCount(id, count int) error {
	if count < 0 {
		return errNeg
	}
	f.free[id] = count
	return nil
}
func (f *fakeState) AddFree(id, delta int) error {
	if f.free[id]+delta < 0 {
		return errNeg
	}
	f.free[id] += delta
	return nil
}
func (f *fakeState) BoundCount(id int) int { return len(f.bound[id]) }
func (f *fakeState) BoundUnitAt(id, idx int) (BoundUnit, error) {
	units := f.bound[id]
	if idx < 0 || idx >= len(units) {
		return BoundUnit{}, errOOB
	}
	return units[idx], nil
}
func (f *fakeState) AddBoundUnit(id int, u BoundUnit) error {
	f.bound[id] = append(f.bound[id], u)
	return nil
}
func (f *fakeState) RemoveBoundUnitAt(id, idx int) (BoundUnit, error) {
	units := f.bound[id]
	if idx < 0 || idx >= len(units) {
		return BoundUnit{}, errOOB
	}
	u := units[idx]
	f.bound[id] = append(units[:idx], units[idx+1:]...)
	return u, nil
}
func (f *fakeState) ReplaceBoundUnitAt(id, idx int, u BoundUnit) error {
	units := f.bound[id]
	if idx < 0 || idx >= len(units) {
		return errOOB
	}
	units[idx] = u
	return nil
}
func (f *fakeState) FamilyWeight(id int) float64 { return f.familyW[id] }
func (f *fakeState) PickSite(familyID int, target float64) (int, error) {
	siteID, ok := f.pickSite[familyID]
	if !ok {
		return 0, errOOB
	}
	return siteID, nil
}
func (f *fakeState) SiteInterval(siteID int) (SiteInterval, error) {
	si, ok := f.sites[siteID]
	if !ok {
		return SiteInterval{}, errOOB
	}
	return si, nil
}
func (f *fakeState) FreeOffset(siteID int, u float64) (int, error) {
	return f.freeOff[siteID], nil
}
func (f *fakeState) IsStallSite(seqID, position int) bool {
	return f.stall[[2]int{seqID, position}]
}
func (f *fakeState) SequenceLength(seqID int) int { return f.seqLen[seqID] }
func (f *fakeState) CanOccupy(seqID, first, last int) bool {
	return !f.occupied[[3]int{seqID, first, last}]
}
func (f *fakeState) Bind(seqID, first, last int) error {
	if f.occupied[[3]int{seqID, first, last}] {
		return errNeg
	}
	f.occupied[[3]int{seqID, first, last}] = true
	return nil
}
func (f *fakeState) Unbind(seqID, first, last int) error {
	f.occupied[[3]int{seqID, first, last}] = false
	return nil
}
func (f *fakeState) LookupProduct(tableID, seqID, position int) (int, bool) {
	id, ok := f.products[[3]int{tableID, seqID, position}]
	return id, ok
}
func (f *fakeState) Volume() float64    { return f.volume }
func (f *fakeState) RNG() rng.Source    { return f.rngSrc }

var _ State = (*fakeState)(nil)
