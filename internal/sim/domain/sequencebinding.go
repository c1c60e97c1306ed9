package domain

// SequenceBinding is a free chemical binding to any site in a family: rate() = k · C(free) · Σ k(s)·a(s); apply() picks a site weighted
// by k(s)·a(s), picks a free offset within that site uniformly, creates a
// bound unit, and decrements the free count.
type SequenceBinding struct {
	FreeID       int
	BoundID      int // reactant receiving the new bound unit
	FamilyID     int
	RateConstant float64
	// FamilyIDs lists every other BindingSiteFamily id registered on a
	// sequence this family's sites lie on: the footprint occupied by Bind
	// can change k(s) and hence Weight() for any of them.
	FamilyIDs []int
}

var _ ReactionImpl = (*SequenceBinding)(nil)

func (b *SequenceBinding) Rate(s State) float64 {
	return b.RateConstant * float64(s.FreeCount(b.FreeID)) * s.FamilyWeight(b.FamilyID)
}

func (b *SequenceBinding) Apply(s State) (bool, error) {
	if b.Rate(s) == 0 {
		return false, nil
	}
	weight := s.FamilyWeight(b.FamilyID)
	target := s.RNG().Uniform() * weight
	siteID, err := s.PickSite(b.FamilyID, target)
	if err != nil {
		return false, err
	}
	interval, err := s.SiteInterval(siteID)
	if err != nil {
		return false, err
	}
	offset, err := s.FreeOffset(siteID, s.RNG().Uniform())
	if err != nil {
		return false, err
	}
	if err := s.Bind(interval.SequenceID, offset, offset+interval.Width-1); err != nil {
		return false, err
	}
	if err := s.AddBoundUnit(b.BoundID, BoundUnit{
		SequenceID: interval.SequenceID,
		Position:   offset,
		Frame:      interval.Frame,
	}); err != nil {
		return false, err
	}
	if err := s.AddFree(b.FreeID, -1); err != nil {
		return false, err
	}
	return true, nil
}

// Reactants reports FreeID (read by Rate via FreeCount) and FamilyID (read
// by Rate via FamilyWeight): any reaction that mutates occupancy on a site
// in this family must be able to invalidate this reaction too, which only
// works if the family's id is itself a declared dependency.
func (b *SequenceBinding) Reactants() []int { return []int{b.FreeID, b.FamilyID} }
func (b *SequenceBinding) Products() []int  { return append([]int{b.BoundID}, b.FamilyIDs...) }
