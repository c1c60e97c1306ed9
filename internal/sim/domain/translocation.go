package domain

// Translocation advances a bound unit along its sequence by a fixed step.
// rate() is proportional to k · |bound units of this kind|;
// apply() chooses one uniformly and moves it, retrying other units in the
// group if the chosen one would exit the sequence or land on a stalling
// site. If none of the group's units can move, the reaction reports no
// effect so the caller re-invalidates it.
type Translocation struct {
	BoundID      int
	Width        int
	Step         int
	RateConstant float64
	// FamilyIDs lists every BindingSiteFamily id registered on a sequence
	// this reaction's bound units could occupy: a successful move calls
	// Bind/Unbind, which can change k(s) and hence Weight() for any of
	// them, so each must be declared as a product to be invalidated.
	FamilyIDs []int
}

var _ ReactionImpl = (*Translocation)(nil)

func (t *Translocation) Rate(s State) float64 {
	return t.RateConstant * float64(s.BoundCount(t.BoundID))
}

func (t *Translocation) Apply(s State) (bool, error) {
	n := s.BoundCount(t.BoundID)
	if n == 0 || t.Rate(s) == 0 {
		return false, nil
	}
	start := int(s.RNG().Uniform() * float64(n))
	for attempt := 0; attempt < n; attempt++ {
		idx := (start + attempt) % n
		unit, err := s.BoundUnitAt(t.BoundID, idx)
		if err != nil {
			return false, err
		}
		newPos := unit.Position + t.Step
		if newPos < 0 || newPos+t.Width-1 >= s.SequenceLength(unit.SequenceID) {
			continue
		}
		if s.IsStallSite(unit.SequenceID, newPos) {
			continue
		}
		if !s.CanOccupy(unit.SequenceID, newPos, newPos+t.Width-1) {
			continue
		}
		if err := s.Unbind(unit.SequenceID, unit.Position, unit.Position+t.Width-1); err != nil {
			return false, err
		}
		if err := s.Bind(unit.SequenceID, newPos, newPos+t.Width-1); err != nil {
			return false, err
		}
		if err := s.ReplaceBoundUnitAt(t.BoundID, idx, BoundUnit{
			SequenceID: unit.SequenceID,
			Position:   newPos,
			Frame:      unit.Frame,
		}); err != nil {
			return false, err
		}
		return true, nil
	}
	// every bound unit in the group refused the move: rate was stale.
	return false, nil
}

func (t *Translocation) Reactants() []int { return []int{t.BoundID} }
func (t *Translocation) Products() []int  { return append([]int{t.BoundID}, t.FamilyIDs...) }
