package domain

// Release is a bound unit dissociating from its sequence, optionally
// producing a polymer read from the product table, and clearing occupancy
// over its footprint.
type Release struct {
	BoundID      int
	TableID      int
	Width        int
	RateConstant float64
	// HasProduct gates whether a dissociation reads a product id from the
	// table, at the released unit's position, after freeing the footprint.
	// Reactions with no product table
	// (plain dissociation) leave this false.
	HasProduct bool
	// FamilyIDs lists every BindingSiteFamily id registered on a sequence
	// this reaction's bound units could occupy: the footprint freed by
	// Unbind can change k(s) and hence Weight() for any of them.
	FamilyIDs []int
}

var _ ReactionImpl = (*Release)(nil)

func (r *Release) Rate(s State) float64 {
	return r.RateConstant * float64(s.BoundCount(r.BoundID))
}

func (r *Release) Apply(s State) (bool, error) {
	n := s.BoundCount(r.BoundID)
	if n == 0 || r.Rate(s) == 0 {
		return false, nil
	}
	idx := int(s.RNG().Uniform() * float64(n))
	unit, err := s.RemoveBoundUnitAt(r.BoundID, idx)
	if err != nil {
		return false, err
	}
	if err := s.Unbind(unit.SequenceID, unit.Position, unit.Position+r.Width-1); err != nil {
		return false, err
	}
	if r.HasProduct {
		if productID, ok := s.LookupProduct(r.TableID, unit.SequenceID, unit.Position); ok {
			if err := s.AddFree(productID, 1); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}

func (r *Release) Reactants() []int { return []int{r.BoundID} }
func (r *Release) Products() []int  { return append([]int{r.BoundID}, r.FamilyIDs...) }
