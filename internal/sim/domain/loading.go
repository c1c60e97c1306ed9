package domain

// Loading is a bound unit (e.g. a polymerase) consuming one templated free
// chemical per step and advancing its reading frame; the step's product, if
// any, is read from a loading table keyed by the post-step template
// position.
//
// Reactants()/Products() report only the statically known reactant set
// (the bound chemical and the consumed template); the per-step product id
// is resolved dynamically from the table and is not wired into the
// dependency graph — a dependency/graph rate manager will fall back to
// treating this reaction's product reactants as always-invalidated by its
// own firing, which is sound but slightly coarser than a fully static graph.
type Loading struct {
	BoundID      int
	TemplateID   int
	TableID      int
	Width        int
	Step         int
	RateConstant float64
	// FamilyIDs lists every BindingSiteFamily id registered on a sequence
	// this reaction's bound units could occupy, for the same reason
	// Translocation.FamilyIDs exists: a successful step's Bind/Unbind can
	// change any of their cached weights.
	FamilyIDs []int
}

var _ ReactionImpl = (*Loading)(nil)

func (l *Loading) Rate(s State) float64 {
	return l.RateConstant * float64(s.BoundCount(l.BoundID)) * float64(s.FreeCount(l.TemplateID))
}

func (l *Loading) Apply(s State) (bool, error) {
	n := s.BoundCount(l.BoundID)
	if n == 0 || l.Rate(s) == 0 {
		return false, nil
	}
	start := int(s.RNG().Uniform() * float64(n))
	for attempt := 0; attempt < n; attempt++ {
		idx := (start + attempt) % n
		unit, err := s.BoundUnitAt(l.BoundID, idx)
		if err != nil {
			return false, err
		}
		newPos := unit.Position + l.Step
		if newPos < 0 || newPos+l.Width-1 >= s.SequenceLength(unit.SequenceID) {
			continue
		}
		if s.IsStallSite(unit.SequenceID, newPos) {
			continue
		}
		if !s.CanOccupy(unit.SequenceID, newPos, newPos+l.Width-1) {
			continue
		}
		if err := s.Unbind(unit.SequenceID, unit.Position, unit.Position+l.Width-1); err != nil {
			return false, err
		}
		if err := s.Bind(unit.SequenceID, newPos, newPos+l.Width-1); err != nil {
			return false, err
		}
		if err := s.AddFree(l.TemplateID, -1); err != nil {
			return false, err
		}
		if productID, ok := s.LookupProduct(l.TableID, unit.SequenceID, newPos); ok {
			if err := s.AddFree(productID, 1); err != nil {
				return false, err
			}
		}
		if err := s.ReplaceBoundUnitAt(l.BoundID, idx, BoundUnit{
			SequenceID: unit.SequenceID,
			Position:   newPos,
			Frame:      unit.Frame,
		}); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (l *Loading) Reactants() []int { return []int{l.BoundID, l.TemplateID} }
func (l *Loading) Products() []int  { return append([]int{l.BoundID}, l.FamilyIDs...) }

// ProductLoading is Loading's variant for a growing polymer product: instead
// of incrementing a free product count, a successful step whose new
// position has a loading-table entry appends a bound unit to the
// nascent-product bound chemical at that position, modeling chain
// elongation.
type ProductLoading struct {
	BoundID      int
	TemplateID   int
	ProductID    int
	TableID      int
	Width        int
	Step         int
	RateConstant float64
	// FamilyIDs lists every BindingSiteFamily id registered on a sequence
	// this reaction's bound units could occupy; see Loading.FamilyIDs.
	FamilyIDs []int
}

var _ ReactionImpl = (*ProductLoading)(nil)

func (p *ProductLoading) Rate(s State) float64 {
	return p.RateConstant * float64(s.BoundCount(p.BoundID)) * float64(s.FreeCount(p.TemplateID))
}

func (p *ProductLoading) Apply(s State) (bool, error) {
	n := s.BoundCount(p.BoundID)
	if n == 0 || p.Rate(s) == 0 {
		return false, nil
	}
	start := int(s.RNG().Uniform() * float64(n))
	for attempt := 0; attempt < n; attempt++ {
		idx := (start + attempt) % n
		unit, err := s.BoundUnitAt(p.BoundID, idx)
		if err != nil {
			return false, err
		}
		newPos := unit.Position + p.Step
		if newPos < 0 || newPos+p.Width-1 >= s.SequenceLength(unit.SequenceID) {
			continue
		}
		if s.IsStallSite(unit.SequenceID, newPos) {
			continue
		}
		if !s.CanOccupy(unit.SequenceID, newPos, newPos+p.Width-1) {
			continue
		}
		if err := s.Unbind(unit.SequenceID, unit.Position, unit.Position+p.Width-1); err != nil {
			return false, err
		}
		if err := s.Bind(unit.SequenceID, newPos, newPos+p.Width-1); err != nil {
			return false, err
		}
		if err := s.AddFree(p.TemplateID, -1); err != nil {
			return false, err
		}
		if _, ok := s.LookupProduct(p.TableID, unit.SequenceID, newPos); ok {
			if err := s.AddBoundUnit(p.ProductID, BoundUnit{
				SequenceID: unit.SequenceID,
				Position:   newPos,
				Frame:      unit.Frame,
			}); err != nil {
				return false, err
			}
		}
		if err := s.ReplaceBoundUnitAt(p.BoundID, idx, BoundUnit{
			SequenceID: unit.SequenceID,
			Position:   newPos,
			Frame:      unit.Frame,
		}); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (p *ProductLoading) Reactants() []int { return []int{p.BoundID, p.TemplateID} }
func (p *ProductLoading) Products() []int {
	return append([]int{p.BoundID, p.ProductID}, p.FamilyIDs...)
}

// DoubleStrandLoading extends Loading to the double-strand recruitment case
// (supplemented feature): each step consumes both a primary template and a
// partner strand chemical, modeling a polymerase that requires a
// complementary strand present before advancing.
type DoubleStrandLoading struct {
	BoundID      int
	TemplateID   int
	PartnerID    int
	TableID      int
	Width        int
	Step         int
	RateConstant float64
	// FamilyIDs lists every BindingSiteFamily id registered on a sequence
	// this reaction's bound units could occupy; see Loading.FamilyIDs.
	FamilyIDs []int
}

var _ ReactionImpl = (*DoubleStrandLoading)(nil)

func (d *DoubleStrandLoading) Rate(s State) float64 {
	return d.RateConstant * float64(s.BoundCount(d.BoundID)) *
		float64(s.FreeCount(d.TemplateID)) * float64(s.FreeCount(d.PartnerID))
}

func (d *DoubleStrandLoading) Apply(s State) (bool, error) {
	n := s.BoundCount(d.BoundID)
	if n == 0 || d.Rate(s) == 0 {
		return false, nil
	}
	start := int(s.RNG().Uniform() * float64(n))
	for attempt := 0; attempt < n; attempt++ {
		idx := (start + attempt) % n
		unit, err := s.BoundUnitAt(d.BoundID, idx)
		if err != nil {
			return false, err
		}
		newPos := unit.Position + d.Step
		if newPos < 0 || newPos+d.Width-1 >= s.SequenceLength(unit.SequenceID) {
			continue
		}
		if s.IsStallSite(unit.SequenceID, newPos) {
			continue
		}
		if !s.CanOccupy(unit.SequenceID, newPos, newPos+d.Width-1) {
			continue
		}
		if err := s.Unbind(unit.SequenceID, unit.Position, unit.Position+d.Width-1); err != nil {
			return false, err
		}
		if err := s.Bind(unit.SequenceID, newPos, newPos+d.Width-1); err != nil {
			return false, err
		}
		if err := s.AddFree(d.TemplateID, -1); err != nil {
			return false, err
		}
		if err := s.AddFree(d.PartnerID, -1); err != nil {
			return false, err
		}
		if productID, ok := s.LookupProduct(d.TableID, unit.SequenceID, newPos); ok {
			if err := s.AddFree(productID, 1); err != nil {
				return false, err
			}
		}
		if err := s.ReplaceBoundUnitAt(d.BoundID, idx, BoundUnit{
			SequenceID: unit.SequenceID,
			Position:   newPos,
			Frame:      unit.Frame,
		}); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (d *DoubleStrandLoading) Reactants() []int {
	return []int{d.BoundID, d.TemplateID, d.PartnerID}
}
func (d *DoubleStrandLoading) Products() []int {
	return append([]int{d.BoundID}, d.FamilyIDs...)
}
