package domain

import "math"

// ChemicalReaction is a stoichiometric reaction among free chemicals: rate() = k_f · Π C(reactant_i)^ν_i · V^(1-Σν_i), apply() decrements
// reactant counts and increments product counts by their stoichiometry.
type ChemicalReaction struct {
	ReactantIDs    []int
	ReactantStoich []int
	ProductIDs     []int
	ProductStoich  []int
	RateConstant   float64
}

var _ ReactionImpl = (*ChemicalReaction)(nil)

func (c *ChemicalReaction) Rate(s State) float64 {
	rate := c.RateConstant
	totalOrder := 0
	for i, id := range c.ReactantIDs {
		nu := c.ReactantStoich[i]
		totalOrder += nu
		count := float64(s.FreeCount(id))
		rate *= math.Pow(count, float64(nu))
	}
	// V^(1-Σν): a bimolecular+ reaction's rate scales down with volume,
	// a first-order reaction's does not, and a zero-order reaction's
	// scales up with it.
	exp := 1 - totalOrder
	if exp != 0 {
		rate *= math.Pow(s.Volume(), float64(exp))
	}
	return rate
}

func (c *ChemicalReaction) Apply(s State) (bool, error) {
	if c.Rate(s) == 0 {
		return false, nil
	}
	for i, id := range c.ReactantIDs {
		if err := s.AddFree(id, -c.ReactantStoich[i]); err != nil {
			return false, err
		}
	}
	for i, id := range c.ProductIDs {
		if err := s.AddFree(id, c.ProductStoich[i]); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (c *ChemicalReaction) Reactants() []int { return c.ReactantIDs }
func (c *ChemicalReaction) Products() []int  { return c.ProductIDs }
