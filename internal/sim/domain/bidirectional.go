package domain

// BidirectionalPair wraps a forward and backward ReactionImpl that share
// reactants and are registered as two independent reactions with a common
// rate constant pair. It is not itself a ReactionImpl: the
// forward and backward halves are registered as separate Reaction entries
// (each gets its own index in the rate container), and BidirectionalPair
// only exists to construct both halves from one declaration so callers
// never have to keep k_f and k_b in sync by hand.
type BidirectionalPair struct {
	Forward  ReactionImpl
	Backward ReactionImpl
}

// NewBidirectionalChemicalPair builds the forward and backward
// ChemicalReaction halves of a reversible reaction A ⇌ B sharing the same
// stoichiometry mirrored between reactants and products.
func NewBidirectionalChemicalPair(reactantIDs, reactantStoich, productIDs, productStoich []int, kf, kb float64) *BidirectionalPair {
	return &BidirectionalPair{
		Forward: &ChemicalReaction{
			ReactantIDs:    reactantIDs,
			ReactantStoich: reactantStoich,
			ProductIDs:     productIDs,
			ProductStoich:  productStoich,
			RateConstant:   kf,
		},
		Backward: &ChemicalReaction{
			ReactantIDs:    productIDs,
			ReactantStoich: productStoich,
			ProductIDs:     reactantIDs,
			ProductStoich:  reactantStoich,
			RateConstant:   kb,
		},
	}
}
