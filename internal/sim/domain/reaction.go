package domain

// ReactionImpl is the per-kind behavior a Reaction dispatches to. Each
// variant in the reaction*.go files implements this; Reaction itself is a
// thin tagged wrapper.
type ReactionImpl interface {
	// Rate computes the current rate given live state. Must be pure: it
	// may read s but must not mutate it.
	Rate(s State) float64
	// Apply performs the reaction's effect. Returns applied=false (no
	// error) when the rate was stale and evaluated to zero at apply time
	// — the caller must re-invalidate this reaction's index.
	Apply(s State) (applied bool, err error)
	// Reactants returns every id this variant's rate() depends on, used to
	// build the dependency graph. A BindingSiteFamily id counts as a
	// reactant id here: a rate that reads FamilyWeight must declare the
	// family, not just the free/bound chemicals it also reads.
	Reactants() []int
	// Products returns every id this variant's apply() mutates that isn't
	// already listed by Reactants. A reaction whose apply() calls
	// Bind/Unbind must declare every BindingSiteFamily id whose weight
	// that bind/unbind could change, even families it never reads itself,
	// so a sibling reaction sharing the same family gets invalidated too.
	Products() []int
}

// Reaction is a registered reaction: a stable index, a kind tag, and the
// kind-specific implementation.
type Reaction struct {
	index int
	kind  ReactionKind
	impl  ReactionImpl
}

// NewReaction wraps impl with a stable index and kind tag. index is
// assigned by repos/cellstate at registration time and never changes.
func NewReaction(index int, kind ReactionKind, impl ReactionImpl) *Reaction {
	return &Reaction{index: index, kind: kind, impl: impl}
}

func (r *Reaction) Index() int          { return r.index }
func (r *Reaction) Kind() ReactionKind   { return r.kind }
func (r *Reaction) Rate(s State) float64 { return r.impl.Rate(s) }

func (r *Reaction) Apply(s State) (bool, error) {
	return r.impl.Apply(s)
}

func (r *Reaction) Reactants() []int { return r.impl.Reactants() }
func (r *Reaction) Products() []int  { return r.impl.Products() }
