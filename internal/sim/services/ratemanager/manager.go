// Package ratemanager implements the rate manager: it owns a
// rate container and a rate-validity queue, draining stale reaction
// indices into recomputed rates. Three variants differ only in how
// invalidations reach the queue, selected through an enum-switch factory
// in the style of gateways/transport/factory.go.
package ratemanager

import (
	"fmt"

	"github.com/cellsim/cellsim/internal/sim/domain"
	"github.com/cellsim/cellsim/internal/sim/infra/ratecontainer"
	"github.com/cellsim/cellsim/internal/sim/infra/validity"
)

// Variant selects how the manager generates invalidations.
type Variant string

const (
	// VariantNaive ignores the validity queue; every drain recomputes all
	// reactions. Used as a correctness baseline.
	VariantNaive Variant = "naive"
	// VariantDependency looks up, on demand, the reaction indices whose
	// rate depends on a changed reactant, caching the lookup the first
	// time each reactant is touched.
	VariantDependency Variant = "dependency"
	// VariantGraph builds the full reactant->reaction dependency graph
	// eagerly, by scanning every reaction's declared reactant list once
	// at construction.
	VariantGraph Variant = "graph"
)

// Manager owns a Container and a validity Queue and keeps rates consistent
// with live reactant state.
type Manager struct {
	variant   Variant
	reactions []*domain.Reaction
	container ratecontainer.Container
	queue     *validity.Queue
	deps      map[int][]int // reactant id -> reaction indices, populated per variant
}

// New constructs a Manager for the given reaction set and rate container.
// container must already be sized for len(reactions). Every reaction index
// is invalidated immediately so the first Update() establishes invariant
// I2 (every stored rate equals rate() on current state).
func New(variant Variant, reactions []*domain.Reaction, container ratecontainer.Container) (*Manager, error) {
	switch variant {
	case VariantNaive, VariantDependency, VariantGraph:
	default:
		return nil, fmt.Errorf("ratemanager: unsupported variant %q", variant)
	}
	m := &Manager{
		variant:   variant,
		reactions: reactions,
		container: container,
		queue:     validity.NewQueue(len(reactions)),
		deps:      make(map[int][]int),
	}
	if variant == VariantGraph {
		m.buildFullGraph()
	}
	for i := range reactions {
		m.queue.Invalidate(i)
	}
	return m, nil
}

func (m *Manager) buildFullGraph() {
	for i, r := range m.reactions {
		for _, reactantID := range r.Reactants() {
			m.deps[reactantID] = append(m.deps[reactantID], i)
		}
	}
}

// reactionsDependingOn returns every reaction index whose declared
// reactant list includes reactantID, computing and caching it lazily for
// the dependency variant (the graph variant already has it cached).
func (m *Manager) reactionsDependingOn(reactantID int) []int {
	if idx, ok := m.deps[reactantID]; ok {
		return idx
	}
	var idx []int
	for i, r := range m.reactions {
		for _, id := range r.Reactants() {
			if id == reactantID {
				idx = append(idx, i)
				break
			}
		}
	}
	m.deps[reactantID] = idx
	return idx
}

// InvalidateIndex pushes reaction index i directly onto the validity
// queue, used when a reaction's own apply() reports no effect and must be
// re-invalidated.
func (m *Manager) InvalidateIndex(i int) {
	m.queue.Invalidate(i)
}

// NotifyReactantChanged invalidates every reaction whose rate depends on
// reactantID. For the naive variant this is a no-op: Update() recomputes
// every reaction regardless of what's queued.
func (m *Manager) NotifyReactantChanged(reactantID int) {
	if m.variant == VariantNaive {
		return
	}
	for _, i := range m.reactionsDependingOn(reactantID) {
		m.queue.Invalidate(i)
	}
}

// Update drains the validity queue: for each unique stale index, recompute
// rate() and write it into the container. The naive variant recomputes
// every reaction unconditionally (and clears the queue so later Update
// calls don't redundantly repeat work already covered by this pass).
func (m *Manager) Update(s domain.State) error {
	if m.variant == VariantNaive {
		m.queue.Drain()
		for i, r := range m.reactions {
			if err := m.container.Set(i, r.Rate(s)); err != nil {
				return err
			}
		}
		return nil
	}
	for _, i := range m.queue.Drain() {
		r := m.reactions[i]
		if err := m.container.Set(i, r.Rate(s)); err != nil {
			return err
		}
	}
	return nil
}

// Total delegates to the container. Must be preceded by Update so rates
// are live.
func (m *Manager) Total() float64 { return m.container.Total() }

// Pick delegates to the container.
func (m *Manager) Pick(u float64) (int, error) { return m.container.Pick(u) }
