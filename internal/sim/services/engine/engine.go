// Package engine composes the solver, rate manager, and cell state into
// the single facade a caller drives: the set_chemical_number /
// simulation_time / next_reaction_time surface. Checkpoint persistence is
// not part of the engine; cmd/cellsimd saves checkpoints itself.
// Grounded on services/resolver.Resolver's struct-of-
// collaborators + Options pattern, using narrow interfaces rather than
// concrete repo/infra types so engine stays free of any import-direction
// inversion.
package engine

import (
	"fmt"

	"github.com/cellsim/cellsim/internal/sim/common/log"
	"github.com/cellsim/cellsim/internal/sim/domain"
)

// IgnoredVariationPolicy selects what SetChemicalNumber/SetChemicals do to
// dependent reaction rates.
type IgnoredVariationPolicy string

const (
	// PolicyVisible makes an overwrite immediately visible to dependent
	// reaction rates, same as any other mutation.
	PolicyVisible IgnoredVariationPolicy = "visible"
	// PolicyCounted leaves dependent rates stale and increments a
	// per-reactant "ignored variation" counter instead of notifying the
	// rate manager. This is the default.
	PolicyCounted IgnoredVariationPolicy = "counted"
)

// State is the narrow slice of repos/cellstate.CellState the engine needs
// beyond domain.State itself.
type State interface {
	domain.State
}

// RateManager is the subset of services/ratemanager.Manager the engine
// needs to notify about an external overwrite.
type RateManager interface {
	NotifyReactantChanged(reactantID int)
}

// Solver is the subset of services/solver.Solver the engine drives.
type Solver interface {
	PerformNextReaction() (firedIndex int, dt float64, err error)
	Skip(delta float64) error
	NextReactionTime() (float64, error)
	SimulationTime() float64
}

// Options bundles an Engine's collaborators.
type Options struct {
	State   State
	Solver  Solver
	Manager RateManager
	Policy  IgnoredVariationPolicy
	Logger  log.Logger
}

// Engine is the facade a caller drives: set_chemical_number,
// simulation_time, next_reaction_time, and friends, each delegating to its
// collaborator.
type Engine struct {
	state   State
	solver  Solver
	manager RateManager
	policy  IgnoredVariationPolicy
	logger  log.Logger

	ignored map[int]int // reactant id -> ignored-variation count
}

// New constructs an Engine. Policy defaults to PolicyCounted if empty.
func New(opts Options) *Engine {
	policy := opts.Policy
	if policy == "" {
		policy = PolicyCounted
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Engine{
		state:   opts.State,
		solver:  opts.Solver,
		manager: opts.Manager,
		policy:  policy,
		logger:  logger,
		ignored: make(map[int]int),
	}
}

// PerformNextReaction advances the simulation by one reaction.
func (e *Engine) PerformNextReaction() (firedIndex int, dt float64, err error) {
	return e.solver.PerformNextReaction()
}

// Skip advances simulation time by delta without firing a reaction.
func (e *Engine) Skip(delta float64) error {
	return e.solver.Skip(delta)
}

// NextReactionTime draws a Δt from the distribution PerformNextReaction
// uses, without applying a reaction; see solver.NextReactionTime.
func (e *Engine) NextReactionTime() (float64, error) {
	return e.solver.NextReactionTime()
}

// SimulationTime reports the current simulation clock.
func (e *Engine) SimulationTime() float64 {
	return e.solver.SimulationTime()
}

// Volume reports the reaction volume.
func (e *Engine) Volume() float64 {
	return e.state.Volume()
}

// ChemicalNumber reports a free reactant's current count.
func (e *Engine) ChemicalNumber(reactantID int) int {
	return e.state.FreeCount(reactantID)
}

// ChemicalIgnoredVariation reports how many times an overwrite to
// reactantID was applied without notifying dependent reaction rates
// (always 0 under PolicyVisible).
func (e *Engine) ChemicalIgnoredVariation(reactantID int) int {
	return e.ignored[reactantID]
}

// SetChemicalNumber overwrites a free reactant's count. Under
// PolicyCounted, dependent rates are left stale and the ignored-variation
// counter is incremented; under PolicyVisible, the rate manager is
// notified immediately.
func (e *Engine) SetChemicalNumber(reactantID, count int) error {
	if err := e.state.SetFreeCount(reactantID, count); err != nil {
		return fmt.Errorf("engine: set chemical number: %w", err)
	}
	e.applyPolicy(reactantID)
	return nil
}

// SetChemicals overwrites several free reactants' counts in one call,
// with the same policy semantics as SetChemicalNumber per reactant.
func (e *Engine) SetChemicals(counts map[int]int) error {
	for id, count := range counts {
		if err := e.SetChemicalNumber(id, count); err != nil {
			return err
		}
	}
	return nil
}

// ResetIgnoredVariation zeroes the ignored-variation counter for
// reactantID.
func (e *Engine) ResetIgnoredVariation(reactantID int) {
	delete(e.ignored, reactantID)
}

func (e *Engine) applyPolicy(reactantID int) {
	switch e.policy {
	case PolicyVisible:
		e.manager.NotifyReactantChanged(reactantID)
	default: // PolicyCounted
		e.ignored[reactantID]++
		e.logger.Debug(map[string]any{"reactant": reactantID, "count": e.ignored[reactantID]},
			"chemical overwrite left dependent rates stale")
	}
}
