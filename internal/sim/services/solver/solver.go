// Package solver implements the reaction step loop: next-reaction time and
// identity, time advance, and scripted-event dispatch between reactions.
// Grounded on services/resolver/resolver.go's struct-of-collaborators +
// Options pattern and alias.go's sentinel-error style.
package solver

import (
	"errors"
	"math"

	"github.com/cellsim/cellsim/internal/sim/common/log"
	"github.com/cellsim/cellsim/internal/sim/domain"
	"github.com/cellsim/cellsim/internal/sim/services/schedule"
)

// ErrNoReaction is returned by PerformNextReaction/NextReactionTime when
// the total rate is zero.
var ErrNoReaction = errors.New("solver: no reaction available, total rate is zero")

// ErrPendingEventBeforeSkip is returned by Skip when a scheduled event's
// time would fall strictly before the requested skip target.
var ErrPendingEventBeforeSkip = errors.New("solver: pending event before skip target")

// Phase is the solver loop state machine.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseReady
	PhaseStepping
)

// RateManager is the narrow slice of services/ratemanager.Manager the
// solver needs: drain-and-recompute, delegate total/pick, and the two
// invalidation entry points a firing reaction or a scripted event uses.
type RateManager interface {
	Update(s domain.State) error
	Total() float64
	Pick(u float64) (int, error)
	InvalidateIndex(i int)
	NotifyReactantChanged(reactantID int)
}

// Options bundles a Solver's collaborators (grounded on ResolverOptions).
type Options struct {
	Reactions   []*domain.Reaction
	Manager     RateManager
	Schedule    *schedule.Schedule
	State       domain.State
	Logger      log.Logger
	InitialTime float64
}

// Solver drives the Gillespie step loop over a fixed reaction set.
type Solver struct {
	reactions []*domain.Reaction
	manager   RateManager
	schedule  *schedule.Schedule
	state     domain.State
	logger    log.Logger
	simTime   float64
	phase     Phase
}

// New constructs a Solver from opts.
func New(opts Options) *Solver {
	logger := opts.Logger
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Solver{
		reactions: opts.Reactions,
		manager:   opts.Manager,
		schedule:  opts.Schedule,
		state:     opts.State,
		logger:    logger,
		simTime:   opts.InitialTime,
		phase:     PhaseIdle,
	}
}

// SimulationTime returns the current monotone simulation clock.
func (s *Solver) SimulationTime() float64 { return s.simTime }

// Phase returns the solver's current loop state.
func (s *Solver) Phase() Phase { return s.phase }

// PerformNextReaction drains the rate manager, draws Δt and a reaction
// proportional to rate, applies it, and dispatches any scripted events due
// at or before the new simulation time. Returns the index of
// the reaction that fired and the Δt drawn; on ErrNoReaction both are
// meaningless (-1, 0).
func (s *Solver) PerformNextReaction() (firedIndex int, dt float64, err error) {
	s.phase = PhaseStepping
	if err := s.manager.Update(s.state); err != nil {
		return -1, 0, err
	}
	total := s.manager.Total()
	if total == 0 {
		s.simTime = math.Inf(1)
		s.phase = PhaseReady
		return -1, 0, ErrNoReaction
	}
	dt = s.state.RNG().Exponential(total)
	target := s.state.RNG().Uniform() * total
	idx, err := s.manager.Pick(target)
	if err != nil {
		return -1, 0, err
	}
	s.simTime += dt

	r := s.reactions[idx]
	applied, err := r.Apply(s.state)
	if err != nil {
		return -1, 0, err
	}
	if !applied {
		// rate was stale at apply time: no-op, re-invalidate.
		s.manager.InvalidateIndex(idx)
	} else {
		for _, id := range r.Reactants() {
			s.manager.NotifyReactantChanged(id)
		}
		for _, id := range r.Products() {
			s.manager.NotifyReactantChanged(id)
		}
	}

	s.dispatchDueEvents()
	s.phase = PhaseReady
	return idx, dt, nil
}

// dispatchDueEvents fires every scripted event at or before the current
// simulation time, in time order, invalidating their targets' dependents.
func (s *Solver) dispatchDueEvents() {
	if s.schedule == nil {
		return
	}
	for _, e := range s.schedule.PopThrough(s.simTime) {
		if err := e.Apply(s.state); err != nil {
			s.logger.Warn(map[string]any{"error": err, "target": e.Target}, "scripted event failed to apply")
			continue
		}
		s.manager.NotifyReactantChanged(e.Target)
	}
}

// Skip advances simulation time by delta without firing a reaction, used
// for warm-up. Fails if a pending event's time is before the skip target.
func (s *Solver) Skip(delta float64) error {
	target := s.simTime + delta
	if s.schedule != nil {
		if next, ok := s.schedule.NextTime(); ok && next < target {
			return ErrPendingEventBeforeSkip
		}
	}
	s.simTime = target
	return nil
}

// NextReactionTime drains the rate manager and draws a Δt from the same
// distribution PerformNextReaction uses, without applying anything. The
// draw consumes a value from the random source, so a following
// PerformNextReaction draws its own Δt rather than returning this one.
func (s *Solver) NextReactionTime() (float64, error) {
	if err := s.manager.Update(s.state); err != nil {
		return 0, err
	}
	total := s.manager.Total()
	if total == 0 {
		return 0, ErrNoReaction
	}
	return s.state.RNG().Exponential(total), nil
}
