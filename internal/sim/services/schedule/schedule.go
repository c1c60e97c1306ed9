// Package schedule implements the time-ordered event schedule: scripted perturbations that fire between stochastic reactions in
// non-decreasing time order.
package schedule

import "github.com/cellsim/cellsim/internal/sim/domain"

// Kind is a scripted event's action.
type Kind uint8

const (
	Add Kind = iota
	Remove
	Set
)

// Event is one scripted perturbation: at Time, apply Kind to the free
// chemical reactant Target with Value.
type Event struct {
	Time   float64
	Kind   Kind
	Target int
	Value  int
}

// Apply performs the event's effect on s.
func (e Event) Apply(s domain.State) error {
	switch e.Kind {
	case Add:
		return s.AddFree(e.Target, e.Value)
	case Remove:
		return s.AddFree(e.Target, -e.Value)
	case Set:
		return s.SetFreeCount(e.Target, e.Value)
	default:
		return nil
	}
}

// Schedule is a time-ordered queue of scripted events. Events are kept
// sorted ascending by Time; events sharing a Time fire in the order they
// were added.
type Schedule struct {
	events []Event
}

// New allocates an empty Schedule.
func New() *Schedule { return &Schedule{} }

// Add inserts e, keeping the schedule sorted by Time.
func (s *Schedule) Add(e Event) {
	idx := len(s.events)
	for i, existing := range s.events {
		if e.Time < existing.Time {
			idx = i
			break
		}
	}
	s.events = append(s.events, Event{})
	copy(s.events[idx+1:], s.events[idx:])
	s.events[idx] = e
}

// NextTime returns the time of the earliest pending event, if any.
func (s *Schedule) NextTime() (float64, bool) {
	if len(s.events) == 0 {
		return 0, false
	}
	return s.events[0].Time, true
}

// Len reports the number of pending events.
func (s *Schedule) Len() int { return len(s.events) }

// PopThrough removes and returns every event with Time <= t, in time
// order, leaving later events in place.
func (s *Schedule) PopThrough(t float64) []Event {
	i := 0
	for i < len(s.events) && s.events[i].Time <= t {
		i++
	}
	due := s.events[:i]
	s.events = s.events[i:]
	return due
}
