package engine

import (
	"errors"
	"testing"

	"github.com/cellsim/cellsim/internal/sim/common/rng"
	"github.com/cellsim/cellsim/internal/sim/domain"
)

// fakeState is a minimal domain.State stub exercising only what Engine
// touches directly (Volume, FreeCount, SetFreeCount).
type fakeState struct {
	free map[int]int
	vol  float64
}

var _ domain.State = (*fakeState)(nil)

func newFakeState() *fakeState {
	return &fakeState{free: make(map[int]int), vol: 2.5}
}

func (f *fakeState) FreeCount(id int) int            { return f.free[id] }
func (f *fakeState) SetFreeCount(id, count int) error { f.free[id] = count; return nil }
func (f *fakeState) AddFree(id, delta int) error      { f.free[id] += delta; return nil }
func (f *fakeState) BoundCount(int) int               { return 0 }
func (f *fakeState) BoundUnitAt(int, int) (domain.BoundUnit, error) {
	return domain.BoundUnit{}, nil
}
func (f *fakeState) AddBoundUnit(int, domain.BoundUnit) error { return nil }
func (f *fakeState) RemoveBoundUnitAt(int, int) (domain.BoundUnit, error) {
	return domain.BoundUnit{}, nil
}
func (f *fakeState) ReplaceBoundUnitAt(int, int, domain.BoundUnit) error { return nil }
func (f *fakeState) FamilyWeight(int) float64                           { return 0 }
func (f *fakeState) PickSite(int, float64) (int, error)                 { return 0, nil }
func (f *fakeState) SiteInterval(int) (domain.SiteInterval, error) {
	return domain.SiteInterval{}, nil
}
func (f *fakeState) FreeOffset(int, float64) (int, error)  { return 0, nil }
func (f *fakeState) IsStallSite(int, int) bool              { return false }
func (f *fakeState) SequenceLength(int) int                 { return 0 }
func (f *fakeState) CanOccupy(int, int, int) bool           { return false }
func (f *fakeState) Bind(int, int, int) error               { return nil }
func (f *fakeState) Unbind(int, int, int) error              { return nil }
func (f *fakeState) LookupProduct(int, int, int) (int, bool) { return 0, false }
func (f *fakeState) Volume() float64                         { return f.vol }
func (f *fakeState) RNG() rng.Source                         { return nil }

// fakeManager records every NotifyReactantChanged call.
type fakeManager struct {
	notified []int
}

func (m *fakeManager) NotifyReactantChanged(reactantID int) {
	m.notified = append(m.notified, reactantID)
}

// fakeSolver is a scripted stand-in for services/solver.Solver.
type fakeSolver struct {
	firedIndex  int
	dt          float64
	performErr  error
	skipErr     error
	nextTime    float64
	nextTimeErr error
	simTime     float64
}

func (s *fakeSolver) PerformNextReaction() (int, float64, error) {
	return s.firedIndex, s.dt, s.performErr
}
func (s *fakeSolver) Skip(delta float64) error { return s.skipErr }
func (s *fakeSolver) NextReactionTime() (float64, error) {
	return s.nextTime, s.nextTimeErr
}
func (s *fakeSolver) SimulationTime() float64 { return s.simTime }

func TestEngine_SetChemicalNumberDefaultPolicyCounts(t *testing.T) {
	state := newFakeState()
	mgr := &fakeManager{}
	e := New(Options{State: state, Solver: &fakeSolver{}, Manager: mgr})

	if err := e.SetChemicalNumber(1, 42); err != nil {
		t.Fatalf("SetChemicalNumber() error: %v", err)
	}
	if e.ChemicalNumber(1) != 42 {
		t.Fatalf("ChemicalNumber(1) = %d, want 42", e.ChemicalNumber(1))
	}
	if len(mgr.notified) != 0 {
		t.Fatalf("manager notified = %v, want none under PolicyCounted", mgr.notified)
	}
	if got := e.ChemicalIgnoredVariation(1); got != 1 {
		t.Fatalf("ChemicalIgnoredVariation(1) = %d, want 1", got)
	}

	if err := e.SetChemicalNumber(1, 7); err != nil {
		t.Fatalf("SetChemicalNumber() error: %v", err)
	}
	if got := e.ChemicalIgnoredVariation(1); got != 2 {
		t.Fatalf("ChemicalIgnoredVariation(1) after second overwrite = %d, want 2", got)
	}

	e.ResetIgnoredVariation(1)
	if got := e.ChemicalIgnoredVariation(1); got != 0 {
		t.Fatalf("ChemicalIgnoredVariation(1) after reset = %d, want 0", got)
	}
}

func TestEngine_SetChemicalNumberVisiblePolicyNotifies(t *testing.T) {
	state := newFakeState()
	mgr := &fakeManager{}
	e := New(Options{State: state, Solver: &fakeSolver{}, Manager: mgr, Policy: PolicyVisible})

	if err := e.SetChemicalNumber(3, 10); err != nil {
		t.Fatalf("SetChemicalNumber() error: %v", err)
	}
	if len(mgr.notified) != 1 || mgr.notified[0] != 3 {
		t.Fatalf("manager notified = %v, want [3]", mgr.notified)
	}
	if got := e.ChemicalIgnoredVariation(3); got != 0 {
		t.Fatalf("ChemicalIgnoredVariation(3) = %d, want 0 under PolicyVisible", got)
	}
}

func TestEngine_SetChemicalsAppliesEachReactant(t *testing.T) {
	state := newFakeState()
	e := New(Options{State: state, Solver: &fakeSolver{}, Manager: &fakeManager{}})

	if err := e.SetChemicals(map[int]int{1: 5, 2: 9}); err != nil {
		t.Fatalf("SetChemicals() error: %v", err)
	}
	if e.ChemicalNumber(1) != 5 || e.ChemicalNumber(2) != 9 {
		t.Fatalf("counts after SetChemicals = {1:%d, 2:%d}, want {1:5, 2:9}", e.ChemicalNumber(1), e.ChemicalNumber(2))
	}
}

func TestEngine_DelegatesToSolver(t *testing.T) {
	solver := &fakeSolver{firedIndex: 2, dt: 0.3, nextTime: 0.7, simTime: 1.4}
	e := New(Options{State: newFakeState(), Solver: solver, Manager: &fakeManager{}})

	idx, dt, err := e.PerformNextReaction()
	if err != nil || idx != 2 || dt != 0.3 {
		t.Fatalf("PerformNextReaction() = (%d, %v, %v), want (2, 0.3, nil)", idx, dt, err)
	}
	if got, err := e.NextReactionTime(); err != nil || got != 0.7 {
		t.Fatalf("NextReactionTime() = (%v, %v), want (0.7, nil)", got, err)
	}
	if e.SimulationTime() != 1.4 {
		t.Fatalf("SimulationTime() = %v, want 1.4", e.SimulationTime())
	}
	if e.Volume() != 2.5 {
		t.Fatalf("Volume() = %v, want 2.5", e.Volume())
	}
}

func TestEngine_SkipPropagatesSolverError(t *testing.T) {
	wantErr := errors.New("pending event before skip")
	e := New(Options{State: newFakeState(), Solver: &fakeSolver{skipErr: wantErr}, Manager: &fakeManager{}})

	if err := e.Skip(1.0); !errors.Is(err, wantErr) {
		t.Fatalf("Skip() error = %v, want %v", err, wantErr)
	}
}
