package logsink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cellsim/cellsim/internal/sim/common/rng"
	"github.com/cellsim/cellsim/internal/sim/domain"
)

// fakeState is a minimal domain.State exposing only free counts, enough to
// drive ChemicalLog.WriteSnapshot.
type fakeState struct{ free map[int]int }

var _ domain.State = (*fakeState)(nil)

func (f *fakeState) FreeCount(id int) int            { return f.free[id] }
func (f *fakeState) SetFreeCount(int, int) error      { return nil }
func (f *fakeState) AddFree(int, int) error           { return nil }
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
func (f *fakeState) FreeOffset(int, float64) (int, error)   { return 0, nil }
func (f *fakeState) IsStallSite(int, int) bool               { return false }
func (f *fakeState) SequenceLength(int) int                  { return 0 }
func (f *fakeState) CanOccupy(int, int, int) bool             { return false }
func (f *fakeState) Bind(int, int, int) error                 { return nil }
func (f *fakeState) Unbind(int, int, int) error               { return nil }
func (f *fakeState) LookupProduct(int, int, int) (int, bool)  { return 0, false }
func (f *fakeState) Volume() float64                          { return 1 }
func (f *fakeState) RNG() rng.Source                          { return rng.NewRealSource(1) }

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error: %v", path, err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	return lines
}

func TestChemicalLog_WritesHeaderAndSnapshots(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chemical.csv")
	log, err := NewChemicalLog(path, []int{1, 2}, []string{"A", "B"})
	if err != nil {
		t.Fatalf("NewChemicalLog() error: %v", err)
	}
	state := &fakeState{free: map[int]int{1: 5, 2: 9}}
	if err := log.WriteSnapshot(1.5, 3, state); err != nil {
		t.Fatalf("WriteSnapshot() error: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	lines := readLines(t, path)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 (header + 1 row)", len(lines))
	}
	if lines[0] != "sim_time,step,A,B" {
		t.Fatalf("header = %q, want %q", lines[0], "sim_time,step,A,B")
	}
	if lines[1] != "1.5,3,5,9" {
		t.Fatalf("row = %q, want %q", lines[1], "1.5,3,5,9")
	}
}

func TestChemicalLog_AppendsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chemical.csv")

	log1, err := NewChemicalLog(path, []int{1}, []string{"A"})
	if err != nil {
		t.Fatalf("NewChemicalLog() error: %v", err)
	}
	if err := log1.WriteSnapshot(0, 0, &fakeState{free: map[int]int{1: 1}}); err != nil {
		t.Fatalf("WriteSnapshot() error: %v", err)
	}
	if err := log1.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	log2, err := NewChemicalLog(path, []int{1}, []string{"A"})
	if err != nil {
		t.Fatalf("NewChemicalLog() (reopen) error: %v", err)
	}
	if err := log2.WriteSnapshot(1, 1, &fakeState{free: map[int]int{1: 2}}); err != nil {
		t.Fatalf("WriteSnapshot() error: %v", err)
	}
	if err := log2.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	lines := readLines(t, path)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (one header, two rows, no duplicate header)", len(lines))
	}
}

func TestReactionLog_WritesFirings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reactions.csv")
	log, err := NewReactionLog(path)
	if err != nil {
		t.Fatalf("NewReactionLog() error: %v", err)
	}
	if err := log.WriteFiring(2.25, 7, 3); err != nil {
		t.Fatalf("WriteFiring() error: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	lines := readLines(t, path)
	if lines[0] != "sim_time,step,reaction_index" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "2.25,7,3" {
		t.Fatalf("row = %q", lines[1])
	}
}

func TestDoubleStrandLog_WritesEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doublestrand.csv")
	log, err := NewDoubleStrandLog(path)
	if err != nil {
		t.Fatalf("NewDoubleStrandLog() error: %v", err)
	}
	if err := log.WriteEvent(4, 10, 11, 12); err != nil {
		t.Fatalf("WriteEvent() error: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	lines := readLines(t, path)
	if lines[0] != "sim_time,step,template_id,partner_id" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "4,10,11,12" {
		t.Fatalf("row = %q", lines[1])
	}
}
