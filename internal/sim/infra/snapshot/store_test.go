package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/cellsim/cellsim/internal/sim/domain"
)

func TestStore_SaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "checkpoint.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer st.Close()

	snap := Snapshot{
		SimTime: 42.5,
		Step:    7,
		FreeCounts: map[int]int{
			1: 10,
			2: 0,
		},
		BoundUnits: map[int][]domain.BoundUnit{
			3: {{SequenceID: 1, Position: 2, Frame: 0}, {SequenceID: 1, Position: 9, Frame: 1}},
		},
	}
	if err := st.Save(snap); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := st.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.SimTime != snap.SimTime || got.Step != snap.Step {
		t.Fatalf("Load() time/step = %v/%d, want %v/%d", got.SimTime, got.Step, snap.SimTime, snap.Step)
	}
	if got.FreeCounts[1] != 10 || got.FreeCounts[2] != 0 {
		t.Fatalf("Load() FreeCounts = %v", got.FreeCounts)
	}
	units := got.BoundUnits[3]
	if len(units) != 2 || units[0].Position != 2 || units[1].Position != 9 {
		t.Fatalf("Load() BoundUnits[3] = %v", units)
	}
}

func TestStore_LoadWithoutSaveFailsSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "checkpoint.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer st.Close()

	if _, err := st.Load(); err != ErrSchemaMismatch {
		t.Fatalf("Load() err = %v, want ErrSchemaMismatch", err)
	}
}
