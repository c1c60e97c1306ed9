package logsink

import "github.com/cellsim/cellsim/internal/sim/domain"

// ChemicalLog records a free-chemical count snapshot on each call, one
// fixed column per registered reactant id.
type ChemicalLog struct {
	sink *fileSink
	ids  []int
}

// NewChemicalLog opens path, fixing the column order to ids/names at
// construction (column order must match across a run, so it is decided
// once and never re-derived from map iteration order).
func NewChemicalLog(path string, ids []int, names []string) (*ChemicalLog, error) {
	sink, err := newFileSink(path, chemicalHeader(names))
	if err != nil {
		return nil, err
	}
	return &ChemicalLog{sink: sink, ids: ids}, nil
}

// WriteSnapshot appends one row of free-chemical counts read from s, in the
// column order fixed at construction.
func (l *ChemicalLog) WriteSnapshot(simTime float64, step uint64, s domain.State) error {
	counts := make([]int, len(l.ids))
	for i, id := range l.ids {
		counts[i] = s.FreeCount(id)
	}
	return l.sink.writeRow(chemicalRow(simTime, step, counts))
}

// Close flushes and closes the underlying file.
func (l *ChemicalLog) Close() error { return l.sink.Close() }
