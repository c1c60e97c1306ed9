package logsink

// DoubleStrandLog records double-strand recruitment/loading events: which
// template and partner reactant were consumed together.
type DoubleStrandLog struct {
	sink *fileSink
}

// NewDoubleStrandLog opens path, writing the header if the file is new.
func NewDoubleStrandLog(path string) (*DoubleStrandLog, error) {
	sink, err := newFileSink(path, doubleStrandHeader())
	if err != nil {
		return nil, err
	}
	return &DoubleStrandLog{sink: sink}, nil
}

// WriteEvent appends one row recording a double-strand loading event.
func (l *DoubleStrandLog) WriteEvent(simTime float64, step uint64, templateID, partnerID int) error {
	return l.sink.writeRow(doubleStrandRow(simTime, step, templateID, partnerID))
}

// Close flushes and closes the underlying file.
func (l *DoubleStrandLog) Close() error { return l.sink.Close() }
