package logsink

// ReactionLog records every reaction firing: which reaction index fired,
// and at what simulation time and step.
type ReactionLog struct {
	sink *fileSink
}

// NewReactionLog opens path, writing the header if the file is new.
func NewReactionLog(path string) (*ReactionLog, error) {
	sink, err := newFileSink(path, reactionHeader())
	if err != nil {
		return nil, err
	}
	return &ReactionLog{sink: sink}, nil
}

// WriteFiring appends one row recording a performed reaction.
func (l *ReactionLog) WriteFiring(simTime float64, step uint64, reactionIndex int) error {
	return l.sink.writeRow(reactionRow(simTime, step, reactionIndex))
}

// Close flushes and closes the underlying file.
func (l *ReactionLog) Close() error { return l.sink.Close() }
