package logsink

import (
	"encoding/csv"
	"fmt"
	"os"
)

// fileSink owns one append-only CSV file: a header written once at
// creation, then one flushed row per call.
type fileSink struct {
	f *os.File
	w *csv.Writer
}

func newFileSink(path string, header []string) (*fileSink, error) {
	_, err := os.Stat(path)
	existed := err == nil

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logsink: open %s: %w", path, err)
	}
	s := &fileSink{f: f, w: csv.NewWriter(f)}
	if !existed {
		if err := s.writeRow(header); err != nil {
			f.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *fileSink) writeRow(row []string) error {
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("logsink: write row: %w", err)
	}
	s.w.Flush()
	return s.w.Error()
}

func (s *fileSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
