// Package snapshot persists and restores cell-state checkpoints to a bbolt
// database, grounded on the blocklist bolt store's bucket-per-concern
// layout (repos/blocklist/bolt/store.go). Persisted state carries no
// backward/forward compatibility guarantee across schema versions: Load
// rejects a mismatched schema rather than attempting a migration.
package snapshot

import (
	"encoding/binary"
	"errors"
	"math"
	"time"

	bbolt "go.etcd.io/bbolt"
	bberrors "go.etcd.io/bbolt/errors"

	"github.com/cellsim/cellsim/internal/sim/domain"
)

const schemaVersion uint32 = 1

var (
	bucketMeta       = []byte("meta")
	bucketFreeCounts = []byte("free_counts")
	bucketBoundUnits = []byte("bound_units")
)

// ErrSchemaMismatch is returned by Load when the persisted schema version
// doesn't match schemaVersion.
var ErrSchemaMismatch = errors.New("snapshot: schema version mismatch")

// Snapshot is the full state a checkpoint captures: free chemical counts
// and bound-unit multisets keyed by reactant id, plus the solver clock.
type Snapshot struct {
	SimTime    float64
	Step       uint64
	FreeCounts map[int]int
	BoundUnits map[int][]domain.BoundUnit
}

// Store wraps a bbolt database holding checkpoint snapshots.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) a bbolt database at path and ensures buckets
// exist.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(ensureBuckets); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func ensureBuckets(tx *bbolt.Tx) error {
	for _, name := range [][]byte{bucketMeta, bucketFreeCounts, bucketBoundUnits} {
		if _, err := tx.CreateBucketIfNotExists(name); err != nil {
			return err
		}
	}
	return nil
}

// Save atomically replaces the persisted snapshot.
func (s *Store) Save(snap Snapshot) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketFreeCounts, bucketBoundUnits} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bberrors.ErrBucketNotFound) {
				return err
			}
		}
		if err := ensureBuckets(tx); err != nil {
			return err
		}
		if err := writeMeta(tx, snap); err != nil {
			return err
		}
		if err := writeFreeCounts(tx, snap.FreeCounts); err != nil {
			return err
		}
		return writeBoundUnits(tx, snap.BoundUnits)
	})
}

// Load reads the persisted snapshot. Fails with ErrSchemaMismatch if no
// snapshot was ever written or the stored schema version differs from the
// running binary's.
func (s *Store) Load() (Snapshot, error) {
	var snap Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		mb := tx.Bucket(bucketMeta)
		v := mb.Get([]byte("schema_version"))
		if len(v) != 4 || binary.BigEndian.Uint32(v) != schemaVersion {
			return ErrSchemaMismatch
		}
		if t := mb.Get([]byte("sim_time")); len(t) == 8 {
			snap.SimTime = math.Float64frombits(binary.BigEndian.Uint64(t))
		}
		if st := mb.Get([]byte("step")); len(st) == 8 {
			snap.Step = binary.BigEndian.Uint64(st)
		}
		snap.FreeCounts = make(map[int]int)
		fb := tx.Bucket(bucketFreeCounts)
		c := fb.Cursor()
		for k, val := c.First(); k != nil; k, val = c.Next() {
			id := int(int64(binary.BigEndian.Uint64(k)))
			count := int(int64(binary.BigEndian.Uint64(val)))
			snap.FreeCounts[id] = count
		}
		snap.BoundUnits = make(map[int][]domain.BoundUnit)
		bb := tx.Bucket(bucketBoundUnits)
		bc := bb.Cursor()
		for k, val := bc.First(); k != nil; k, val = bc.Next() {
			id := int(int64(binary.BigEndian.Uint64(k)))
			snap.BoundUnits[id] = decodeBoundUnits(val)
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func writeMeta(tx *bbolt.Tx, snap Snapshot) error {
	mb := tx.Bucket(bucketMeta)
	var vbuf [4]byte
	binary.BigEndian.PutUint32(vbuf[:], schemaVersion)
	if err := mb.Put([]byte("schema_version"), vbuf[:]); err != nil {
		return err
	}
	var tbuf [8]byte
	binary.BigEndian.PutUint64(tbuf[:], math.Float64bits(snap.SimTime))
	if err := mb.Put([]byte("sim_time"), tbuf[:]); err != nil {
		return err
	}
	var sbuf [8]byte
	binary.BigEndian.PutUint64(sbuf[:], snap.Step)
	return mb.Put([]byte("step"), sbuf[:])
}

func writeFreeCounts(tx *bbolt.Tx, counts map[int]int) error {
	fb := tx.Bucket(bucketFreeCounts)
	for id, count := range counts {
		var kbuf, vbuf [8]byte
		binary.BigEndian.PutUint64(kbuf[:], uint64(int64(id)))
		binary.BigEndian.PutUint64(vbuf[:], uint64(int64(count)))
		if err := fb.Put(kbuf[:], vbuf[:]); err != nil {
			return err
		}
	}
	return nil
}

func writeBoundUnits(tx *bbolt.Tx, units map[int][]domain.BoundUnit) error {
	bb := tx.Bucket(bucketBoundUnits)
	for id, list := range units {
		var kbuf [8]byte
		binary.BigEndian.PutUint64(kbuf[:], uint64(int64(id)))
		if err := bb.Put(kbuf[:], encodeBoundUnits(list)); err != nil {
			return err
		}
	}
	return nil
}

// encodeBoundUnits packs each unit as three big-endian int64 fields:
// sequence id, position, reading frame.
func encodeBoundUnits(units []domain.BoundUnit) []byte {
	buf := make([]byte, 24*len(units))
	for i, u := range units {
		off := i * 24
		binary.BigEndian.PutUint64(buf[off:], uint64(int64(u.SequenceID)))
		binary.BigEndian.PutUint64(buf[off+8:], uint64(int64(u.Position)))
		binary.BigEndian.PutUint64(buf[off+16:], uint64(int64(u.Frame)))
	}
	return buf
}

func decodeBoundUnits(buf []byte) []domain.BoundUnit {
	n := len(buf) / 24
	out := make([]domain.BoundUnit, n)
	for i := 0; i < n; i++ {
		off := i * 24
		out[i] = domain.BoundUnit{
			SequenceID: int(int64(binary.BigEndian.Uint64(buf[off:]))),
			Position:   int(int64(binary.BigEndian.Uint64(buf[off+8:]))),
			Frame:      int(int64(binary.BigEndian.Uint64(buf[off+16:]))),
		}
	}
	return out
}
