// Package sequence implements per-sequence occupancy: an
// ordered partition of [0, L) into segments of constant occupancy height,
// binding-site availability k(s) derived from that partition, and the
// partial-strand bookkeeping for sequences under progressive construction.
//
// k(s) is recomputed by scanning every registered site's full window range
// after every bind/unbind rather than propagated incrementally; simpler
// than an incremental interval structure and fast enough for the window
// widths this package expects.
package sequence

import (
	"errors"

	"github.com/cellsim/cellsim/internal/sim/domain"
)

// unsynthesized marks a position not yet part of any partial strand.
const unsynthesized = -1

// ErrOutOfStrand is returned when a bind/unbind/grow range falls outside a
// synthesized partial strand, or outside the
// sequence bounds.
var ErrOutOfStrand = errors.New("sequence: operation outside a synthesized strand")

// Segment is a maximal contiguous run of constant occupancy height.
// Height unsynthesized (-1) means the position has not yet been grown into
// the sequence; height 0 means free; height > 0 counts concurrent binders.
type Segment struct {
	First, Last int
	Height      int
}

// Interval is a closed position range, used to report partial strands.
type Interval struct {
	First, Last int
}

// StrandState is the partial-strand lifecycle.
type StrandState uint8

const (
	StrandEmpty StrandState = iota
	StrandGrowing
	StrandComplete
)

func (s StrandState) String() string {
	switch s {
	case StrandEmpty:
		return "empty"
	case StrandGrowing:
		return "growing"
	case StrandComplete:
		return "complete"
	default:
		return "unknown"
	}
}

type siteTracker struct {
	first, last, width int
	family             domain.SiteObserver
	cachedK            int
}

// Occupancy is one sequence's occupancy structure.
type Occupancy struct {
	length   int
	segments []Segment
	sites    map[int]*siteTracker
}

// NewOccupancy allocates an Occupancy for a sequence of the given length.
// complete marks a pre-existing sequence that does not need progressive
// construction (its full span starts synthesized at height 0); otherwise
// the sequence starts entirely unsynthesized.
func NewOccupancy(length int, complete bool) *Occupancy {
	o := &Occupancy{length: length, sites: make(map[int]*siteTracker)}
	if length == 0 {
		return o
	}
	height := unsynthesized
	if complete {
		height = 0
	}
	o.segments = []Segment{{First: 0, Last: length - 1, Height: height}}
	return o
}

func (o *Occupancy) Length() int { return o.length }

// Segments returns a copy of the current partition, for inspection/tests.
func (o *Occupancy) Segments() []Segment {
	out := make([]Segment, len(o.segments))
	copy(out, o.segments)
	return out
}

// State reports the partial-strand lifecycle state.
func (o *Occupancy) State() StrandState {
	strands := o.PartialStrands()
	switch {
	case len(strands) == 0:
		return StrandEmpty
	case len(strands) == 1 && strands[0].First == 0 && strands[0].Last == o.length-1:
		return StrandComplete
	default:
		return StrandGrowing
	}
}

// PartialStrands returns the maximal synthesized intervals.
func (o *Occupancy) PartialStrands() []Interval {
	var out []Interval
	var cur *Interval
	for _, seg := range o.segments {
		if seg.Height == unsynthesized {
			cur = nil
			continue
		}
		if cur != nil && cur.Last+1 == seg.First {
			cur.Last = seg.Last
			continue
		}
		out = append(out, Interval{First: seg.First, Last: seg.Last})
		cur = &out[len(out)-1]
	}
	return out
}

// RegisterSite attaches a binding site's availability tracking to this
// sequence, notified through family on every k(s) change. Returns the
// site's initial k(s).
func (o *Occupancy) RegisterSite(siteID int, family domain.SiteObserver, first, last, width int) (int, error) {
	if first < 0 || last >= o.length || first > last || width < 1 || width > last-first+1 {
		return 0, ErrOutOfStrand
	}
	k := o.computeK(first, last, width)
	o.sites[siteID] = &siteTracker{first: first, last: last, width: width, family: family, cachedK: k}
	return k, nil
}

// Grow synthesizes [first,last], extending or creating a partial strand.
// Positions already synthesized are left untouched (idempotent).
func (o *Occupancy) Grow(first, last int) error {
	if first < 0 || last >= o.length || first > last {
		return ErrOutOfStrand
	}
	o.ensureBoundary(first)
	o.ensureBoundary(last + 1)
	for i := range o.segments {
		seg := &o.segments[i]
		if seg.First >= first && seg.Last <= last && seg.Height == unsynthesized {
			seg.Height = 0
		}
	}
	o.coalesce()
	o.refreshSites()
	return nil
}

// CanOccupy reports whether [first,last] is entirely synthesized and free.
func (o *Occupancy) CanOccupy(first, last int) bool {
	if first < 0 || last >= o.length || first > last {
		return false
	}
	for _, seg := range o.overlapping(first, last) {
		if seg.Height != 0 {
			return false
		}
	}
	return true
}

// Bind increments occupancy height over [first,last]. Fails with
// ErrOutOfStrand if any position in range is unsynthesized.
func (o *Occupancy) Bind(first, last int) error {
	return o.modifyRange(first, last, 1)
}

// Unbind decrements occupancy height over [first,last].
func (o *Occupancy) Unbind(first, last int) error {
	return o.modifyRange(first, last, -1)
}

func (o *Occupancy) modifyRange(first, last, delta int) error {
	if first < 0 || last >= o.length || first > last {
		return ErrOutOfStrand
	}
	o.ensureBoundary(first)
	o.ensureBoundary(last + 1)
	for i := range o.segments {
		seg := &o.segments[i]
		if seg.First < first || seg.Last > last {
			continue
		}
		if seg.Height == unsynthesized {
			return ErrOutOfStrand
		}
		seg.Height += delta
		if seg.Height < 0 {
			return ErrOutOfStrand
		}
	}
	o.coalesce()
	o.refreshSites()
	return nil
}

// ensureBoundary splits the segment containing pos, if any, so pos begins
// a segment. A no-op at or beyond the sequence ends.
func (o *Occupancy) ensureBoundary(pos int) {
	if pos <= 0 || pos >= o.length {
		return
	}
	idx := o.segmentIndexContaining(pos)
	if idx < 0 {
		return
	}
	seg := o.segments[idx]
	if seg.First == pos {
		return
	}
	left := Segment{First: seg.First, Last: pos - 1, Height: seg.Height}
	right := Segment{First: pos, Last: seg.Last, Height: seg.Height}
	o.segments = append(o.segments[:idx], append([]Segment{left, right}, o.segments[idx+1:]...)...)
}

func (o *Occupancy) segmentIndexContaining(pos int) int {
	for i, seg := range o.segments {
		if pos >= seg.First && pos <= seg.Last {
			return i
		}
	}
	return -1
}

// overlapping returns the segments intersecting [first,last].
func (o *Occupancy) overlapping(first, last int) []Segment {
	var out []Segment
	for _, seg := range o.segments {
		if seg.Last < first || seg.First > last {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// coalesce merges adjacent segments sharing the same height.
func (o *Occupancy) coalesce() {
	if len(o.segments) < 2 {
		return
	}
	merged := o.segments[:1]
	for _, seg := range o.segments[1:] {
		last := &merged[len(merged)-1]
		if last.Height == seg.Height && last.Last+1 == seg.First {
			last.Last = seg.Last
			continue
		}
		merged = append(merged, seg)
	}
	o.segments = merged
}

// computeK counts the start offsets in [first, last-width+1] whose
// width-wide window is entirely at height 0.
func (o *Occupancy) computeK(first, last, width int) int {
	lastOffset := last - width + 1
	count := 0
	for off := first; off <= lastOffset; off++ {
		if o.windowFree(off, off+width-1) {
			count++
		}
	}
	return count
}

func (o *Occupancy) windowFree(first, last int) bool {
	for _, seg := range o.overlapping(first, last) {
		if seg.Height != 0 {
			return false
		}
	}
	return true
}

// FreeOffset picks uniformly among the registered site's currently free
// start offsets (k(s) of them), given u in [0,1). Returns ErrOutOfStrand if
// the site is unknown or currently has no free offset.
func (o *Occupancy) FreeOffset(siteID int, u float64) (int, error) {
	tr, ok := o.sites[siteID]
	if !ok || tr.cachedK == 0 {
		return 0, ErrOutOfStrand
	}
	target := int(u * float64(tr.cachedK))
	if target >= tr.cachedK {
		target = tr.cachedK - 1
	}
	lastOffset := tr.last - tr.width + 1
	seen := 0
	for off := tr.first; off <= lastOffset; off++ {
		if !o.windowFree(off, off+tr.width-1) {
			continue
		}
		if seen == target {
			return off, nil
		}
		seen++
	}
	return 0, ErrOutOfStrand
}

// refreshSites recomputes k(s) for every registered site and notifies its
// family of any change.
func (o *Occupancy) refreshSites() {
	for siteID, tr := range o.sites {
		newK := o.computeK(tr.first, tr.last, tr.width)
		if newK != tr.cachedK {
			delta := newK - tr.cachedK
			tr.cachedK = newK
			if tr.family != nil {
				tr.family.OnAvailabilityChange(siteID, delta)
			}
		}
	}
}
