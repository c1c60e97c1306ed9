package domain

import (
	"fmt"

	"go.uber.org/multierr"
)

// BindingSiteFamily holds (site, affinity) pairs searchable as a single
// weighted pool. It caches W = Σ k(s)·a(s) and keeps it
// current via SiteObserver notifications from repos/sequence, avoiding an
// O(sites) rescan on every rate evaluation.
type BindingSiteFamily struct {
	id      int
	name    string
	siteIDs []int
	k       map[int]int     // siteID -> cached k(s)
	affin   map[int]float64 // siteID -> affinity, duplicated here so OnAvailabilityChange doesn't need a site lookup
	weight  float64
}

// NewBindingSiteFamily constructs an empty family.
func NewBindingSiteFamily(id int, name string) (*BindingSiteFamily, error) {
	if name == "" {
		return nil, fmt.Errorf("binding site family %d: name must not be empty", id)
	}
	return &BindingSiteFamily{
		id:    id,
		name:  name,
		k:     make(map[int]int),
		affin: make(map[int]float64),
	}, nil
}

func (f *BindingSiteFamily) ID() int   { return f.id }
func (f *BindingSiteFamily) Name() string { return f.name }

// Register adds sites to the family's pool with k(s) = 0; the initial
// availability is seeded afterwards through SetInitialAvailability.
// Joins any per-site validation errors with multierr,
// mirroring a batch registration that should report every bad site at once
// rather than stopping at the first.
func (f *BindingSiteFamily) Register(sites ...*BindingSite) error {
	var errs error
	for _, s := range sites {
		if s == nil {
			errs = multierr.Append(errs, fmt.Errorf("family %q: nil site", f.name))
			continue
		}
		if s.FamilyID() != f.id {
			errs = multierr.Append(errs, fmt.Errorf("family %q: site %d belongs to family %d", f.name, s.ID(), s.FamilyID()))
			continue
		}
		f.siteIDs = append(f.siteIDs, s.ID())
		f.k[s.ID()] = 0
		f.affin[s.ID()] = s.Affinity()
	}
	return errs
}

// SetInitialAvailability seeds k(s) for a site already registered, updating
// the weight cache. repos/cellstate.RegisterSite calls this once per site
// right after Register, with the k(s) that repos/sequence computed when the
// site was registered on its occupancy.
func (f *BindingSiteFamily) SetInitialAvailability(siteID, k int) error {
	a, ok := f.affin[siteID]
	if !ok {
		return fmt.Errorf("family %q: site %d not registered", f.name, siteID)
	}
	prev := f.k[siteID]
	f.k[siteID] = k
	f.weight += float64(k-prev) * a
	return nil
}

// OnAvailabilityChange implements SiteObserver: k(s) changed by delta.
func (f *BindingSiteFamily) OnAvailabilityChange(siteID int, delta int) {
	a, ok := f.affin[siteID]
	if !ok {
		return // not one of ours; repos/sequence may serve multiple families
	}
	f.k[siteID] += delta
	f.weight += float64(delta) * a
}

// Weight returns the cached Σ k(s)·a(s), the rate factor for "bind to this
// family" reactions.
func (f *BindingSiteFamily) Weight() float64 {
	return f.weight
}

// SiteIDs returns the family's member sites in registration order.
func (f *BindingSiteFamily) SiteIDs() []int {
	return f.siteIDs
}

// Availability returns the cached k(s) for a member site.
func (f *BindingSiteFamily) Availability(siteID int) int {
	return f.k[siteID]
}
