package service

import (
	"context"
	"sync"

	"rentalmap/internal/model"
)

// ListingSource is the record-store collaborator: fetch everything,
// already normalized, plus the count of rows dropped during
// normalization.
type ListingSource interface {
	FetchAll(ctx context.Context) ([]model.Listing, int, error)
}

// CatalogService owns the in-memory dataset snapshot. Filtering always
// runs against the snapshot, never against the store, so predicate
// changes cost no I/O; Load is the only boundary-crossing call.
type CatalogService struct {
	source ListingSource

	mu       sync.RWMutex
	snapshot []model.Listing
}

// NewCatalogService creates a new catalog service over the given source
func NewCatalogService(source ListingSource) *CatalogService {
	return &CatalogService{source: source}
}

// Load refreshes the snapshot from the store and returns the loaded and
// dropped row counts. On failure the snapshot falls back to an empty
// dataset and the error is reported; the service keeps running.
func (s *CatalogService) Load(ctx context.Context) (loaded, dropped int, err error) {
	listings, dropped, err := s.source.FetchAll(ctx)
	if err != nil {
		s.mu.Lock()
		s.snapshot = nil
		s.mu.Unlock()
		return 0, 0, err
	}

	s.mu.Lock()
	s.snapshot = listings
	s.mu.Unlock()
	return len(listings), dropped, nil
}

// Snapshot returns the current dataset. Callers must not mutate the
// returned slice.
func (s *CatalogService) Snapshot() []model.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Facets derives the filter-control values from the current snapshot:
// distinct wards and floor plans in first-seen order, and the observed
// rent range.
func (s *CatalogService) Facets() model.Facets {
	listings := s.Snapshot()

	facets := model.Facets{Total: len(listings)}
	seenWards := make(map[string]struct{})
	seenPlans := make(map[string]struct{})

	for i, l := range listings {
		if _, ok := seenWards[l.Ward]; !ok {
			seenWards[l.Ward] = struct{}{}
			facets.Wards = append(facets.Wards, l.Ward)
		}
		if _, ok := seenPlans[l.FloorPlan]; !ok {
			seenPlans[l.FloorPlan] = struct{}{}
			facets.FloorPlans = append(facets.FloorPlans, l.FloorPlan)
		}
		if i == 0 || l.Rent < facets.RentMin {
			facets.RentMin = l.Rent
		}
		if i == 0 || l.Rent > facets.RentMax {
			facets.RentMax = l.Rent
		}
	}

	return facets
}

// ClampCriteria normalizes live criteria against the current snapshot:
// price bounds are clamped into [1, max rent] and reordered if
// inverted, an empty floor-plan set defaults to every distinct plan,
// and an empty area defaults to the first ward. The result is always
// safe to feed to ApplyFilters.
func (s *CatalogService) ClampCriteria(c model.FilterCriteria) model.FilterCriteria {
	facets := s.Facets()

	lo, hi := 1.0, facets.RentMax
	if hi < lo {
		hi = lo
	}
	if c.PriceMin > c.PriceMax {
		c.PriceMin, c.PriceMax = c.PriceMax, c.PriceMin
	}
	c.PriceMin = clamp(c.PriceMin, lo, hi)
	c.PriceMax = clamp(c.PriceMax, lo, hi)

	if len(c.FloorPlans) == 0 {
		c.FloorPlans = facets.FloorPlans
	}
	if c.Area == "" && len(facets.Wards) > 0 {
		c.Area = facets.Wards[0]
	}

	return c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
