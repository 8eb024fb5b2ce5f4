package service

import (
	"rentalmap/internal/model"
)

// ApplyFilters evaluates the live criteria against a dataset snapshot
// and returns the matching rows in input order. Predicates are
// conjunctive: ward equality (single select), floor-plan membership,
// then inclusive price range. Pure function: no session state is
// touched, so the UI can call it on every control change without
// disturbing the committed view.
func ApplyFilters(listings []model.Listing, criteria model.FilterCriteria) []model.Listing {
	plans := make(map[string]struct{}, len(criteria.FloorPlans))
	for _, p := range criteria.FloorPlans {
		plans[p] = struct{}{}
	}

	filtered := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Ward != criteria.Area {
			continue
		}
		if _, ok := plans[l.FloorPlan]; !ok {
			continue
		}
		if l.Rent < criteria.PriceMin || l.Rent > criteria.PriceMax {
			continue
		}
		filtered = append(filtered, l)
	}
	return filtered
}
