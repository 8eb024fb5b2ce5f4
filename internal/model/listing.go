package model

import "math"

// Listing represents a rental property listing. After load-time
// normalization every Listing has a numeric Rent; rows whose rent could
// not be parsed are dropped before any filtering happens. Latitude and
// Longitude stay optional because exclusion of unusable coordinates is
// the map layer's job, not the loader's.
type Listing struct {
	ID        int64    `json:"id" db:"id"`
	Name      string   `json:"name" db:"name"`
	Address   string   `json:"address" db:"address"`
	Floor     string   `json:"floor" db:"floor"`
	Rent      float64  `json:"rent" db:"rent"`
	FloorPlan string   `json:"floor_plan" db:"floor_plan"`
	DetailURL string   `json:"detail_url" db:"detail_url"`
	Latitude  *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude *float64 `json:"longitude,omitempty" db:"longitude"`
	Ward      string   `json:"ward" db:"ward"`
}

// HasCoordinates reports whether both coordinates are present and finite.
// Rows failing this check stay in the committed view but are excluded
// from the plottable subset and from map projection.
func (l Listing) HasCoordinates() bool {
	if l.Latitude == nil || l.Longitude == nil {
		return false
	}
	return isFinite(*l.Latitude) && isFinite(*l.Longitude)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FilterCriteria is the live, uncommitted filter state supplied by the
// UI on every interaction. Price bounds are inclusive both ends;
// FloorPlans is the set of accepted floor plans (defaulted to all
// distinct plans when empty). Area is single-select.
type FilterCriteria struct {
	Area       string   `json:"area"`
	PriceMin   float64  `json:"price_min"`
	PriceMax   float64  `json:"price_max"`
	FloorPlans []string `json:"floor_plans"`
}

// Facets describes the dataset-derived values the UI needs to populate
// its filter controls: distinct wards (area radio), distinct floor plans
// (multiselect) and the observed rent range (price slider).
type Facets struct {
	Wards      []string `json:"wards"`
	FloorPlans []string `json:"floor_plans"`
	RentMin    float64  `json:"rent_min"`
	RentMax    float64  `json:"rent_max"`
	Total      int      `json:"total"`
}

// Account is a durable credential record. Username is not unique at the
// schema level; authentication resolves duplicates by taking the first
// matching row.
type Account struct {
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
}
