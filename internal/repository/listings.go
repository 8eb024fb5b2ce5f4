package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"rentalmap/internal/model"

	"github.com/jmoiron/sqlx"
)

// ListingRepository loads the listing table. The store is read-only from
// this service's point of view: a scraper pipeline populates it out of
// band, coordinates included.
type ListingRepository struct {
	db    *sqlx.DB
	table string
}

// NewListingRepository creates a new listing repository over the given
// table name.
func NewListingRepository(db *sqlx.DB, table string) *ListingRepository {
	return &ListingRepository{db: db, table: table}
}

// rawListing mirrors the stored row before normalization. Rent arrives
// as text because the scraper writes whatever the source page carried;
// coordinates may be missing for rows the geocoder never resolved.
type rawListing struct {
	ID        int64           `db:"id"`
	Name      sql.NullString  `db:"name"`
	Address   sql.NullString  `db:"address"`
	Floor     sql.NullString  `db:"floor"`
	Rent      sql.NullString  `db:"rent"`
	FloorPlan sql.NullString  `db:"floor_plan"`
	DetailURL sql.NullString  `db:"detail_url"`
	Latitude  sql.NullFloat64 `db:"latitude"`
	Longitude sql.NullFloat64 `db:"longitude"`
	Ward      sql.NullString  `db:"ward"`
}

// FetchAll loads every listing row, normalizes the rent column to a
// number and drops rows whose rent does not parse. The dropped count is
// surfaced so the caller can log the data-quality gap; a dropped row is
// never an error.
func (r *ListingRepository) FetchAll(ctx context.Context) ([]model.Listing, int, error) {
	query := fmt.Sprintf(`
		SELECT id, name, address, floor, rent, floor_plan, detail_url, latitude, longitude, ward
		FROM %s
		ORDER BY id
	`, r.table)

	var rows []rawListing
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}

	return normalizeRows(rows)
}

// normalizeRows converts raw rows into typed listings, excluding rows
// with an unparsable rent.
func normalizeRows(rows []rawListing) ([]model.Listing, int, error) {
	listings := make([]model.Listing, 0, len(rows))
	dropped := 0

	for _, raw := range rows {
		rent, ok := parseRent(raw.Rent)
		if !ok {
			dropped++
			continue
		}

		l := model.Listing{
			ID:        raw.ID,
			Name:      raw.Name.String,
			Address:   raw.Address.String,
			Floor:     raw.Floor.String,
			Rent:      rent,
			FloorPlan: raw.FloorPlan.String,
			DetailURL: raw.DetailURL.String,
			Ward:      raw.Ward.String,
		}
		if raw.Latitude.Valid {
			lat := raw.Latitude.Float64
			l.Latitude = &lat
		}
		if raw.Longitude.Valid {
			lon := raw.Longitude.Float64
			l.Longitude = &lon
		}
		listings = append(listings, l)
	}

	return listings, dropped, nil
}

// parseRent parses the stored rent value. Accepts plain numbers with
// optional surrounding whitespace; anything else (NULL, empty, text like
// "要相談") excludes the row.
func parseRent(v sql.NullString) (float64, bool) {
	if !v.Valid {
		return 0, false
	}
	s := strings.TrimSpace(v.String)
	if s == "" {
		return 0, false
	}
	rent, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return rent, true
}
