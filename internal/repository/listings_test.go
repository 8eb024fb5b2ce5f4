package repository

import (
	"context"
	"database/sql"
	"testing"
)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func TestNormalizeRows(t *testing.T) {
	rows := []rawListing{
		{ID: 1, Name: nullString("Room A"), Rent: nullString("5.5"), Ward: nullString("A")},
		{ID: 2, Name: nullString("Room B"), Rent: nullString(" 8 "), Ward: nullString("A")},
		{ID: 3, Name: nullString("Room C"), Rent: nullString("要相談"), Ward: nullString("B")},
		{ID: 4, Name: nullString("Room D"), Rent: sql.NullString{}, Ward: nullString("B")},
		{ID: 5, Name: nullString("Room E"), Rent: nullString(""), Ward: nullString("B")},
	}

	listings, dropped, err := normalizeRows(rows)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(listings) != 2 {
		t.Fatalf("Expected 2 retained listings, got %d", len(listings))
	}
	if dropped != 3 {
		t.Errorf("Expected 3 dropped rows, got %d", dropped)
	}
	if listings[0].Rent != 5.5 || listings[1].Rent != 8 {
		t.Errorf("Rent normalization wrong: %v, %v", listings[0].Rent, listings[1].Rent)
	}
}

func TestNormalizeRows_Coordinates(t *testing.T) {
	rows := []rawListing{
		{
			ID:        1,
			Rent:      nullString("5"),
			Latitude:  sql.NullFloat64{Float64: 35.7, Valid: true},
			Longitude: sql.NullFloat64{Float64: 139.7, Valid: true},
		},
		{ID: 2, Rent: nullString("6")},
	}

	listings, _, err := normalizeRows(rows)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if listings[0].Latitude == nil || *listings[0].Latitude != 35.7 {
		t.Errorf("Expected latitude 35.7, got %v", listings[0].Latitude)
	}
	if listings[1].Latitude != nil || listings[1].Longitude != nil {
		t.Error("Missing coordinates must stay nil, not zero")
	}
}

func TestListingRepository_FetchAll(t *testing.T) {
	db := testDB(t)

	if _, err := db.Exec(`
		CREATE TABLE listings (
			id INTEGER PRIMARY KEY,
			name TEXT, address TEXT, floor TEXT, rent TEXT,
			floor_plan TEXT, detail_url TEXT,
			latitude REAL, longitude REAL, ward TEXT
		)
	`); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	if _, err := db.Exec(`
		INSERT INTO listings (id, name, address, floor, rent, floor_plan, detail_url, latitude, longitude, ward) VALUES
		(1, 'Room A', 'Addr A', '2階', '5.0', '1K', 'https://example.com/a', 35.0, 139.0, 'A'),
		(2, 'Room B', 'Addr B', '3階', '8.0', '2K', 'https://example.com/b', 35.2, 139.2, 'A'),
		(3, 'Room C', 'Addr C', '1階', 'unknown', '1K', '', NULL, NULL, 'B')
	`); err != nil {
		t.Fatalf("Failed to seed table: %v", err)
	}

	repo := NewListingRepository(db, "listings")
	listings, dropped, err := repo.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	if len(listings) != 2 {
		t.Fatalf("Expected 2 listings after normalization, got %d", len(listings))
	}
	if dropped != 1 {
		t.Errorf("Expected 1 dropped row, got %d", dropped)
	}
	if listings[0].ID != 1 || listings[1].ID != 2 {
		t.Errorf("Expected id order, got %v", listings)
	}
	if listings[0].Ward != "A" || listings[0].FloorPlan != "1K" {
		t.Errorf("Unexpected row contents: %+v", listings[0])
	}
	if listings[0].Latitude == nil || *listings[0].Latitude != 35.0 {
		t.Errorf("Expected latitude 35.0, got %v", listings[0].Latitude)
	}
}
