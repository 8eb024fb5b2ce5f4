package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rentalmap/internal/model"
	"rentalmap/internal/service"

	"github.com/gin-gonic/gin"
)

type stubListingSource struct {
	listings []model.Listing
}

func (s *stubListingSource) FetchAll(ctx context.Context) ([]model.Listing, int, error) {
	return s.listings, 0, nil
}

type stubAccountStore struct {
	accounts []model.Account
}

func (s *stubAccountStore) Find(ctx context.Context, username string) (*model.Account, error) {
	for i := range s.accounts {
		if s.accounts[i].Username == username {
			return &s.accounts[i], nil
		}
	}
	return nil, nil
}

func (s *stubAccountStore) Insert(ctx context.Context, username, passwordHash string) error {
	s.accounts = append(s.accounts, model.Account{Username: username, PasswordHash: passwordHash})
	return nil
}

func floatPtr(v float64) *float64 {
	return &v
}

// testRouter wires the handlers the way cmd/server does, over stub
// stores.
func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	source := &stubListingSource{listings: []model.Listing{
		{ID: 1, Name: "Room A", Ward: "A", Rent: 5.0, FloorPlan: "1K", Latitude: floatPtr(35.0), Longitude: floatPtr(139.0)},
		{ID: 2, Name: "Room B", Ward: "A", Rent: 8.0, FloorPlan: "2K"},
		{ID: 3, Name: "Room C", Ward: "B", Rent: 12.0, FloorPlan: "1K", Latitude: floatPtr(35.4), Longitude: floatPtr(139.4)},
	}}

	catalog := service.NewCatalogService(source)
	if _, _, err := catalog.Load(context.Background()); err != nil {
		t.Fatalf("Catalog load failed: %v", err)
	}

	authService := service.NewAuthService(&stubAccountStore{}, 4)
	sessions := service.NewSessionManager(time.Hour)

	authHandler := NewAuthHandler(authService, sessions, "test_session")
	listingHandler := NewListingHandler(catalog)

	router := gin.New()
	apiV1 := router.Group("/api/v1")
	apiV1.POST("/auth/signup", authHandler.Signup)
	apiV1.POST("/auth/login", authHandler.Login)
	apiV1.POST("/auth/logout", authHandler.Logout)

	authed := apiV1.Group("", authHandler.RequireSession())
	authed.GET("/facets", listingHandler.Facets)
	authed.POST("/search/preview", listingHandler.Preview)
	authed.POST("/search/commit", listingHandler.Commit)
	authed.POST("/display/toggle", listingHandler.ToggleDisplay)
	authed.GET("/results", listingHandler.Results)
	authed.GET("/map", listingHandler.Map)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// login signs up and logs in, returning the session cookie.
func login(t *testing.T, router *gin.Engine) string {
	t.Helper()
	creds := `{"username":"alice","password":"secret"}`

	if w := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", creds, ""); w.Code != http.StatusCreated {
		t.Fatalf("Signup failed: %d %s", w.Code, w.Body.String())
	}
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", creds, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Login failed: %d %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Expected a session cookie")
	}
	return cookies[0].Name + "=" + cookies[0].Value
}

func TestLoginGate(t *testing.T) {
	router := testRouter(t)

	if w := doJSON(t, router, http.MethodGet, "/api/v1/facets", "", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a session, got %d", w.Code)
	}

	// Wrong password and unknown user fail with the same shape
	doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", `{"username":"alice","password":"secret"}`, "")
	wrong := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"bad"}`, "")
	unknown := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", `{"username":"bob","password":"bad"}`, "")
	if wrong.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for both failures, got %d and %d", wrong.Code, unknown.Code)
	}
	if wrong.Body.String() != unknown.Body.String() {
		t.Error("Failure responses must be indistinguishable")
	}
}

func TestSearchFlow(t *testing.T) {
	router := testRouter(t)
	cookie := login(t, router)

	// Results before any commit: conflict
	if w := doJSON(t, router, http.MethodGet, "/api/v1/results", "", cookie); w.Code != http.StatusConflict {
		t.Errorf("Expected 409 before commit, got %d", w.Code)
	}

	criteria := `{"criteria":{"area":"A","price_min":1,"price_max":10,"floor_plans":["1K","2K"]}}`

	// Preview counts matches but must not unlock results
	w := doJSON(t, router, http.MethodPost, "/api/v1/search/preview", criteria, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("Preview failed: %d %s", w.Code, w.Body.String())
	}
	var preview model.SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &preview); err != nil {
		t.Fatalf("Failed to decode preview: %v", err)
	}
	if preview.Count != 2 || preview.Total != 3 {
		t.Errorf("Expected count=2 total=3, got count=%d total=%d", preview.Count, preview.Total)
	}
	if w := doJSON(t, router, http.MethodGet, "/api/v1/results", "", cookie); w.Code != http.StatusConflict {
		t.Errorf("Preview must not commit; expected 409, got %d", w.Code)
	}

	// Commit freezes the view
	if w := doJSON(t, router, http.MethodPost, "/api/v1/search/commit", criteria, cookie); w.Code != http.StatusOK {
		t.Fatalf("Commit failed: %d %s", w.Code, w.Body.String())
	}

	// Default display view is the plottable subset (only Room A has coords)
	w = doJSON(t, router, http.MethodGet, "/api/v1/results", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("Results failed: %d %s", w.Code, w.Body.String())
	}
	var results struct {
		Rows  []model.ResultRow `json:"rows"`
		Count int               `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("Failed to decode results: %v", err)
	}
	if results.Count != 1 || results.Rows[0].Name != "Room A" {
		t.Errorf("Expected the plottable row only, got %+v", results)
	}

	// Toggle show-all: both committed rows appear
	if w := doJSON(t, router, http.MethodPost, "/api/v1/display/toggle", "", cookie); w.Code != http.StatusOK {
		t.Fatalf("Toggle failed: %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/api/v1/results", "", cookie)
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("Failed to decode results: %v", err)
	}
	if results.Count != 2 {
		t.Errorf("Expected both committed rows after toggle, got %d", results.Count)
	}
	if results.Rows[0].Number != 1 || results.Rows[1].Number != 2 {
		t.Errorf("Rows must be numbered from 1, got %+v", results.Rows)
	}
}

func TestMapEndpoint(t *testing.T) {
	router := testRouter(t)
	cookie := login(t, router)

	// Before commit: conflict
	if w := doJSON(t, router, http.MethodGet, "/api/v1/map", "", cookie); w.Code != http.StatusConflict {
		t.Errorf("Expected 409 before commit, got %d", w.Code)
	}

	commit := `{"criteria":{"area":"A","price_min":1,"price_max":12,"floor_plans":["1K","2K"]}}`
	if w := doJSON(t, router, http.MethodPost, "/api/v1/search/commit", commit, cookie); w.Code != http.StatusOK {
		t.Fatalf("Commit failed: %d", w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/map", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("Map failed: %d %s", w.Code, w.Body.String())
	}
	var payload struct {
		Map *model.MapView `json:"map"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to decode map: %v", err)
	}
	if payload.Map == nil || len(payload.Map.Markers) != 1 {
		t.Fatalf("Expected one marker, got %+v", payload.Map)
	}

	// A committed view with no plottable rows yields a null map, not an error
	noCoords := `{"criteria":{"area":"A","price_min":6,"price_max":12,"floor_plans":["2K"]}}`
	if w := doJSON(t, router, http.MethodPost, "/api/v1/search/commit", noCoords, cookie); w.Code != http.StatusOK {
		t.Fatalf("Commit failed: %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/api/v1/map", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("Map failed: %d %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to decode map: %v", err)
	}
	if payload.Map != nil {
		t.Errorf("Expected a null map when no coordinates are plottable, got %+v", payload.Map)
	}
}
