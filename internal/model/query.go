package model

// SearchRequest carries live filter criteria from the UI. The same shape
// drives both the preview (count while adjusting controls) and the
// commit (freeze the current matches into the session).
type SearchRequest struct {
	Criteria FilterCriteria `json:"criteria"`
}

// SearchResponse is the result of evaluating criteria against the
// dataset snapshot.
type SearchResponse struct {
	Results []Listing `json:"results"`
	Count   int       `json:"count"`
	Total   int       `json:"total"`
}

// Marker is one plottable listing projected onto the map: a position
// plus the popup payload rendered when the marker is clicked.
type Marker struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	PopupHTML string  `json:"popup_html"`
}

// MapView is the renderable form of a committed view's plottable
// subset: the mean-coordinate center, a fixed initial zoom and one
// marker per row with valid coordinates, in input order.
type MapView struct {
	CenterLatitude  float64  `json:"center_latitude"`
	CenterLongitude float64  `json:"center_longitude"`
	Zoom            int      `json:"zoom"`
	Markers         []Marker `json:"markers"`
}

// ResultRow is one row of the search-result table: a 1-based row number,
// the display fields and a clickable detail link.
type ResultRow struct {
	Number     int     `json:"number"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Floor      string  `json:"floor"`
	Rent       float64 `json:"rent"`
	FloorPlan  string  `json:"floor_plan"`
	DetailLink string  `json:"detail_link"`
}

// CredentialsRequest is the login/signup payload.
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ReloadResponse reports the outcome of a catalog reload.
type ReloadResponse struct {
	Loaded  int `json:"loaded"`
	Dropped int `json:"dropped"`
}
