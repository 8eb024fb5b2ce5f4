package service

import (
	"errors"
	"fmt"
	"html"

	"rentalmap/internal/model"
)

// ErrEmptyCenter is returned when a view holds no row with valid
// coordinates. The caller must skip map rendering outright; a map
// centered at (0,0) or NaN is never emitted.
var ErrEmptyCenter = errors.New("no valid coordinates in view")

// defaultZoom is the initial map zoom level.
const defaultZoom = 12

// Project turns a view into its renderable map form: center at the mean
// latitude/longitude over rows with valid coordinates, one marker per
// such row in input order, no deduplication by position.
func Project(view []model.Listing) (model.MapView, error) {
	var latSum, lonSum float64
	markers := make([]model.Marker, 0, len(view))

	for _, l := range view {
		if !l.HasCoordinates() {
			continue
		}
		lat, lon := *l.Latitude, *l.Longitude
		latSum += lat
		lonSum += lon
		markers = append(markers, model.Marker{
			Latitude:  lat,
			Longitude: lon,
			PopupHTML: popupHTML(l),
		})
	}

	if len(markers) == 0 {
		return model.MapView{}, ErrEmptyCenter
	}

	n := float64(len(markers))
	return model.MapView{
		CenterLatitude:  latSum / n,
		CenterLongitude: lonSum / n,
		Zoom:            defaultZoom,
		Markers:         markers,
	}, nil
}

// popupHTML builds the marker popup: name, address, rent with the fixed
// currency suffix, floor plan, and the detail page as a clickable link.
func popupHTML(l model.Listing) string {
	return fmt.Sprintf(
		`<b>名称:</b> %s<br><b>アドレス:</b> %s<br><b>家賃:</b> %.1f万円<br><b>間取り:</b> %s<br><a href="%s" target="_blank">物件詳細</a>`,
		html.EscapeString(l.Name),
		html.EscapeString(l.Address),
		l.Rent,
		html.EscapeString(l.FloorPlan),
		html.EscapeString(l.DetailURL),
	)
}
