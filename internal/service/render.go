package service

import (
	"fmt"
	"html"

	"rentalmap/internal/model"
)

// ResultRows turns a display view into the result table: a 1-based row
// number per listing plus a clickable detail link. Row order matches
// the view.
func ResultRows(view []model.Listing) []model.ResultRow {
	rows := make([]model.ResultRow, 0, len(view))
	for i, l := range view {
		rows = append(rows, model.ResultRow{
			Number:     i + 1,
			Name:       l.Name,
			Address:    l.Address,
			Floor:      l.Floor,
			Rent:       l.Rent,
			FloorPlan:  l.FloorPlan,
			DetailLink: detailLink(l.DetailURL),
		})
	}
	return rows
}

// detailLink renders the detail URL as the fixed-label anchor the
// result table displays.
func detailLink(url string) string {
	return fmt.Sprintf(`<a target="_blank" href="%s">リンク</a>`, html.EscapeString(url))
}
