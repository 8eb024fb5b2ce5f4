package handler

import (
	"errors"
	"net/http"

	"rentalmap/internal/model"
	"rentalmap/internal/service"

	"github.com/gin-gonic/gin"
)

// ListingHandler handles catalog, search, display and map requests
type ListingHandler struct {
	catalog *service.CatalogService
}

// NewListingHandler creates a new listing handler
func NewListingHandler(catalog *service.CatalogService) *ListingHandler {
	return &ListingHandler{catalog: catalog}
}

// Facets handles GET /api/v1/facets
func (h *ListingHandler) Facets(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Facets())
}

// Preview handles POST /api/v1/search/preview. Evaluates live criteria
// against the snapshot without touching session state, so the UI can
// show a running match count while controls move.
func (h *ListingHandler) Preview(c *gin.Context) {
	criteria, ok := h.bindCriteria(c)
	if !ok {
		return
	}

	snapshot := h.catalog.Snapshot()
	results := service.ApplyFilters(snapshot, criteria)

	c.JSON(http.StatusOK, model.SearchResponse{
		Results: results,
		Count:   len(results),
		Total:   len(snapshot),
	})
}

// Commit handles POST /api/v1/search/commit. Applies the criteria and
// freezes the result into the session; this is the only path that
// changes what the table and map show.
func (h *ListingHandler) Commit(c *gin.Context) {
	criteria, ok := h.bindCriteria(c)
	if !ok {
		return
	}

	snapshot := h.catalog.Snapshot()
	results := service.ApplyFilters(snapshot, criteria)
	sessionState(c).Commit(results)

	c.JSON(http.StatusOK, model.SearchResponse{
		Results: results,
		Count:   len(results),
		Total:   len(snapshot),
	})
}

// ToggleDisplay handles POST /api/v1/display/toggle
func (h *ListingHandler) ToggleDisplay(c *gin.Context) {
	state := sessionState(c)
	state.ToggleShowAll()
	c.JSON(http.StatusOK, gin.H{"show_all": state.ShowAll()})
}

// Results handles GET /api/v1/results — the table rows for the current
// display view.
func (h *ListingHandler) Results(c *gin.Context) {
	view, err := sessionState(c).DisplayView()
	if err != nil {
		if errors.Is(err, service.ErrNoCommit) {
			c.JSON(http.StatusConflict, gin.H{"error": "no search committed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rows":  service.ResultRows(view),
		"count": len(view),
	})
}

// Map handles GET /api/v1/map — the projected map of the committed
// view's plottable subset. A view with no valid coordinates is not an
// error: the response carries a null map and the client skips rendering.
func (h *ListingHandler) Map(c *gin.Context) {
	view, err := sessionState(c).PlottableView()
	if err != nil {
		if errors.Is(err, service.ErrNoCommit) {
			c.JSON(http.StatusConflict, gin.H{"error": "no search committed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	mapView, err := service.Project(view)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCenter) {
			c.JSON(http.StatusOK, gin.H{"map": nil})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"map": mapView})
}

// Reload handles POST /api/v1/catalog/reload
func (h *ListingHandler) Reload(c *gin.Context) {
	loaded, dropped, err := h.catalog.Load(c.Request.Context())
	if err != nil {
		// Snapshot has fallen back to empty; report but keep serving
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Reload failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, model.ReloadResponse{Loaded: loaded, Dropped: dropped})
}

// bindCriteria binds and clamps the request criteria. On bind failure
// it writes the 400 itself and returns false.
func (h *ListingHandler) bindCriteria(c *gin.Context) (model.FilterCriteria, bool) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return model.FilterCriteria{}, false
	}
	return h.catalog.ClampCriteria(req.Criteria), true
}
