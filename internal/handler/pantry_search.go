package handler

import (
	"context"
	"net/http"
	"strconv"

	"spca-maps/internal/models"

	"github.com/gin-gonic/gin"
)

// PantrySearchHandler serves pantry lookups backed by PostGIS
type PantrySearchHandler struct {
	search  PantrySearcher
	nearest NearestPantryFinder
}

// PantrySearcher interface for dependency injection
type PantrySearcher interface {
	Search(context.Context, string) ([]models.Location, error)
}

// NearestPantryFinder interface for dependency injection
type NearestPantryFinder interface {
	Nearest(context.Context, float64, float64) (*models.Location, error)
}

func NewPantrySearchHandler(search PantrySearcher, nearest NearestPantryFinder) *PantrySearchHandler {
	return &PantrySearchHandler{search: search, nearest: nearest}
}

// Search handles GET /api/pantries requests
//
//	@Summary	Search pantries by name or address
//	@Tags		pantries
//	@Produce	json
//	@Param		q	query		string	true	"search text"
//	@Success	200	{array}		models.Location
//	@Failure	400	{object}	map[string]string
//	@Router		/api/pantries [get]
func (h *PantrySearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'q'"})
		return
	}

	pantries, err := h.search.Search(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pantries)
}

// Nearest handles GET /api/pantries/nearest requests
//
//	@Summary	Find the pantry closest to a point
//	@Tags		pantries
//	@Produce	json
//	@Param		lat	query		number	true	"latitude"
//	@Param		lon	query		number	true	"longitude"
//	@Success	200	{object}	models.Location
//	@Failure	400	{object}	map[string]string
//	@Failure	404	{object}	map[string]string
//	@Router		/api/pantries/nearest [get]
func (h *PantrySearchHandler) Nearest(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'lat' and 'lon'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	pantry, err := h.nearest.Nearest(c.Request.Context(), lat, lon)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if pantry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pantry found near the specified coordinates"})
		return
	}

	c.JSON(http.StatusOK, pantry)
}
