package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/odyssey-app/api-go/models"
	"github.com/odyssey-app/api-go/planner"
	"github.com/odyssey-app/api-go/services"
	"github.com/odyssey-app/api-go/types"
)

type SiteController struct {
	DB     *gorm.DB
	Source services.SiteSource
}

func NewSiteController(db *gorm.DB, source services.SiteSource) *SiteController {
	return &SiteController{DB: db, Source: source}
}

// SearchSites godoc
// @Summary Search the external catalog for heritage sites near a location
// @Tags sites
// @Produce json
// @Param location query string false "Location text, geocoded when no coordinate is given"
// @Param latitude query number false "Latitude"
// @Param longitude query number false "Longitude"
// @Success 200 {object} map[string]interface{}
// @Router /sites/search [get]
func (sc *SiteController) SearchSites(c *gin.Context) {
	var query types.SearchSitesRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var near *planner.Coordinate
	if query.Latitude != nil && query.Longitude != nil {
		coord := planner.Coordinate{Lat: *query.Latitude, Lng: *query.Longitude}
		if err := coord.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		near = &coord
	}

	sites, err := sc.Source.Search(c.Request.Context(), query.Location, near)
	if err != nil {
		if services.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Site search is temporarily unavailable"})
		return
	}

	// Cache the results so nearby queries and snapshots can reference them.
	for i := range sites {
		sc.DB.Where(models.Site{RefID: sites[i].RefID}).FirstOrCreate(&sites[i])
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "sites": sites})
}

// GetNearbySites godoc
// @Summary Get stored sites near a coordinate, closest first
// @Tags sites
// @Produce json
// @Param latitude query number true "Latitude"
// @Param longitude query number true "Longitude"
// @Param radius query number false "Search radius in kilometers"
// @Param category query string false "Filter by category"
// @Param maxSites query integer false "Maximum number of sites to return"
// @Success 200 {object} types.NearbySitesResponse
// @Router /sites/nearby [get]
func (sc *SiteController) GetNearbySites(c *gin.Context) {
	var query types.NearbySitesRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coord := planner.Coordinate{Lat: query.Latitude, Lng: query.Longitude}
	if err := coord.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	radius := 20.0
	if query.Radius > 0 {
		radius = query.Radius
	}

	limit := 50
	if query.MaxSites > 0 && query.MaxSites < limit {
		limit = query.MaxSites
	}

	db := sc.DB.Model(&models.Site{}).
		Select(`id, ref_id, name, latitude, longitude, heritage_type,
			(6371 * acos(cos(radians(?)) * cos(radians(latitude)) * cos(radians(longitude) - radians(?)) + sin(radians(?)) * sin(radians(latitude)))) AS distance`,
			query.Latitude, query.Longitude, query.Latitude).
		Where("(6371 * acos(cos(radians(?)) * cos(radians(latitude)) * cos(radians(longitude) - radians(?)) + sin(radians(?)) * sin(radians(latitude)))) <= ?",
			query.Latitude, query.Longitude, query.Latitude, radius)

	if query.Category != "" {
		db = db.Where("category = ?", query.Category)
	}

	var markers []types.SiteMarker
	if err := db.Order("distance").Limit(limit).Find(&markers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching sites"})
		return
	}

	response := types.NearbySitesResponse{Markers: markers}
	response.Filters.Radius = radius
	response.Filters.Category = query.Category

	c.JSON(http.StatusOK, response)
}
