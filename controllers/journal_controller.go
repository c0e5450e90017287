package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/odyssey-app/api-go/models"
	"github.com/odyssey-app/api-go/planner"
	"github.com/odyssey-app/api-go/services"
	"github.com/odyssey-app/api-go/utils"
)

type JournalController struct {
	DB          *gorm.DB
	Badges      *services.BadgeService
	Annotations *services.AnnotationClient
	Boundaries  *services.BoundaryCache
}

func NewJournalController(db *gorm.DB, badges *services.BadgeService, annotations *services.AnnotationClient, boundaries *services.BoundaryCache) *JournalController {
	return &JournalController{DB: db, Badges: badges, Annotations: annotations, Boundaries: boundaries}
}

type createJournalEntryInput struct {
	SiteRefID    string   `json:"siteRefId"`
	SiteName     string   `json:"siteName" binding:"required"`
	Category     string   `json:"category"`
	Latitude     *float64 `json:"latitude" binding:"required"`
	Longitude    *float64 `json:"longitude" binding:"required"`
	LocationName string   `json:"locationName"`
	Country      string   `json:"country"`
	State        string   `json:"state"`
	VisitedAt    *string  `json:"visitedAt"` // RFC 3339; defaults to now
	Notes        string   `json:"notes"`
	PhotoURLs    []string `json:"photoUrls"`
}

// CreateEntry godoc
// @Summary Log a visit directly into the journal
// @Tags journal
// @Accept json
// @Produce json
// @Success 201 {object} models.JournalEntry
// @Router /journal [post]
func (jc *JournalController) CreateEntry(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input createJournalEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	coord := planner.Coordinate{Lat: *input.Latitude, Lng: *input.Longitude}
	if err := coord.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	visitedAt := time.Now()
	if input.VisitedAt != nil {
		parsed, err := time.Parse(time.RFC3339, *input.VisitedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "visitedAt must be RFC 3339", "success": false})
			return
		}
		visitedAt = parsed
	}

	entry := models.JournalEntry{
		UserID:       user.UserID,
		SiteRefID:    input.SiteRefID,
		SiteName:     input.SiteName,
		Category:     input.Category,
		Latitude:     coord.Lat,
		Longitude:    coord.Lng,
		LocationName: input.LocationName,
		Country:      input.Country,
		State:        input.State,
		VisitedAt:    visitedAt,
		Notes:        input.Notes,
		PhotoURLs:    pq.StringArray(input.PhotoURLs),
	}

	if err := jc.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving journal entry"})
		return
	}

	jc.Badges.RecomputeAsync(user.UserID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "entry": entry})
}

// ListEntries godoc
// @Summary List the user's journal, most recent visit first
// @Tags journal
// @Produce json
// @Router /journal [get]
func (jc *JournalController) ListEntries(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var entries []models.JournalEntry
	if err := jc.DB.Where("user_id = ?", user.UserID).Order("visited_at DESC").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching journal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "entries": entries})
}

// GetFogOfWar godoc
// @Summary Aggregate every visited coordinate and country for the map overlay
// @Description Scans all of the user's journal entries; the boundary payload
// is cached process-wide after the first successful load.
// @Tags journal
// @Produce json
// @Router /journal/fog-of-war [get]
func (jc *JournalController) GetFogOfWar(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var points []struct {
		Latitude  float64 `json:"latitude" gorm:"column:latitude"`
		Longitude float64 `json:"longitude" gorm:"column:longitude"`
	}
	if err := jc.DB.Model(&models.JournalEntry{}).
		Select("latitude, longitude").
		Where("user_id = ?", user.UserID).
		Scan(&points).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching visits"})
		return
	}

	var countries []string
	if err := jc.DB.Model(&models.JournalEntry{}).
		Distinct("country").
		Where("user_id = ? AND country <> ''", user.UserID).
		Pluck("country", &countries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching countries"})
		return
	}

	response := gin.H{
		"success":   true,
		"points":    points,
		"countries": countries,
	}

	// The overlay degrades gracefully without boundary polygons.
	if jc.Boundaries != nil {
		if boundaries, err := jc.Boundaries.EnsureLoaded(c.Request.Context()); err == nil {
			response["boundaries"] = matchBoundaries(countries, boundaries)
		}
	}

	c.JSON(http.StatusOK, response)
}

// matchBoundaries picks the boundary polygons for the visited countries.
// Country names are user-entered, so matching ignores case.
func matchBoundaries(countries []string, boundaries []services.CountryBoundary) []services.CountryBoundary {
	visited := map[string]bool{}
	for _, name := range countries {
		visited[strings.ToLower(name)] = true
	}
	matched := make([]services.CountryBoundary, 0, len(countries))
	for _, b := range boundaries {
		if visited[strings.ToLower(b.Name)] {
			matched = append(matched, b)
		}
	}
	return matched
}

// AnnotateEntry godoc
// @Summary Generate AI annotations for a journal entry
// @Description Calls the generative text endpoint; only rate limits are retried
// @Tags journal
// @Param id path integer true "Journal entry ID"
// @Router /journal/{id}/annotations [post]
func (jc *JournalController) AnnotateEntry(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal entry id"})
		return
	}

	var entry models.JournalEntry
	if err := jc.DB.Where("id = ? AND user_id = ?", id, user.UserID).First(&entry).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		return
	}

	annotations, err := jc.Annotations.Generate(c.Request.Context(), entry.SiteName, entry.Country)
	if err != nil {
		if errors.Is(err, services.ErrRateLimited) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limited, try again later"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Annotation generation failed"})
		return
	}

	entry.Annotations = *annotations
	if err := jc.DB.Save(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving annotations"})
		return
	}

	jc.Badges.RecomputeAsync(user.UserID)

	c.JSON(http.StatusOK, gin.H{"success": true, "entry": entry})
}
