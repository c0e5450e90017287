package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/odyssey-app/api-go/models"
	"github.com/odyssey-app/api-go/planner"
	"github.com/odyssey-app/api-go/services"
	"github.com/odyssey-app/api-go/utils"
)

type ItineraryController struct {
	DB    *gorm.DB
	Trips *services.TripService
}

func NewItineraryController(db *gorm.DB, trips *services.TripService) *ItineraryController {
	return &ItineraryController{DB: db, Trips: trips}
}

type itineraryItemInput struct {
	SiteRefID    string   `json:"siteRefId" binding:"required"`
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	Address      string   `json:"address"`
	Category     string   `json:"category"`
	HeritageType *string  `json:"heritageType"`
	Rating       float64  `json:"rating"`
	Latitude     *float64 `json:"latitude" binding:"required"`
	Longitude    *float64 `json:"longitude" binding:"required"`
	VisitNotes   string   `json:"visitNotes"`
}

type createItineraryInput struct {
	Name        string               `json:"name" binding:"required"`
	Location    string               `json:"location"`
	StartDate   *string              `json:"startDate"`
	EndDate     *string              `json:"endDate"`
	Description string               `json:"description"`
	SmartPlan   bool                 `json:"smartPlan"`
	Items       []itineraryItemInput `json:"items" binding:"required,dive"`
}

func (in itineraryItemInput) toModel() models.ItineraryItem {
	item := models.ItineraryItem{
		SiteRefID:   in.SiteRefID,
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		Category:    in.Category,
		Rating:      in.Rating,
		VisitNotes:  in.VisitNotes,
	}
	if in.Latitude != nil {
		item.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		item.Longitude = *in.Longitude
	}
	if in.HeritageType != nil {
		ht := models.HeritageType(*in.HeritageType)
		if ht.Valid() {
			item.HeritageType = &ht
		}
	}
	return item
}

// CreateItinerary godoc
// @Summary Save a trip draft as an itinerary
// @Tags itineraries
// @Accept json
// @Produce json
// @Success 201 {object} models.Itinerary
// @Router /itineraries [post]
func (ic *ItineraryController) CreateItinerary(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input createItineraryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	items := make([]models.ItineraryItem, 0, len(input.Items))
	for _, in := range input.Items {
		items = append(items, in.toModel())
	}

	draft := services.TripDraft{
		Name:        input.Name,
		Location:    input.Location,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Description: input.Description,
		SmartPlan:   input.SmartPlan,
	}

	itinerary, err := ic.Trips.SaveTrip(c.Request.Context(), user.UserID, draft, items)
	if err != nil {
		status := http.StatusInternalServerError
		if services.IsValidation(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error(), "success": false})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "itinerary": itinerary})
}

// ListItineraries godoc
// @Summary List the user's itineraries with items in order
// @Tags itineraries
// @Produce json
// @Router /itineraries [get]
func (ic *ItineraryController) ListItineraries(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	itineraries, err := ic.Trips.ListItineraries(c.Request.Context(), user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching itineraries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "itineraries": itineraries})
}

// GetItinerary godoc
// @Summary Fetch one itinerary with its items ordered by position
// @Tags itineraries
// @Produce json
// @Param id path integer true "Itinerary ID"
// @Router /itineraries/{id} [get]
func (ic *ItineraryController) GetItinerary(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid itinerary id"})
		return
	}

	itinerary, err := ic.Trips.GetItinerary(c.Request.Context(), user.UserID, uint(id))
	if err != nil {
		if errors.Is(err, services.ErrItineraryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Itinerary not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching itinerary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "itinerary": itinerary})
}

// DeleteItinerary godoc
// @Summary Delete an itinerary and its items as one unit
// @Tags itineraries
// @Param id path integer true "Itinerary ID"
// @Router /itineraries/{id} [delete]
func (ic *ItineraryController) DeleteItinerary(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid itinerary id"})
		return
	}

	if err := ic.Trips.DeleteItinerary(c.Request.Context(), user.UserID, uint(id)); err != nil {
		if errors.Is(err, services.ErrItineraryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Itinerary not found"})
			return
		}
		if errors.Is(err, services.ErrItineraryCompleted) {
			c.JSON(http.StatusConflict, gin.H{"error": "Completed itineraries cannot be deleted"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting itinerary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Itinerary deleted"})
}

// CompleteItinerary godoc
// @Summary Mark an itinerary completed and log every stop into the journal
// @Description Completion is terminal and idempotent; badge recomputation runs in the background
// @Tags itineraries
// @Param id path integer true "Itinerary ID"
// @Router /itineraries/{id}/complete [post]
func (ic *ItineraryController) CompleteItinerary(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid itinerary id"})
		return
	}

	itinerary, err := ic.Trips.MarkCompleted(c.Request.Context(), user.UserID, uint(id))
	if err != nil {
		if errors.Is(err, services.ErrItineraryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Itinerary not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error completing itinerary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "itinerary": itinerary})
}

// PlanPreview godoc
// @Summary Preview the smart-plan ordering for a list of sites without saving
// @Tags itineraries
// @Accept json
// @Produce json
// @Router /itineraries/plan [post]
func (ic *ItineraryController) PlanPreview(c *gin.Context) {
	var input struct {
		Items []itineraryItemInput `json:"items" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	items := make([]models.ItineraryItem, 0, len(input.Items))
	for _, in := range input.Items {
		item := in.toModel()
		coord := planner.Coordinate{Lat: item.Latitude, Lng: item.Longitude}
		if err := coord.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
			return
		}
		items = append(items, item)
	}

	ordered := planner.SmartPlan(items)
	for i := range ordered {
		ordered[i].OrderIndex = i
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "items": ordered})
}
