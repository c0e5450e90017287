package controllers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/odyssey-app/api-go/models"
	"github.com/odyssey-app/api-go/planner"
	"github.com/odyssey-app/api-go/services"
	"github.com/odyssey-app/api-go/types"
	"github.com/odyssey-app/api-go/utils"
)

type DiscoveryController struct {
	DB     *gorm.DB
	Badges *services.BadgeService
}

type DiscoveryFeedQuery struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"pageSize,default=20" binding:"min=1,max=50"`
}

func NewDiscoveryController(db *gorm.DB, badges *services.BadgeService) *DiscoveryController {
	return &DiscoveryController{DB: db, Badges: badges}
}

type createDiscoveryInput struct {
	Caption   string   `json:"caption"`
	MediaType string   `json:"mediaType" binding:"required,oneof=photo video"`
	MediaURLs []string `json:"mediaUrls" binding:"required,min=1"`
	SiteName  string   `json:"siteName"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
}

// CreateDiscovery godoc
// @Summary Share a discovery in the community feed
// @Tags discoveries
// @Accept json
// @Produce json
// @Router /discoveries [post]
func (dc *DiscoveryController) CreateDiscovery(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input createDiscoveryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if input.Latitude != 0 || input.Longitude != 0 {
		coord := planner.Coordinate{Lat: input.Latitude, Lng: input.Longitude}
		if err := coord.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
			return
		}
	}

	discovery := models.Discovery{
		UserID:    user.UserID,
		Caption:   input.Caption,
		MediaType: input.MediaType,
		MediaURLs: pq.StringArray(input.MediaURLs),
		SiteName:  input.SiteName,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	}

	if err := dc.DB.Create(&discovery).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving discovery"})
		return
	}

	dc.Badges.RecomputeAsync(user.UserID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "discovery": discovery})
}

// GetFeed godoc
// @Summary The community discovery feed, newest first
// @Tags discoveries
// @Produce json
// @Param page query integer false "Page number (default: 1)"
// @Param pageSize query integer false "Items per page (default: 20, max: 50)"
// @Router /discoveries [get]
func (dc *DiscoveryController) GetFeed(c *gin.Context) {
	var query DiscoveryFeedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := dc.DB.Model(&models.Discovery{})

	var total int64
	db.Count(&total)

	offset := (query.Page - 1) * query.PageSize

	var discoveries []struct {
		models.Discovery
		LikesCount int64  `json:"likesCount"`
		Username   string `json:"username"`
	}

	result := db.
		Select("discoveries.*, users.username, " +
			"(SELECT COUNT(*) FROM discovery_likes WHERE discovery_likes.discovery_id = discoveries.id) as likes_count").
		Joins("JOIN users ON users.id = discoveries.user_id").
		Order("discoveries.created_at DESC").
		Offset(offset).
		Limit(query.PageSize).
		Find(&discoveries)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching feed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"discoveries": discoveries,
		"pagination": types.PaginationMeta{
			CurrentPage: query.Page,
			PageSize:    query.PageSize,
			TotalItems:  total,
			TotalPages:  int(math.Ceil(float64(total) / float64(query.PageSize))),
		},
	})
}

// LikeDiscovery godoc
// @Summary Like or unlike a discovery
// @Description Toggles like status; the owner's badge progress is refreshed in the background
// @Tags discoveries
// @Param id path integer true "Discovery ID"
// @Router /discoveries/{id}/like [post]
func (dc *DiscoveryController) LikeDiscovery(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discovery id"})
		return
	}

	var discovery models.Discovery
	if err := dc.DB.First(&discovery, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Discovery not found"})
		return
	}

	var existing models.DiscoveryLike
	result := dc.DB.Where("discovery_id = ? AND user_id = ?", discovery.ID, user.UserID).First(&existing)

	if result.Error == gorm.ErrRecordNotFound {
		like := models.DiscoveryLike{DiscoveryID: discovery.ID, UserID: user.UserID}
		if err := dc.DB.Create(&like).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like discovery"})
			return
		}
		dc.Badges.RecomputeAsync(discovery.UserID)
		c.JSON(http.StatusOK, gin.H{"liked": true})
		return
	}

	if err := dc.DB.Delete(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlike discovery"})
		return
	}
	dc.Badges.RecomputeAsync(discovery.UserID)
	c.JSON(http.StatusOK, gin.H{"liked": false})
}
