package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/odyssey-app/api-go/models"
	"github.com/odyssey-app/api-go/services"
	"github.com/odyssey-app/api-go/utils"
)

type BadgeController struct {
	DB     *gorm.DB
	Badges *services.BadgeService
}

func NewBadgeController(db *gorm.DB, badges *services.BadgeService) *BadgeController {
	return &BadgeController{DB: db, Badges: badges}
}

// GetCatalog godoc
// @Summary List all badge definitions
// @Tags badges
// @Produce json
// @Router /badges [get]
func (bc *BadgeController) GetCatalog(c *gin.Context) {
	var badges []models.Badge
	if err := bc.DB.Order("id").Find(&badges).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching badges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "badges": badges})
}

// GetMyBadges godoc
// @Summary The user's progress against every badge, locked ones included
// @Tags badges
// @Produce json
// @Router /badges/me [get]
func (bc *BadgeController) GetMyBadges(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	badges, err := bc.Badges.ListForUser(c.Request.Context(), user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching badge progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "badges": badges})
}
