package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/odyssey-app/api-go/controllers"
)

func SetupBadgeRoutes(protected *gin.RouterGroup, badgeController *controllers.BadgeController) {
	badges := protected.Group("/badges")
	{
		badges.GET("", badgeController.GetCatalog)
		badges.GET("/me", badgeController.GetMyBadges)
	}
}
