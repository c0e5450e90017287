package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/odyssey-app/api-go/controllers"
)

func SetupSiteRoutes(protected *gin.RouterGroup, siteController *controllers.SiteController) {
	sites := protected.Group("/sites")
	{
		sites.GET("/search", siteController.SearchSites)
		sites.GET("/nearby", siteController.GetNearbySites)
	}
}
