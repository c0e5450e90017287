package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/odyssey-app/api-go/controllers"
)

func SetupDiscoveryRoutes(protected *gin.RouterGroup, discoveryController *controllers.DiscoveryController) {
	discoveries := protected.Group("/discoveries")
	{
		discoveries.POST("", discoveryController.CreateDiscovery)
		discoveries.GET("", discoveryController.GetFeed)
		discoveries.POST("/:id/like", discoveryController.LikeDiscovery)
	}
}
