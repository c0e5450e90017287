package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/odyssey-app/api-go/controllers"
)

func SetupItineraryRoutes(protected *gin.RouterGroup, itineraryController *controllers.ItineraryController) {
	itineraries := protected.Group("/itineraries")
	{
		itineraries.POST("", itineraryController.CreateItinerary)
		itineraries.GET("", itineraryController.ListItineraries)
		itineraries.POST("/plan", itineraryController.PlanPreview)
		itineraries.GET("/:id", itineraryController.GetItinerary)
		itineraries.DELETE("/:id", itineraryController.DeleteItinerary)
		itineraries.POST("/:id/complete", itineraryController.CompleteItinerary)
	}
}
