package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/odyssey-app/api-go/controllers"
)

func SetupJournalRoutes(protected *gin.RouterGroup, journalController *controllers.JournalController) {
	journal := protected.Group("/journal")
	{
		journal.POST("", journalController.CreateEntry)
		journal.GET("", journalController.ListEntries)
		journal.GET("/fog-of-war", journalController.GetFogOfWar)
		journal.POST("/:id/annotations", journalController.AnnotateEntry)
	}
}
