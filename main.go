package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/odyssey-app/api-go/config"
	"github.com/odyssey-app/api-go/middleware"
	"github.com/odyssey-app/api-go/routes"
	"github.com/odyssey-app/api-go/services"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	// Initialize database
	db := config.InitDB()

	// Build services
	badges := services.NewBadgeService(db)
	trips := services.NewTripService(db, badges)
	sites := services.NewHeritageSiteClient(os.Getenv("OPENTRIPMAP_API_KEY"))
	annotations := services.NewAnnotationClient(os.Getenv("GEMINI_API_KEY"))
	boundaries := services.NewBoundaryCache()

	// Create a new Gin router
	r := gin.Default()

	// Add logging middleware
	r.Use(gin.LoggerWithWriter(os.Stdout))

	// Initialize routes
	routes.SetupRoutes(r, routes.Deps{
		DB:            db,
		Authenticator: middleware.NewAuthenticatorFromEnv(),
		Trips:         trips,
		Badges:        badges,
		Sites:         sites,
		Annotations:   annotations,
		Boundaries:    boundaries,
	})

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	r.Run(":" + port)
}
