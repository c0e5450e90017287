package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/odyssey-app/api-go/controllers"
	"github.com/odyssey-app/api-go/middleware"
	"github.com/odyssey-app/api-go/services"
)

// Deps carries the shared services the controllers are built from.
type Deps struct {
	DB            *gorm.DB
	Authenticator middleware.Authenticator
	Trips         *services.TripService
	Badges        *services.BadgeService
	Sites         services.SiteSource
	Annotations   *services.AnnotationClient
	Boundaries    *services.BoundaryCache
}

func SetupRoutes(r *gin.Engine, deps Deps) {
	// Initialize controllers
	authController := controllers.NewAuthController(deps.DB)
	siteController := controllers.NewSiteController(deps.DB, deps.Sites)
	itineraryController := controllers.NewItineraryController(deps.DB, deps.Trips)
	journalController := controllers.NewJournalController(deps.DB, deps.Badges, deps.Annotations, deps.Boundaries)
	badgeController := controllers.NewBadgeController(deps.DB, deps.Badges)
	discoveryController := controllers.NewDiscoveryController(deps.DB, deps.Badges)
	uploadController := controllers.NewUploadController(deps.DB)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/auth/google", authController.GoogleSignIn)
		public.POST("/refresh-token", authController.RefreshToken)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(deps.Authenticator))
	{
		protected.POST("/logout", authController.Logout)
		// User routes
		protected.GET("/profile", authController.GetProfile)
		protected.PUT("/profile", authController.UpdateProfile)

		// Setup other routes within the protected group
		SetupSiteRoutes(protected, siteController)
		SetupItineraryRoutes(protected, itineraryController)
		SetupJournalRoutes(protected, journalController)
		SetupBadgeRoutes(protected, badgeController)
		SetupDiscoveryRoutes(protected, discoveryController)
		SetupUploadRoutes(protected, uploadController)
	}
}
