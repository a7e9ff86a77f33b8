package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"medical-booking-server/internal/config"
	"medical-booking-server/internal/handlers"
	"medical-booking-server/internal/history"
	"medical-booking-server/internal/middleware"
	"medical-booking-server/internal/models"
	"medical-booking-server/internal/reviews"
	"medical-booking-server/internal/scheduling"
	"medical-booking-server/internal/webhooks"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, logger zerolog.Logger) {
	// Core components with explicit dependencies
	checker := scheduling.NewChecker(db, cfg.Booking)
	booker := scheduling.NewBooker(db, checker)
	booker.OnCompleted = history.Recompute
	gate := reviews.NewGate(db)
	notifier := webhooks.NewNotifier(cfg.WebhookURL, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db, cfg, checker, booker, notifier)
	reviewHandler := handlers.NewReviewHandler(db, cfg, gate)
	historyHandler := handlers.NewHistoryHandler(db)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		userRoutes := private.Group("/users")
		{
			userRoutes.GET("/professionals", userHandler.GetProfessionals)
			userRoutes.GET("/professionals/:id", userHandler.GetProfessionalByID)
		}

		serviceRoutes := private.Group("/services")
		{
			serviceRoutes.GET("", serviceHandler.GetServices)
			serviceRoutes.GET("/:id", serviceHandler.GetServiceByID)

			// Catalog mutation is an administrative task performed by
			// professionals; services are never deleted.
			professionalOnly := serviceRoutes.Group("")
			professionalOnly.Use(middleware.RoleAuthMiddleware(models.RoleProfessional))
			{
				professionalOnly.POST("", serviceHandler.CreateService)
				professionalOnly.PUT("/:id", serviceHandler.UpdateService)
			}
		}

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.GET("/available-slots", appointmentHandler.GetAvailableSlots)
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient, models.RoleProfessional), appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id/status", appointmentHandler.UpdateAppointmentStatus)
			appointmentRoutes.PATCH("/:id/reschedule", appointmentHandler.RescheduleAppointment)
		}

		reviewRoutes := private.Group("/reviews")
		{
			reviewRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), reviewHandler.CreateReview)
			reviewRoutes.GET("", reviewHandler.GetReviewsForUser)
			reviewRoutes.GET("/professional/:id", reviewHandler.GetProfessionalReviews)
			reviewRoutes.GET("/professional/:id/stats", reviewHandler.GetProfessionalStats)
			reviewRoutes.PATCH("/:id/verify", reviewHandler.VerifyReview)
		}

		private.GET("/history", historyHandler.GetVisitHistory)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
