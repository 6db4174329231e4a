package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/stacta-app/backend/internal/handlers"
	"github.com/stacta-app/backend/internal/middleware"
	"github.com/stacta-app/backend/internal/models"
	"github.com/stacta-app/backend/internal/repositories"
	"github.com/stacta-app/backend/internal/services"
	"github.com/stacta-app/backend/pkg/config"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// Migrate creates the schema plus the partial unique index the REVIEW_LIKED
// notification upsert targets, which AutoMigrate cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.ActivityEvent{},
		&models.ReviewLike{},
		&models.ReviewComment{},
		&models.CommentReport{},
		&models.FollowRelationship{},
		&models.NotificationEvent{},
	); err != nil {
		return err
	}
	return db.Exec(repositories.ReviewLikedIndex).Error
}

// SetupRoutes configures all application routes and injects dependencies.
// The notification service is built by the caller so the retention cron jobs
// share the exact instance the handlers use.
func SetupRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config, notificationService *services.NotificationService) {
	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("Auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	userRepo := repositories.NewUserRepository(db)

	feedService := services.NewFeedService(db)
	reviewService := services.NewReviewService(db)
	commentService := services.NewCommentService(db)
	followService := services.NewFollowService(db)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	feedHandler := handlers.NewFeedHandler(userRepo, feedService)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	reviewHandler := handlers.NewReviewHandler(userRepo, reviewService, commentService)
	reviewHandler.RegisterReviewRoutes(api)
	log.Println("Review routes configured.")

	followHandler := handlers.NewFollowHandler(userRepo, followService)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	activityHandler := handlers.NewActivityHandler(userRepo, services.NewActivityService(db))
	activityHandler.RegisterActivityRoutes(api)
	log.Println("Activity routes configured.")

	notificationHandler := handlers.NewNotificationHandler(userRepo, notificationService)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
