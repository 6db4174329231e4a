package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/stacta-app/backend/internal/router"
	"github.com/stacta-app/backend/internal/scheduler"
	"github.com/stacta-app/backend/internal/services"
	"github.com/stacta-app/backend/pkg/config"
	"github.com/stacta-app/backend/pkg/logger"
	"github.com/stacta-app/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.InitLogger(cfg.Env)

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// One notification service serves both the handlers and the retention
	// cron jobs, so the retention windows cannot drift between them.
	notificationService := services.NewNotificationService(db, services.NotificationRetention{
		ReadWindow:   cfg.NotificationReadRetention,
		UnreadWindow: cfg.NotificationUnreadRetention,
		PurgeWindow:  cfg.NotificationPurgeRetention,
	})

	// Setup routes and dependencies
	router.SetupRoutes(e, db, cfg, notificationService)

	// Validator
	e.Validator = validators.NewValidator()

	// Notification retention jobs
	retentionJobs := scheduler.StartNotificationCronJobs(notificationService)
	defer retentionJobs.Stop()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
