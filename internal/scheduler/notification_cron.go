package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/stacta-app/backend/internal/services"
)

// StartNotificationCronJobs runs the notification retention jobs: a daily
// expiry sweep and an hourly purge of long-dismissed rows.
func StartNotificationCronJobs(notificationService *services.NotificationService) *cron.Cron {
	c := cron.New()

	// Expiry sweep, once a day after midnight
	c.AddFunc("0 3 * * *", func() {
		if _, err := notificationService.ExpireOld(context.Background()); err != nil {
			logrus.WithError(err).Error("notification expiry sweep failed")
		}
	})

	// Purge soft-deleted rows past the purge window
	c.AddFunc("@hourly", func() {
		if _, err := notificationService.Purge(context.Background()); err != nil {
			logrus.WithError(err).Error("notification purge failed")
		}
	})

	c.Start()
	return c
}
