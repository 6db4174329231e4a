package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stacta-app/backend/internal/apperrors"
	"github.com/stacta-app/backend/internal/models"
	"github.com/stacta-app/backend/internal/repositories"
	"gorm.io/gorm"
)

// Retention windows. Read notifications expire sooner than unread ones;
// soft-deleted rows linger for the purge window before being removed for good.
type NotificationRetention struct {
	ReadWindow   time.Duration
	UnreadWindow time.Duration
	PurgeWindow  time.Duration
}

func DefaultNotificationRetention() NotificationRetention {
	return NotificationRetention{
		ReadWindow:   30 * 24 * time.Hour,
		UnreadWindow: 90 * 24 * time.Hour,
		PurgeWindow:  30 * 24 * time.Hour,
	}
}

// NotificationService owns the per-recipient notification log: watermark-based
// read state, dismissal, and the retention sweeps.
type NotificationService struct {
	db            *gorm.DB
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
	retention     NotificationRetention
}

func NewNotificationService(db *gorm.DB, retention NotificationRetention) *NotificationService {
	return &NotificationService{
		db:            db,
		users:         repositories.NewUserRepository(db),
		notifications: repositories.NewNotificationRepository(db),
		retention:     retention,
	}
}

// List returns one page of the viewer's notifications and, as a side effect,
// advances the seen watermark to now: everything delivered so far counts as
// read from the next unread-count call onward.
func (s *NotificationService) List(ctx context.Context, viewer *models.User, cursorToken string, limit int) (*models.NotificationsResponse, error) {
	limit = clampLimit(limit)
	cursor, err := DecodeTimeCursor(cursorScopeNotifications, cursorToken)
	if err != nil {
		return nil, err
	}
	var items []models.NotificationItem
	if cursor != nil {
		items, err = s.notifications.List(ctx, viewer.ID, &cursor.CreatedAt, cursor.ID, limit+1)
	} else {
		items, err = s.notifications.List(ctx, viewer.ID, nil, "", limit+1)
	}
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}
	resp := &models.NotificationsResponse{Items: items}
	if hasMore {
		last := items[len(items)-1]
		token := EncodeTimeCursor(cursorScopeNotifications, last.CreatedAt, last.ID)
		resp.NextCursor = &token
	}

	if err := s.users.SetNotificationsSeenAt(ctx, viewer.ID, time.Now().UTC()); err != nil {
		return nil, err
	}
	return resp, nil
}

// UnreadCount counts live notifications newer than the viewer's watermark.
func (s *NotificationService) UnreadCount(ctx context.Context, viewer *models.User) (*models.UnreadNotificationsResponse, error) {
	count, err := s.notifications.CountUnread(ctx, viewer.ID, viewer.NotificationsSeenAt)
	if err != nil {
		return nil, err
	}
	return &models.UnreadNotificationsResponse{UnreadCount: count}, nil
}

// Delete dismisses a single notification (soft delete).
func (s *NotificationService) Delete(ctx context.Context, viewer *models.User, notificationID string) error {
	ok, err := s.notifications.SoftDelete(ctx, viewer.ID, notificationID, time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// ClearRead dismisses every notification at or below the viewer's watermark
// and reports how many were cleared.
func (s *NotificationService) ClearRead(ctx context.Context, viewer *models.User) (int64, error) {
	return s.notifications.SoftDeleteRead(ctx, viewer.ID, viewer.NotificationsSeenAt, time.Now().UTC())
}

// RecordModerationStrike notifies a user of a moderation action. Strikes are
// exempt from the expiry sweep and stay until the user dismisses them.
func (s *NotificationService) RecordModerationStrike(ctx context.Context, recipientID, actorID string) error {
	return s.notifications.Create(ctx, &models.NotificationEvent{
		RecipientUserID: recipientID,
		ActorUserID:     actorID,
		Type:            models.NotificationModerationStrike,
		AggregateCount:  1,
		CreatedAt:       time.Now().UTC(),
	})
}

// ExpireOld soft-deletes notifications past their retention window. Run daily.
func (s *NotificationService) ExpireOld(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	expired, err := s.notifications.SoftDeleteExpired(ctx,
		now.Add(-s.retention.ReadWindow),
		now.Add(-s.retention.UnreadWindow),
		now)
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		logrus.WithField("expired", expired).Info("notification expiry sweep")
	}
	return expired, nil
}

// Purge hard-deletes rows soft-deleted longer ago than the purge window.
func (s *NotificationService) Purge(ctx context.Context) (int64, error) {
	purged, err := s.notifications.Purge(ctx, time.Now().UTC().Add(-s.retention.PurgeWindow))
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		logrus.WithField("purged", purged).Info("notification purge")
	}
	return purged, nil
}
