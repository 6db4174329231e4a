package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stacta-app/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewLikedIndex is the partial unique index backing the REVIEW_LIKED
// upsert. AutoMigrate cannot express a partial index, so Migrate creates it
// with raw DDL (valid on both Postgres and SQLite).
const ReviewLikedIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS ux_notification_review_liked
ON notification_events (recipient_user_id, source_review_id, type)
WHERE type = 'REVIEW_LIKED'`

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	Create(ctx context.Context, event *models.NotificationEvent) error
	// UpsertReviewLiked inserts or replaces the single live REVIEW_LIKED row
	// for (recipient, review): newest liker wins, count and timestamp refresh,
	// and a previously dismissed row is revived.
	UpsertReviewLiked(ctx context.Context, recipientID, actorID, reviewID string, aggregateCount int, now time.Time) error
	DeleteReviewLiked(ctx context.Context, recipientID, reviewID string) error
	DeleteByReviewID(ctx context.Context, reviewID string) error
	DeleteBySourceFollowID(ctx context.Context, followID string) error

	List(ctx context.Context, recipientID string, cursorCreatedAt *time.Time, cursorID string, limit int) ([]models.NotificationItem, error)
	CountUnread(ctx context.Context, recipientID string, seenAt time.Time) (int64, error)
	SoftDelete(ctx context.Context, recipientID, notificationID string, now time.Time) (bool, error)
	SoftDeleteRead(ctx context.Context, recipientID string, seenAt, now time.Time) (int64, error)
	SoftDeleteExpired(ctx context.Context, readCutoff, unreadCutoff, now time.Time) (int64, error)
	Purge(ctx context.Context, deletedBefore time.Time) (int64, error)
}

type gormNotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func (r *gormNotificationRepository) Create(ctx context.Context, event *models.NotificationEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *gormNotificationRepository) UpsertReviewLiked(ctx context.Context, recipientID, actorID, reviewID string, aggregateCount int, now time.Time) error {
	event := &models.NotificationEvent{
		ID:              uuid.New().String(),
		RecipientUserID: recipientID,
		ActorUserID:     actorID,
		Type:            models.NotificationReviewLiked,
		SourceReviewID:  &reviewID,
		AggregateCount:  aggregateCount,
		CreatedAt:       now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "recipient_user_id"},
			{Name: "source_review_id"},
			{Name: "type"},
		},
		// The predicate must render as the same literal the partial index was
		// created with; a bound parameter here never matches the index.
		TargetWhere: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "type = 'REVIEW_LIKED'"},
		}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"actor_user_id":   actorID,
			"aggregate_count": aggregateCount,
			"created_at":      now,
			"deleted_at":      nil,
		}),
	}).Create(event).Error
}

func (r *gormNotificationRepository) DeleteReviewLiked(ctx context.Context, recipientID, reviewID string) error {
	return r.db.WithContext(ctx).
		Where("recipient_user_id = ? AND source_review_id = ? AND type = ?",
			recipientID, reviewID, models.NotificationReviewLiked).
		Delete(&models.NotificationEvent{}).Error
}

func (r *gormNotificationRepository) DeleteByReviewID(ctx context.Context, reviewID string) error {
	return r.db.WithContext(ctx).
		Where("source_review_id = ?", reviewID).
		Delete(&models.NotificationEvent{}).Error
}

func (r *gormNotificationRepository) DeleteBySourceFollowID(ctx context.Context, followID string) error {
	return r.db.WithContext(ctx).
		Where("source_follow_id = ?", followID).
		Delete(&models.NotificationEvent{}).Error
}

func (r *gormNotificationRepository) List(ctx context.Context, recipientID string, cursorCreatedAt *time.Time, cursorID string, limit int) ([]models.NotificationItem, error) {
	query := `
SELECT
  ne.id AS id,
  ne.type AS type,
  u.username AS actor_username,
  u.display_name AS actor_display_name,
  u.avatar_url AS actor_avatar_url,
  ne.source_review_id AS source_review_id,
  ne.source_comment_id AS source_comment_id,
  ne.aggregate_count AS aggregate_count,
  COALESCE(ae.fragrance_name, '') AS review_fragrance_name,
  ne.created_at AS created_at
FROM notification_events ne
JOIN users u ON u.id = ne.actor_user_id
LEFT JOIN activity_events ae ON ae.id = ne.source_review_id
WHERE ne.recipient_user_id = ?
  AND ne.deleted_at IS NULL`
	args := []interface{}{recipientID}

	if cursorCreatedAt != nil {
		query += `
  AND (ne.created_at < ? OR (ne.created_at = ? AND ne.id < ?))`
		args = append(args, *cursorCreatedAt, *cursorCreatedAt, cursorID)
	}
	query += `
ORDER BY ne.created_at DESC, ne.id DESC
LIMIT ?`
	args = append(args, limit)

	var items []models.NotificationItem
	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&items).Error
	return items, err
}

func (r *gormNotificationRepository) CountUnread(ctx context.Context, recipientID string, seenAt time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.NotificationEvent{}).
		Where("recipient_user_id = ? AND deleted_at IS NULL AND created_at > ?", recipientID, seenAt).
		Count(&count).Error
	return count, err
}

func (r *gormNotificationRepository) SoftDelete(ctx context.Context, recipientID, notificationID string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.NotificationEvent{}).
		Where("id = ? AND recipient_user_id = ? AND deleted_at IS NULL", notificationID, recipientID).
		UpdateColumn("deleted_at", now)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormNotificationRepository) SoftDeleteRead(ctx context.Context, recipientID string, seenAt, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.NotificationEvent{}).
		Where("recipient_user_id = ? AND deleted_at IS NULL AND created_at <= ?", recipientID, seenAt).
		UpdateColumn("deleted_at", now)
	return res.RowsAffected, res.Error
}

// SoftDeleteExpired ages out old notifications against each recipient's seen
// watermark: read rows expire at readCutoff, unread rows at the longer
// unreadCutoff. Moderation strikes are retained indefinitely.
func (r *gormNotificationRepository) SoftDeleteExpired(ctx context.Context, readCutoff, unreadCutoff, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
UPDATE notification_events
SET deleted_at = ?
WHERE deleted_at IS NULL
  AND type <> 'MODERATION_STRIKE'
  AND (
    (created_at <= (SELECT u.notifications_seen_at FROM users u WHERE u.id = notification_events.recipient_user_id)
      AND created_at < ?)
    OR (created_at > (SELECT u.notifications_seen_at FROM users u WHERE u.id = notification_events.recipient_user_id)
      AND created_at < ?)
  )`, now, readCutoff, unreadCutoff)
	return res.RowsAffected, res.Error
}

func (r *gormNotificationRepository) Purge(ctx context.Context, deletedBefore time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("deleted_at IS NOT NULL AND deleted_at < ?", deletedBefore).
		Delete(&models.NotificationEvent{})
	return res.RowsAffected, res.Error
}
