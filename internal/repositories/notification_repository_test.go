package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stacta-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupNotificationTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.NotificationEvent{}))
	require.NoError(t, db.Exec(ReviewLikedIndex).Error)
	return db
}

func reviewLikedRows(t *testing.T, db *gorm.DB, recipientID, reviewID string) []models.NotificationEvent {
	t.Helper()
	var rows []models.NotificationEvent
	require.NoError(t, db.
		Where("recipient_user_id = ? AND source_review_id = ? AND type = ?",
			recipientID, reviewID, models.NotificationReviewLiked).
		Find(&rows).Error)
	return rows
}

// The upsert has to hit ux_notification_review_liked on the second call: one
// live row per (recipient, review), with actor, count and timestamp replaced.
func TestUpsertReviewLikedCollapsesToOneRow(t *testing.T) {
	db := setupNotificationTestDB(t)
	ctx := context.Background()
	repo := NewNotificationRepository(db)

	recipient := uuid.New().String()
	firstLiker := uuid.New().String()
	secondLiker := uuid.New().String()
	reviewID := uuid.New().String()
	base := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.UpsertReviewLiked(ctx, recipient, firstLiker, reviewID, 1, base))
	require.NoError(t, repo.UpsertReviewLiked(ctx, recipient, secondLiker, reviewID, 2, base.Add(time.Minute)))

	rows := reviewLikedRows(t, db, recipient, reviewID)
	require.Len(t, rows, 1)
	assert.Equal(t, secondLiker, rows[0].ActorUserID)
	assert.Equal(t, 2, rows[0].AggregateCount)
	assert.True(t, rows[0].CreatedAt.After(base))
}

func TestUpsertReviewLikedRevivesDismissedRow(t *testing.T) {
	db := setupNotificationTestDB(t)
	ctx := context.Background()
	repo := NewNotificationRepository(db)

	recipient := uuid.New().String()
	liker := uuid.New().String()
	reviewID := uuid.New().String()
	base := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.UpsertReviewLiked(ctx, recipient, liker, reviewID, 1, base))
	dismissed, err := repo.SoftDelete(ctx, recipient, reviewLikedRows(t, db, recipient, reviewID)[0].ID, base.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, dismissed)

	require.NoError(t, repo.UpsertReviewLiked(ctx, recipient, liker, reviewID, 2, base.Add(2*time.Minute)))

	rows := reviewLikedRows(t, db, recipient, reviewID)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].DeletedAt)
	assert.Equal(t, 2, rows[0].AggregateCount)
}

func TestUpsertReviewLikedKeepsRecipientsSeparate(t *testing.T) {
	db := setupNotificationTestDB(t)
	ctx := context.Background()
	repo := NewNotificationRepository(db)

	reviewA := uuid.New().String()
	reviewB := uuid.New().String()
	recipientA := uuid.New().String()
	recipientB := uuid.New().String()
	liker := uuid.New().String()
	now := time.Now().UTC()

	require.NoError(t, repo.UpsertReviewLiked(ctx, recipientA, liker, reviewA, 1, now))
	require.NoError(t, repo.UpsertReviewLiked(ctx, recipientB, liker, reviewB, 1, now))

	assert.Len(t, reviewLikedRows(t, db, recipientA, reviewA), 1)
	assert.Len(t, reviewLikedRows(t, db, recipientB, reviewB), 1)
}
