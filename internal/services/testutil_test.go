package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stacta-app/backend/internal/models"
	"github.com/stacta-app/backend/internal/repositories"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ActivityEvent{},
		&models.ReviewLike{},
		&models.ReviewComment{},
		&models.CommentReport{},
		&models.FollowRelationship{},
		&models.NotificationEvent{},
	))
	require.NoError(t, db.Exec(repositories.ReviewLikedIndex).Error)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, private bool) *models.User {
	t.Helper()
	user := &models.User{
		ID:        uuid.New().String(),
		AuthSub:   "sub-" + username,
		Username:  username,
		IsPrivate: private,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func reloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	user, err := repositories.NewUserRepository(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func postReview(t *testing.T, db *gorm.DB, author *models.User, name string) *models.FeedItem {
	t.Helper()
	item, err := NewReviewService(db).Submit(context.Background(), author, &models.CreateReviewRequest{
		Source:        "COMMUNITY",
		ExternalID:    "ext-" + name,
		FragranceName: name,
		Rating:        4,
		Excerpt:       "notes on " + name,
	})
	require.NoError(t, err)
	return item
}

func postReviews(t *testing.T, db *gorm.DB, author *models.User, n int) []*models.FeedItem {
	t.Helper()
	items := make([]*models.FeedItem, n)
	for i := 0; i < n; i++ {
		items[i] = postReview(t, db, author, fmt.Sprintf("fragrance-%03d", i))
	}
	return items
}

// followAccepted establishes an accepted edge follower -> target, going
// through the pending flow when the target is private.
func followAccepted(t *testing.T, db *gorm.DB, follower, target *models.User) {
	t.Helper()
	ctx := context.Background()
	svc := NewFollowService(db)
	resp, err := svc.Follow(ctx, follower, target.Username)
	require.NoError(t, err)
	if resp.Status == models.FollowStatusPending {
		page, err := svc.PendingRequests(ctx, target, "", 50)
		require.NoError(t, err)
		for _, req := range page.Items {
			if req.Username == follower.Username {
				require.NoError(t, svc.AcceptRequest(ctx, target, req.ID))
				return
			}
		}
		t.Fatalf("pending request from %s not found", follower.Username)
	}
	require.Equal(t, models.FollowStatusAccepted, resp.Status)
}

func liveNotifications(t *testing.T, db *gorm.DB, recipientID string) []models.NotificationEvent {
	t.Helper()
	var rows []models.NotificationEvent
	require.NoError(t, db.
		Where("recipient_user_id = ? AND deleted_at IS NULL", recipientID).
		Order("created_at DESC").
		Find(&rows).Error)
	return rows
}

func reviewRow(t *testing.T, db *gorm.DB, id string) *models.ActivityEvent {
	t.Helper()
	event, err := repositories.NewActivityRepository(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, event)
	return event
}
