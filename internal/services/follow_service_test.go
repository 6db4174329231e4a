package services

import (
	"context"
	"testing"

	"github.com/stacta-app/backend/internal/apperrors"
	"github.com/stacta-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowPublicUserAcceptsImmediately(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	follower := seedUser(t, db, "follower", false)
	target := seedUser(t, db, "target", false)

	svc := NewFollowService(db)
	resp, err := svc.Follow(ctx, follower, target.Username)
	require.NoError(t, err)
	assert.Equal(t, models.FollowStatusAccepted, resp.Status)

	assert.Equal(t, int64(1), reloadUser(t, db, target.ID).FollowersCount)
	assert.Equal(t, int64(1), reloadUser(t, db, follower.ID).FollowingCount)

	following, err := svc.IsFollowing(ctx, follower, target.Username)
	require.NoError(t, err)
	assert.True(t, following)

	// Accepted follow writes the feed event and the notification.
	var events int64
	require.NoError(t, db.Model(&models.ActivityEvent{}).
		Where("type = ? AND actor_user_id = ?", models.ActivityUserFollowedUser, follower.ID).
		Count(&events).Error)
	assert.Equal(t, int64(1), events)

	notifs := liveNotifications(t, db, target.ID)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationFollowedYou, notifs[0].Type)
	assert.Equal(t, follower.ID, notifs[0].ActorUserID)
}

func TestFollowBackNotification(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice", false)
	b := seedUser(t, db, "bob", false)

	svc := NewFollowService(db)
	_, err := svc.Follow(ctx, a, b.Username)
	require.NoError(t, err)
	_, err = svc.Follow(ctx, b, a.Username)
	require.NoError(t, err)

	notifs := liveNotifications(t, db, a.ID)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationFollowedYouBack, notifs[0].Type)
}

func TestFollowSelfRejected(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice", false)

	_, err := NewFollowService(db).Follow(ctx, a, a.Username)
	assert.ErrorIs(t, err, apperrors.ErrInvalidFollowTarget)
}

func TestFollowPrivateUserGoesThroughRequest(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	follower := seedUser(t, db, "follower", false)
	target := seedUser(t, db, "hermit", true)

	svc := NewFollowService(db)
	resp, err := svc.Follow(ctx, follower, target.Username)
	require.NoError(t, err)
	assert.Equal(t, models.FollowStatusPending, resp.Status)

	// No counters, events or notifications while pending.
	assert.Equal(t, int64(0), reloadUser(t, db, target.ID).FollowersCount)
	assert.Empty(t, liveNotifications(t, db, target.ID))

	page, err := svc.PendingRequests(ctx, target, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "follower", page.Items[0].Username)

	require.NoError(t, svc.AcceptRequest(ctx, target, page.Items[0].ID))
	assert.Equal(t, int64(1), reloadUser(t, db, target.ID).FollowersCount)
	following, err := svc.IsFollowing(ctx, follower, target.Username)
	require.NoError(t, err)
	assert.True(t, following)

	// The request is consumed.
	err = svc.AcceptRequest(ctx, target, page.Items[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrFollowRequestNotFound)
}

func TestDeclineRequest(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	follower := seedUser(t, db, "follower", false)
	target := seedUser(t, db, "hermit", true)

	svc := NewFollowService(db)
	_, err := svc.Follow(ctx, follower, target.Username)
	require.NoError(t, err)

	page, err := svc.PendingRequests(ctx, target, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	require.NoError(t, svc.DeclineRequest(ctx, target, page.Items[0].ID))
	following, err := svc.IsFollowing(ctx, follower, target.Username)
	require.NoError(t, err)
	assert.False(t, following)

	// Only the addressee may act on a request.
	_, err = svc.Follow(ctx, follower, target.Username)
	require.NoError(t, err)
	page, err = svc.PendingRequests(ctx, target, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	err = svc.DeclineRequest(ctx, follower, page.Items[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrFollowRequestNotFound)
}

func TestUnfollowUnwindsAcceptedEdge(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	follower := seedUser(t, db, "follower", false)
	target := seedUser(t, db, "target", false)

	svc := NewFollowService(db)
	_, err := svc.Follow(ctx, follower, target.Username)
	require.NoError(t, err)

	require.NoError(t, svc.Unfollow(ctx, follower, target.Username))

	assert.Equal(t, int64(0), reloadUser(t, db, target.ID).FollowersCount)
	assert.Equal(t, int64(0), reloadUser(t, db, follower.ID).FollowingCount)
	assert.Empty(t, liveNotifications(t, db, target.ID))

	var events int64
	require.NoError(t, db.Model(&models.ActivityEvent{}).
		Where("type = ?", models.ActivityUserFollowedUser).
		Count(&events).Error)
	assert.Zero(t, events)

	// Unfollowing again is a no-op.
	require.NoError(t, svc.Unfollow(ctx, follower, target.Username))
}

func TestFollowIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	follower := seedUser(t, db, "follower", false)
	target := seedUser(t, db, "target", false)

	svc := NewFollowService(db)
	_, err := svc.Follow(ctx, follower, target.Username)
	require.NoError(t, err)
	resp, err := svc.Follow(ctx, follower, target.Username)
	require.NoError(t, err)
	assert.Equal(t, models.FollowStatusAccepted, resp.Status)
	assert.Equal(t, int64(1), reloadUser(t, db, target.ID).FollowersCount)
}
