package services

import (
	"context"
	"testing"

	"github.com/stacta-app/backend/internal/apperrors"
	"github.com/stacta-app/backend/internal/models"
	"github.com/stacta-app/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitReviewValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author", false)
	svc := NewReviewService(db)

	_, err := svc.Submit(ctx, author, &models.CreateReviewRequest{
		Source: "SOMEWHERE", ExternalID: "x", FragranceName: "f", Rating: 3, Excerpt: "ok",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidReview)

	_, err = svc.Submit(ctx, author, &models.CreateReviewRequest{
		Source: "COMMUNITY", ExternalID: "x", FragranceName: "f", Rating: 3, Excerpt: "ok",
		Performance: map[string]int{"Longevity": 9},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidReview)

	item, err := svc.Submit(ctx, author, &models.CreateReviewRequest{
		Source: "fragella", ExternalID: "x", FragranceName: "f", Rating: 3, Excerpt: "ok",
		Performance: map[string]int{"Longevity": 4, "Sillage": 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "FRAGELLA", item.FragranceSource)
	assert.Contains(t, item.ReviewPerformance, "longevity")
}

func TestLikeNotificationLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice", false)
	b := seedUser(t, db, "bob", false)
	c := seedUser(t, db, "carol", false)
	review := postReview(t, db, a, "contested")

	svc := NewReviewService(db)

	// B likes: counter 1, one aggregated notification for A.
	resp, err := svc.Like(ctx, b, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.LikesCount)
	notifs := liveNotifications(t, db, a.ID)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationReviewLiked, notifs[0].Type)
	assert.Equal(t, b.ID, notifs[0].ActorUserID)
	assert.Equal(t, 1, notifs[0].AggregateCount)

	// C likes: same row, count 2, newest actor.
	resp, err = svc.Like(ctx, c, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.LikesCount)
	notifs = liveNotifications(t, db, a.ID)
	require.Len(t, notifs, 1)
	assert.Equal(t, c.ID, notifs[0].ActorUserID)
	assert.Equal(t, 2, notifs[0].AggregateCount)

	// B unlikes: count back to 1, actor stays the remaining liker.
	resp, err = svc.Unlike(ctx, b, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.LikesCount)
	notifs = liveNotifications(t, db, a.ID)
	require.Len(t, notifs, 1)
	assert.Equal(t, c.ID, notifs[0].ActorUserID)
	assert.Equal(t, 1, notifs[0].AggregateCount)

	// C unlikes: zero likes, notification gone.
	resp, err = svc.Unlike(ctx, c, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.LikesCount)
	assert.Empty(t, liveNotifications(t, db, a.ID))
}

func TestDoubleLikeAndDoubleUnlikeAreIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice", false)
	b := seedUser(t, db, "bob", false)
	review := postReview(t, db, a, "steady")

	svc := NewReviewService(db)
	_, err := svc.Like(ctx, b, review.ID)
	require.NoError(t, err)
	resp, err := svc.Like(ctx, b, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.LikesCount)

	_, err = svc.Unlike(ctx, b, review.ID)
	require.NoError(t, err)
	resp, err = svc.Unlike(ctx, b, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.LikesCount)
}

func TestSelfLikeForbidden(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice", false)
	review := postReview(t, db, a, "mine")

	_, err := NewReviewService(db).Like(ctx, a, review.ID)
	assert.ErrorIs(t, err, apperrors.ErrReviewForbidden)
}

func TestRepostLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice", false)
	b := seedUser(t, db, "bob", false)
	review := postReview(t, db, a, "worth sharing")

	svc := NewReviewService(db)

	_, err := svc.Repost(ctx, a, review.ID)
	assert.ErrorIs(t, err, apperrors.ErrReviewForbidden)

	resp, err := svc.Repost(ctx, b, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.RepostsCount)
	assert.True(t, resp.ViewerHasReposted)

	// Repeat repost stays at one.
	resp, err = svc.Repost(ctx, b, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.RepostsCount)

	resp, err = svc.Unrepost(ctx, b, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.RepostsCount)
	assert.False(t, resp.ViewerHasReposted)
}

func TestLikeOnRepostResolvesToSource(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice", false)
	b := seedUser(t, db, "bob", false)
	c := seedUser(t, db, "carol", false)
	review := postReview(t, db, a, "canonical")

	svc := NewReviewService(db)
	_, err := svc.Repost(ctx, b, review.ID)
	require.NoError(t, err)

	repost, err := repositories.NewActivityRepository(db).GetRepost(ctx, b.ID, review.ID)
	require.NoError(t, err)
	require.NotNil(t, repost)

	// Liking the repost row lands on the source review.
	resp, err := svc.Like(ctx, c, repost.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.LikesCount)
	assert.Equal(t, 1, reviewRow(t, db, review.ID).LikesCount)
	assert.Equal(t, 0, reviewRow(t, db, repost.ID).LikesCount)
}

func TestDeleteReviewCascades(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice", false)
	b := seedUser(t, db, "bob", false)
	review := postReview(t, db, a, "doomed")

	reviews := NewReviewService(db)
	comments := NewCommentService(db)
	_, err := reviews.Like(ctx, b, review.ID)
	require.NoError(t, err)
	_, err = reviews.Repost(ctx, b, review.ID)
	require.NoError(t, err)
	_, err = comments.Create(ctx, b, review.ID, &models.CreateCommentRequest{Body: "nice"})
	require.NoError(t, err)

	// Only the owner may delete.
	err = reviews.Delete(ctx, b, review.ID)
	assert.ErrorIs(t, err, apperrors.ErrReviewForbidden)

	require.NoError(t, reviews.Delete(ctx, a, review.ID))

	var count int64
	require.NoError(t, db.Model(&models.ActivityEvent{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.ReviewComment{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.ReviewLike{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.NotificationEvent{}).Count(&count).Error)
	assert.Zero(t, count)
}
