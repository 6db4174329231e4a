package services

import (
	"context"
	"testing"

	"github.com/stacta-app/backend/internal/apperrors"
	"github.com/stacta-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommentBumpsCounterAndNotifies(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice", false)
	b := seedUser(t, db, "bob", false)
	review := postReview(t, db, a, "discussable")

	svc := NewCommentService(db)
	item, err := svc.Create(ctx, b, review.ID, &models.CreateCommentRequest{Body: "great pick"})
	require.NoError(t, err)
	assert.Equal(t, "bob", item.Author.Username)
	assert.True(t, item.ViewerCanDelete)
	assert.Equal(t, 1, reviewRow(t, db, review.ID).CommentsCount)

	notifs := liveNotifications(t, db, a.ID)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationReviewCommented, notifs[0].Type)
	assert.Equal(t, b.ID, notifs[0].ActorUserID)
}

func TestCommentOnOwnReviewDoesNotNotify(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice", false)
	review := postReview(t, db, a, "soliloquy")

	_, err := NewCommentService(db).Create(ctx, a, review.ID, &models.CreateCommentRequest{Body: "me again"})
	require.NoError(t, err)
	assert.Empty(t, liveNotifications(t, db, a.ID))
	assert.Equal(t, 1, reviewRow(t, db, review.ID).CommentsCount)
}

func TestReplyNotifiesParentAuthor(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice", false)
	b := seedUser(t, db, "bob", false)
	c := seedUser(t, db, "carol", false)
	review := postReview(t, db, a, "threaded")

	svc := NewCommentService(db)
	top, err := svc.Create(ctx, b, review.ID, &models.CreateCommentRequest{Body: "top"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, c, review.ID, &models.CreateCommentRequest{Body: "reply", ParentCommentID: &top.ID})
	require.NoError(t, err)

	// Parent author gets the reply notification.
	bNotifs := liveNotifications(t, db, b.ID)
	require.Len(t, bNotifs, 1)
	assert.Equal(t, models.NotificationReviewCommentReplied, bNotifs[0].Type)
	assert.Equal(t, c.ID, bNotifs[0].ActorUserID)

	// Review owner hears about both comments.
	aTypes := []string{}
	for _, n := range liveNotifications(t, db, a.ID) {
		aTypes = append(aTypes, n.Type)
	}
	assert.ElementsMatch(t, []string{models.NotificationReviewCommented, models.NotificationReviewCommented}, aTypes)
}

func TestReplyDepthLimitedToOne(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice", false)
	b := seedUser(t, db, "bob", false)
	review := postReview(t, db, a, "shallow")

	svc := NewCommentService(db)
	top, err := svc.Create(ctx, b, review.ID, &models.CreateCommentRequest{Body: "top"})
	require.NoError(t, err)
	reply, err := svc.Create(ctx, a, review.ID, &models.CreateCommentRequest{Body: "reply", ParentCommentID: &top.ID})
	require.NoError(t, err)

	_, err = svc.Create(ctx, b, review.ID, &models.CreateCommentRequest{Body: "too deep", ParentCommentID: &reply.ID})
	assert.ErrorIs(t, err, apperrors.ErrInvalidComment)
}

func TestDeleteCommentCollapsesSubtree(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice", false)
	b := seedUser(t, db, "bob", false)
	review := postReview(t, db, a, "pruned")

	svc := NewCommentService(db)
	top, err := svc.Create(ctx, b, review.ID, &models.CreateCommentRequest{Body: "top"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, a, review.ID, &models.CreateCommentRequest{Body: "r1", ParentCommentID: &top.ID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, a, review.ID, &models.CreateCommentRequest{Body: "r2", ParentCommentID: &top.ID})
	require.NoError(t, err)
	require.Equal(t, 3, reviewRow(t, db, review.ID).CommentsCount)

	// Only the author may delete.
	err = svc.Delete(ctx, a, review.ID, top.ID)
	assert.ErrorIs(t, err, apperrors.ErrCommentForbidden)

	require.NoError(t, svc.Delete(ctx, b, review.ID, top.ID))
	assert.Equal(t, 0, reviewRow(t, db, review.ID).CommentsCount)

	items, err := svc.ListComments(ctx, a, review.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetThread(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice", false)
	b := seedUser(t, db, "bob", false)
	review := postReview(t, db, a, "thread me")

	svc := NewCommentService(db)
	_, err := svc.Create(ctx, b, review.ID, &models.CreateCommentRequest{Body: "first"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, a, review.ID, &models.CreateCommentRequest{Body: "second"})
	require.NoError(t, err)

	thread, err := svc.GetThread(ctx, b, review.ID)
	require.NoError(t, err)
	assert.Equal(t, review.ID, thread.Review.ID)
	require.Len(t, thread.Comments, 2)
	assert.Equal(t, "first", thread.Comments[0].Body)
	assert.Equal(t, "second", thread.Comments[1].Body)

	_, err = svc.GetThread(ctx, b, "missing")
	assert.ErrorIs(t, err, apperrors.ErrReviewNotFound)
}

func TestReportComment(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice", false)
	b := seedUser(t, db, "bob", false)
	review := postReview(t, db, a, "reportable")

	svc := NewCommentService(db)
	comment, err := svc.Create(ctx, b, review.ID, &models.CreateCommentRequest{Body: "rude"})
	require.NoError(t, err)

	err = svc.Report(ctx, a, review.ID, comment.ID, &models.ReportCommentRequest{Reason: "NONSENSE"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidComment)

	require.NoError(t, svc.Report(ctx, a, review.ID, comment.ID, &models.ReportCommentRequest{Reason: "spam"}))

	err = svc.Report(ctx, a, review.ID, comment.ID, &models.ReportCommentRequest{Reason: "SPAM"})
	assert.ErrorIs(t, err, apperrors.ErrCommentAlreadyReported)
}
