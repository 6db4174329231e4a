package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stacta-app/backend/internal/apperrors"
	"github.com/stacta-app/backend/internal/models"
	"github.com/stacta-app/backend/internal/repositories"
	"gorm.io/gorm"
)

var validReportReasons = map[string]bool{
	models.ReportReasonSpam:          true,
	models.ReportReasonInappropriate: true,
	models.ReportReasonHarassment:    true,
	models.ReportReasonOther:         true,
}

// CommentService owns review comment threads: listing, creation with its
// notification fan-out, subtree deletion and reporting.
type CommentService struct {
	db         *gorm.DB
	activities repositories.ActivityRepository
	comments   repositories.CommentRepository
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		db:         db,
		activities: repositories.NewActivityRepository(db),
		comments:   repositories.NewCommentRepository(db),
	}
}

// resolveReview follows repost indirection to the canonical REVIEW_POSTED row.
func (s *CommentService) resolveReview(ctx context.Context, reviewID string) (*models.ActivityEvent, error) {
	event, err := s.activities.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if event != nil && event.Type == models.ActivityReviewReposted && event.SourceReviewID != nil {
		event, err = s.activities.GetByID(ctx, *event.SourceReviewID)
		if err != nil {
			return nil, err
		}
	}
	if event == nil || event.Type != models.ActivityReviewPosted {
		return nil, apperrors.ErrReviewNotFound
	}
	return event, nil
}

// GetThread returns one review with its full comment list, oldest first.
func (s *CommentService) GetThread(ctx context.Context, viewer *models.User, reviewID string) (*models.ReviewThreadResponse, error) {
	review, err := s.resolveReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	row, err := s.activities.GetFeedItem(ctx, review.ID, viewer.ID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apperrors.ErrReviewNotFound
	}
	comments, err := s.comments.ListByReviewID(ctx, review.ID, viewer.ID)
	if err != nil {
		return nil, err
	}
	return &models.ReviewThreadResponse{Review: feedRowToItem(*row), Comments: comments}, nil
}

// ListComments returns the review's comments, oldest first.
func (s *CommentService) ListComments(ctx context.Context, viewer *models.User, reviewID string) ([]models.CommentItem, error) {
	review, err := s.resolveReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return s.comments.ListByReviewID(ctx, review.ID, viewer.ID)
}

// Create adds a comment or a one-level reply and bumps the review's counter.
// The review author gets REVIEW_COMMENTED and a reply's parent author gets
// REVIEW_COMMENT_REPLIED; nobody is notified about their own comment.
func (s *CommentService) Create(ctx context.Context, viewer *models.User, reviewID string, req *models.CreateCommentRequest) (*models.CommentItem, error) {
	review, err := s.resolveReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, apperrors.ErrInvalidComment
	}

	var parent *models.ReviewComment
	if req.ParentCommentID != nil {
		parent, err = s.comments.GetByID(ctx, review.ID, *req.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperrors.ErrCommentNotFound
		}
		// Replies attach to top-level comments only.
		if parent.ParentCommentID != nil {
			return nil, apperrors.ErrInvalidComment
		}
	}

	now := time.Now().UTC()
	comment := &models.ReviewComment{
		ID:           uuid.New().String(),
		ReviewID:     review.ID,
		AuthorUserID: viewer.ID,
		Body:         body,
		CreatedAt:    now,
	}
	if parent != nil {
		comment.ParentCommentID = &parent.ID
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		comments := repositories.NewCommentRepository(tx)
		activities := repositories.NewActivityRepository(tx)
		notifications := repositories.NewNotificationRepository(tx)

		if err := comments.Create(ctx, comment); err != nil {
			return err
		}
		if err := activities.BumpCommentsCount(ctx, review.ID, 1); err != nil {
			return err
		}
		if parent != nil && parent.AuthorUserID != viewer.ID {
			reply := &models.NotificationEvent{
				RecipientUserID: parent.AuthorUserID,
				ActorUserID:     viewer.ID,
				Type:            models.NotificationReviewCommentReplied,
				SourceReviewID:  &review.ID,
				SourceCommentID: &comment.ID,
				AggregateCount:  1,
				CreatedAt:       now,
			}
			if err := notifications.Create(ctx, reply); err != nil {
				return err
			}
		}
		ownerAlreadyNotified := parent != nil && parent.AuthorUserID == review.ActorUserID
		if review.ActorUserID != viewer.ID && !ownerAlreadyNotified {
			commented := &models.NotificationEvent{
				RecipientUserID: review.ActorUserID,
				ActorUserID:     viewer.ID,
				Type:            models.NotificationReviewCommented,
				SourceReviewID:  &review.ID,
				SourceCommentID: &comment.ID,
				AggregateCount:  1,
				CreatedAt:       now,
			}
			if err := notifications.Create(ctx, commented); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.comments.GetItem(ctx, comment.ID, viewer.ID)
}

// Delete removes the viewer's comment together with its reply subtree and
// collapses the review's comment counter by the number of rows removed. The
// count and the delete run in one transaction; a reply racing in under the
// subtree is deleted with it on commit rather than left orphaned.
func (s *CommentService) Delete(ctx context.Context, viewer *models.User, reviewID, commentID string) error {
	review, err := s.resolveReview(ctx, reviewID)
	if err != nil {
		return err
	}
	comment, err := s.comments.GetByID(ctx, review.ID, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return apperrors.ErrCommentNotFound
	}
	if comment.AuthorUserID != viewer.ID {
		return apperrors.ErrCommentForbidden
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		comments := repositories.NewCommentRepository(tx)
		activities := repositories.NewActivityRepository(tx)

		ids, err := comments.SubtreeIDs(ctx, review.ID, comment.ID)
		if err != nil {
			return err
		}
		removed, err := comments.DeleteByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if removed == 0 {
			return nil
		}
		return activities.BumpCommentsCount(ctx, review.ID, -int(removed))
	})
}

// Report flags a comment for moderation. A reporter gets one open report per
// comment; repeats conflict.
func (s *CommentService) Report(ctx context.Context, viewer *models.User, reviewID, commentID string, req *models.ReportCommentRequest) error {
	review, err := s.resolveReview(ctx, reviewID)
	if err != nil {
		return err
	}
	comment, err := s.comments.GetByID(ctx, review.ID, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return apperrors.ErrCommentNotFound
	}
	reason := strings.ToUpper(strings.TrimSpace(req.Reason))
	if !validReportReasons[reason] {
		return apperrors.ErrInvalidComment
	}
	open, err := s.comments.HasOpenReport(ctx, comment.ID, viewer.ID)
	if err != nil {
		return err
	}
	if open {
		return apperrors.ErrCommentAlreadyReported
	}
	return s.comments.CreateReport(ctx, &models.CommentReport{
		ID:               uuid.New().String(),
		CommentID:        comment.ID,
		ReportedByUserID: viewer.ID,
		Reason:           reason,
		Details:          strings.TrimSpace(req.Details),
		Status:           models.ReportStatusOpen,
		CreatedAt:        time.Now().UTC(),
	})
}
