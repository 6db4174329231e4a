package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stacta-app/backend/internal/apperrors"
	"github.com/stacta-app/backend/internal/models"
	"github.com/stacta-app/backend/internal/repositories"
	"gorm.io/gorm"
)

// Review label maps are bounded per dimension.
const (
	maxPerformanceLabels = 8
	maxSeasonLabels      = 16
	maxOccasionLabels    = 24
	maxLabelKeyLength    = 64
)

var validFragranceSources = map[string]bool{
	"FRAGELLA":  true,
	"COMMUNITY": true,
}

// ReviewService owns the review lifecycle and its engagement writes. Every
// multi-row mutation (like, unlike, repost, delete) runs in one transaction so
// counters, notifications and rows never partially apply.
type ReviewService struct {
	db         *gorm.DB
	activities repositories.ActivityRepository
	likes      repositories.ReviewLikeRepository
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{
		db:         db,
		activities: repositories.NewActivityRepository(db),
		likes:      repositories.NewReviewLikeRepository(db),
	}
}

// normalizeLabelMap lowercases keys and serializes the map to JSON text.
// Empty maps serialize to "" so the column stays NULL-ish for non-reviews.
func normalizeLabelMap(labels map[string]int, maxEntries int) (string, error) {
	if len(labels) == 0 {
		return "", nil
	}
	if len(labels) > maxEntries {
		return "", apperrors.ErrInvalidReview
	}
	normalized := make(map[string]int, len(labels))
	for key, score := range labels {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" || len(key) > maxLabelKeyLength {
			return "", apperrors.ErrInvalidReview
		}
		if score < 1 || score > 5 {
			return "", apperrors.ErrInvalidReview
		}
		normalized[key] = score
	}
	raw, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Submit validates and stores a new review as a REVIEW_POSTED activity event.
func (s *ReviewService) Submit(ctx context.Context, viewer *models.User, req *models.CreateReviewRequest) (*models.FeedItem, error) {
	source := strings.ToUpper(strings.TrimSpace(req.Source))
	if !validFragranceSources[source] {
		return nil, apperrors.ErrInvalidReview
	}
	performance, err := normalizeLabelMap(req.Performance, maxPerformanceLabels)
	if err != nil {
		return nil, err
	}
	season, err := normalizeLabelMap(req.Season, maxSeasonLabels)
	if err != nil {
		return nil, err
	}
	occasion, err := normalizeLabelMap(req.Occasion, maxOccasionLabels)
	if err != nil {
		return nil, err
	}

	rating := req.Rating
	event := &models.ActivityEvent{
		ID:                  uuid.New().String(),
		ActorUserID:         viewer.ID,
		Type:                models.ActivityReviewPosted,
		FragranceName:       req.FragranceName,
		FragranceSource:     source,
		FragranceExternalID: req.ExternalID,
		FragranceImageURL:   req.FragranceImageURL,
		ReviewRating:        &rating,
		ReviewExcerpt:       req.Excerpt,
		ReviewPerformance:   performance,
		ReviewSeason:        season,
		ReviewOccasion:      occasion,
		CreatedAt:           time.Now().UTC(),
	}
	if err := s.activities.Create(ctx, event); err != nil {
		return nil, err
	}
	row, err := s.activities.GetFeedItem(ctx, event.ID, viewer.ID)
	if err != nil {
		return nil, err
	}
	item := feedRowToItem(*row)
	return &item, nil
}

// resolveReview maps any review-typed event ID to its canonical REVIEW_POSTED
// row, following repost indirection when needed.
func (s *ReviewService) resolveReview(ctx context.Context, reviewID string) (*models.ActivityEvent, error) {
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

// Delete removes the viewer's review and everything hanging off it: comments,
// likes, reposts pointing at it, and notifications that reference it.
func (s *ReviewService) Delete(ctx context.Context, viewer *models.User, reviewID string) error {
	review, err := s.resolveReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.ActorUserID != viewer.ID {
		return apperrors.ErrReviewForbidden
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		activities := repositories.NewActivityRepository(tx)
		comments := repositories.NewCommentRepository(tx)
		likes := repositories.NewReviewLikeRepository(tx)
		notifications := repositories.NewNotificationRepository(tx)

		if err := comments.DeleteByReviewID(ctx, review.ID); err != nil {
			return err
		}
		if err := likes.DeleteByReviewID(ctx, review.ID); err != nil {
			return err
		}
		if _, err := activities.DeleteRepostsOf(ctx, review.ID); err != nil {
			return err
		}
		if err := notifications.DeleteByReviewID(ctx, review.ID); err != nil {
			return err
		}
		return activities.DeleteByID(ctx, review.ID)
	})
}

// syncLikeNotification reconciles the single aggregated REVIEW_LIKED row for
// the review's author against the live like set: absent at zero likers,
// otherwise carrying the newest liker and the distinct-liker count.
func syncLikeNotification(ctx context.Context, tx *gorm.DB, ownerID, reviewID string, now time.Time) error {
	likes := repositories.NewReviewLikeRepository(tx)
	notifications := repositories.NewNotificationRepository(tx)

	count, err := likes.CountExcluding(ctx, reviewID, ownerID)
	if err != nil {
		return err
	}
	if count == 0 {
		return notifications.DeleteReviewLiked(ctx, ownerID, reviewID)
	}
	actorID, err := likes.LatestLikerExcluding(ctx, reviewID, ownerID)
	if err != nil {
		return err
	}
	return notifications.UpsertReviewLiked(ctx, ownerID, actorID, reviewID, int(count), now)
}

// Like records the viewer's like. Double-likes are absorbed by the unique
// (review, user) pair; the counter only moves when a row was actually added.
func (s *ReviewService) Like(ctx context.Context, viewer *models.User, reviewID string) (*models.ReviewLikeResponse, error) {
	review, err := s.resolveReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.ActorUserID == viewer.ID {
		return nil, apperrors.ErrReviewForbidden
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		likes := repositories.NewReviewLikeRepository(tx)
		activities := repositories.NewActivityRepository(tx)

		inserted, err := likes.Create(ctx, review.ID, viewer.ID)
		if err != nil {
			return err
		}
		if !inserted {
			return nil
		}
		if err := activities.BumpLikesCount(ctx, review.ID, 1); err != nil {
			return err
		}
		return syncLikeNotification(ctx, tx, review.ActorUserID, review.ID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	fresh, err := s.activities.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	return &models.ReviewLikeResponse{LikesCount: fresh.LikesCount, ViewerHasLiked: true}, nil
}

// Unlike removes the viewer's like if present. A redundant unlike is a no-op.
func (s *ReviewService) Unlike(ctx context.Context, viewer *models.User, reviewID string) (*models.ReviewLikeResponse, error) {
	review, err := s.resolveReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		likes := repositories.NewReviewLikeRepository(tx)
		activities := repositories.NewActivityRepository(tx)

		removed, err := likes.Delete(ctx, review.ID, viewer.ID)
		if err != nil {
			return err
		}
		if !removed {
			return nil
		}
		if err := activities.BumpLikesCount(ctx, review.ID, -1); err != nil {
			return err
		}
		return syncLikeNotification(ctx, tx, review.ActorUserID, review.ID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	fresh, err := s.activities.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	return &models.ReviewLikeResponse{LikesCount: fresh.LikesCount, ViewerHasLiked: false}, nil
}

// Repost creates the viewer's REVIEW_REPOSTED event for the review. Repeating
// it is idempotent: at most one repost per (user, review) ever exists.
func (s *ReviewService) Repost(ctx context.Context, viewer *models.User, reviewID string) (*models.ReviewRepostResponse, error) {
	review, err := s.resolveReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.ActorUserID == viewer.ID {
		return nil, apperrors.ErrReviewForbidden
	}
	existing, err := s.activities.GetRepost(ctx, viewer.ID, review.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		sourceID := review.ID
		err = s.db.Transaction(func(tx *gorm.DB) error {
			activities := repositories.NewActivityRepository(tx)
			event := &models.ActivityEvent{
				ID:             uuid.New().String(),
				ActorUserID:    viewer.ID,
				Type:           models.ActivityReviewReposted,
				SourceReviewID: &sourceID,
				CreatedAt:      time.Now().UTC(),
			}
			if err := activities.Create(ctx, event); err != nil {
				return err
			}
			return activities.BumpRepostsCount(ctx, review.ID, 1)
		})
		if err != nil {
			return nil, err
		}
	}
	fresh, err := s.activities.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	return &models.ReviewRepostResponse{RepostsCount: fresh.RepostsCount, ViewerHasReposted: true}, nil
}

// Unrepost removes the viewer's repost if present.
func (s *ReviewService) Unrepost(ctx context.Context, viewer *models.User, reviewID string) (*models.ReviewRepostResponse, error) {
	review, err := s.resolveReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	existing, err := s.activities.GetRepost(ctx, viewer.ID, review.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		err = s.db.Transaction(func(tx *gorm.DB) error {
			activities := repositories.NewActivityRepository(tx)
			if err := activities.DeleteByID(ctx, existing.ID); err != nil {
				return err
			}
			return activities.BumpRepostsCount(ctx, review.ID, -1)
		})
		if err != nil {
			return nil, err
		}
	}
	fresh, err := s.activities.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	return &models.ReviewRepostResponse{RepostsCount: fresh.RepostsCount, ViewerHasReposted: false}, nil
}
