package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stacta-app/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewLikeRepository defines the interface for like data operations
type ReviewLikeRepository interface {
	// Create inserts the like if absent and reports whether a row was added,
	// so a double-like never bumps the counter twice.
	Create(ctx context.Context, reviewID, userID string) (bool, error)
	Delete(ctx context.Context, reviewID, userID string) (bool, error)
	CountExcluding(ctx context.Context, reviewID, excludedUserID string) (int64, error)
	LatestLikerExcluding(ctx context.Context, reviewID, excludedUserID string) (string, error)
	DeleteByReviewID(ctx context.Context, reviewID string) error
}

type gormReviewLikeRepository struct {
	db *gorm.DB
}

func NewReviewLikeRepository(db *gorm.DB) ReviewLikeRepository {
	return &gormReviewLikeRepository{db: db}
}

func (r *gormReviewLikeRepository) Create(ctx context.Context, reviewID, userID string) (bool, error) {
	like := &models.ReviewLike{
		ID:        uuid.New().String(),
		ReviewID:  reviewID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormReviewLikeRepository) Delete(ctx context.Context, reviewID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		Delete(&models.ReviewLike{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountExcluding counts live likers other than the given user. The exclusion
// keeps a recipient's own (forbidden, but defensive) like out of aggregates.
func (r *gormReviewLikeRepository) CountExcluding(ctx context.Context, reviewID, excludedUserID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReviewLike{}).
		Where("review_id = ? AND user_id <> ?", reviewID, excludedUserID).
		Count(&count).Error
	return count, err
}

func (r *gormReviewLikeRepository) LatestLikerExcluding(ctx context.Context, reviewID, excludedUserID string) (string, error) {
	var like models.ReviewLike
	err := r.db.WithContext(ctx).
		Where("review_id = ? AND user_id <> ?", reviewID, excludedUserID).
		Order("created_at DESC").
		Limit(1).
		Find(&like).Error
	if err != nil {
		return "", err
	}
	return like.UserID, nil
}

func (r *gormReviewLikeRepository) DeleteByReviewID(ctx context.Context, reviewID string) error {
	return r.db.WithContext(ctx).Where("review_id = ?", reviewID).Delete(&models.ReviewLike{}).Error
}
