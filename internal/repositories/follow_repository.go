package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/stacta-app/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow relationship operations
type FollowRepository interface {
	Create(ctx context.Context, follow *models.FollowRelationship) error
	Save(ctx context.Context, follow *models.FollowRelationship) error
	Delete(ctx context.Context, follow *models.FollowRelationship) error
	GetByID(ctx context.Context, id string) (*models.FollowRelationship, error)
	GetPair(ctx context.Context, followerID, followingID string) (*models.FollowRelationship, error)
	ExistsAccepted(ctx context.Context, followerID, followingID string) (bool, error)
	ListPendingRequests(ctx context.Context, recipientID string, cursorRequestedAt *time.Time, cursorID string, limit int) ([]models.PendingFollowRequestItem, error)
}

type gormFollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &gormFollowRepository{db: db}
}

func (r *gormFollowRepository) Create(ctx context.Context, follow *models.FollowRelationship) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

func (r *gormFollowRepository) Save(ctx context.Context, follow *models.FollowRelationship) error {
	return r.db.WithContext(ctx).Save(follow).Error
}

func (r *gormFollowRepository) Delete(ctx context.Context, follow *models.FollowRelationship) error {
	return r.db.WithContext(ctx).Delete(follow).Error
}

func (r *gormFollowRepository) GetByID(ctx context.Context, id string) (*models.FollowRelationship, error) {
	var follow models.FollowRelationship
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&follow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func (r *gormFollowRepository) GetPair(ctx context.Context, followerID, followingID string) (*models.FollowRelationship, error) {
	var follow models.FollowRelationship
	err := r.db.WithContext(ctx).
		Where("follower_user_id = ? AND following_user_id = ?", followerID, followingID).
		First(&follow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func (r *gormFollowRepository) ExistsAccepted(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FollowRelationship{}).
		Where("follower_user_id = ? AND following_user_id = ? AND status = ?",
			followerID, followingID, models.FollowStatusAccepted).
		Count(&count).Error
	return count > 0, err
}

func (r *gormFollowRepository) ListPendingRequests(ctx context.Context, recipientID string, cursorRequestedAt *time.Time, cursorID string, limit int) ([]models.PendingFollowRequestItem, error) {
	query := `
SELECT
  f.id AS id,
  u.username AS username,
  u.display_name AS display_name,
  u.avatar_url AS avatar_url,
  f.created_at AS requested_at
FROM user_follows f
JOIN users u ON u.id = f.follower_user_id
WHERE f.following_user_id = ?
  AND f.status = 'PENDING'`
	args := []interface{}{recipientID}

	if cursorRequestedAt != nil {
		query += `
  AND (f.created_at < ? OR (f.created_at = ? AND f.id < ?))`
		args = append(args, *cursorRequestedAt, *cursorRequestedAt, cursorID)
	}
	query += `
ORDER BY f.created_at DESC, f.id DESC
LIMIT ?`
	args = append(args, limit)

	var items []models.PendingFollowRequestItem
	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&items).Error
	return items, err
}
