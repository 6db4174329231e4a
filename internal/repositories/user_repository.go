package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/stacta-app/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByAuthSub(ctx context.Context, sub string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	BumpFollowersCount(ctx context.Context, userID string, delta int) error
	BumpFollowingCount(ctx context.Context, userID string, delta int) error
	SetNotificationsSeenAt(ctx context.Context, userID string, seenAt time.Time) error
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *gormUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) GetByAuthSub(ctx context.Context, sub string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("auth_sub = ?", sub).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) BumpFollowersCount(ctx context.Context, userID string, delta int) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("followers_count", gorm.Expr(
			"CASE WHEN followers_count + ? < 0 THEN 0 ELSE followers_count + ? END", delta, delta)).Error
}

func (r *gormUserRepository) BumpFollowingCount(ctx context.Context, userID string, delta int) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("following_count", gorm.Expr(
			"CASE WHEN following_count + ? < 0 THEN 0 ELSE following_count + ? END", delta, delta)).Error
}

func (r *gormUserRepository) SetNotificationsSeenAt(ctx context.Context, userID string, seenAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("notifications_seen_at", seenAt).Error
}
