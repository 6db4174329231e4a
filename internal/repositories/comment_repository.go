package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/stacta-app/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.ReviewComment) error
	GetByID(ctx context.Context, reviewID, commentID string) (*models.ReviewComment, error)
	ListByReviewID(ctx context.Context, reviewID, viewerID string) ([]models.CommentItem, error)
	GetItem(ctx context.Context, commentID, viewerID string) (*models.CommentItem, error)
	// SubtreeIDs returns the comment plus every transitive reply under it.
	SubtreeIDs(ctx context.Context, reviewID, commentID string) ([]string, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	DeleteByReviewID(ctx context.Context, reviewID string) error
	HasOpenReport(ctx context.Context, commentID, reporterUserID string) (bool, error)
	CreateReport(ctx context.Context, report *models.CommentReport) error
}

type gormCommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &gormCommentRepository{db: db}
}

func (r *gormCommentRepository) Create(ctx context.Context, comment *models.ReviewComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *gormCommentRepository) GetByID(ctx context.Context, reviewID, commentID string) (*models.ReviewComment, error) {
	var comment models.ReviewComment
	err := r.db.WithContext(ctx).
		Where("id = ? AND review_id = ?", commentID, reviewID).
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

const commentItemSelect = `
SELECT
  c.id AS id,
  c.review_id AS review_id,
  c.parent_comment_id AS parent_comment_id,
  c.body AS body,
  c.created_at AS created_at,
  u.username AS username,
  u.display_name AS display_name,
  u.avatar_url AS avatar_url,
  (c.author_user_id = ?) AS viewer_can_delete
FROM review_comments c
JOIN users u ON u.id = c.author_user_id`

type commentItemRow struct {
	ID              string    `gorm:"column:id"`
	ReviewID        string    `gorm:"column:review_id"`
	ParentCommentID *string   `gorm:"column:parent_comment_id"`
	Body            string    `gorm:"column:body"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	Username        string    `gorm:"column:username"`
	DisplayName     string    `gorm:"column:display_name"`
	AvatarURL       string    `gorm:"column:avatar_url"`
	ViewerCanDelete bool      `gorm:"column:viewer_can_delete"`
}

func (row commentItemRow) toItem() models.CommentItem {
	return models.CommentItem{
		ID:              row.ID,
		ReviewID:        row.ReviewID,
		ParentCommentID: row.ParentCommentID,
		Author: models.UserCompact{
			Username:    row.Username,
			DisplayName: row.DisplayName,
			AvatarURL:   row.AvatarURL,
		},
		Body:            row.Body,
		CreatedAt:       row.CreatedAt,
		ViewerCanDelete: row.ViewerCanDelete,
	}
}

func (r *gormCommentRepository) ListByReviewID(ctx context.Context, reviewID, viewerID string) ([]models.CommentItem, error) {
	var rows []commentItemRow
	err := r.db.WithContext(ctx).
		Raw(commentItemSelect+`
WHERE c.review_id = ?
ORDER BY c.created_at ASC, c.id ASC`, viewerID, reviewID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	items := make([]models.CommentItem, len(rows))
	for i, row := range rows {
		items[i] = row.toItem()
	}
	return items, nil
}

func (r *gormCommentRepository) GetItem(ctx context.Context, commentID, viewerID string) (*models.CommentItem, error) {
	var rows []commentItemRow
	err := r.db.WithContext(ctx).
		Raw(commentItemSelect+`
WHERE c.id = ?`, viewerID, commentID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	item := rows[0].toItem()
	return &item, nil
}

func (r *gormCommentRepository) SubtreeIDs(ctx context.Context, reviewID, commentID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Raw(`
WITH RECURSIVE tree AS (
  SELECT id FROM review_comments WHERE id = ? AND review_id = ?
  UNION ALL
  SELECT c.id FROM review_comments c JOIN tree t ON c.parent_comment_id = t.id
)
SELECT id FROM tree`, commentID, reviewID).Scan(&ids).Error
	return ids, err
}

func (r *gormCommentRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.ReviewComment{})
	return res.RowsAffected, res.Error
}

func (r *gormCommentRepository) DeleteByReviewID(ctx context.Context, reviewID string) error {
	return r.db.WithContext(ctx).Where("review_id = ?", reviewID).Delete(&models.ReviewComment{}).Error
}

func (r *gormCommentRepository) HasOpenReport(ctx context.Context, commentID, reporterUserID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CommentReport{}).
		Where("comment_id = ? AND reported_by_user_id = ? AND status = ?",
			commentID, reporterUserID, models.ReportStatusOpen).
		Count(&count).Error
	return count > 0, err
}

func (r *gormCommentRepository) CreateReport(ctx context.Context, report *models.CommentReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}
