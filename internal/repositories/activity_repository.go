package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/stacta-app/backend/internal/models"
	"gorm.io/gorm"
)

// ActivityRepository defines the interface for activity event operations.
// Feed listings use keyset pagination exclusively: the caller passes the
// ordering key of the last-seen row and gets the next page in O(limit).
type ActivityRepository interface {
	Create(ctx context.Context, event *models.ActivityEvent) error
	GetByID(ctx context.Context, id string) (*models.ActivityEvent, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteBySourceFollowID(ctx context.Context, followID string) error
	DeleteRepostsOf(ctx context.Context, reviewID string) (int64, error)
	GetRepost(ctx context.Context, actorUserID, reviewID string) (*models.ActivityEvent, error)

	BumpLikesCount(ctx context.Context, reviewID string, delta int) error
	BumpCommentsCount(ctx context.Context, reviewID string, delta int) error
	BumpRepostsCount(ctx context.Context, reviewID string, delta int) error

	ListFollowingFeed(ctx context.Context, viewerID, typeFilter string, cursorCreatedAt *time.Time, cursorID string, limit int) ([]models.FeedRow, error)
	ListPopularFeed(ctx context.Context, viewerID, typeFilter string, cursorScore *int, cursorCreatedAt *time.Time, cursorID string, limit int) ([]models.FeedRow, error)
	ListUserReviews(ctx context.Context, actorID, viewerID string, cursorCreatedAt *time.Time, cursorID string, limit int) ([]models.FeedRow, error)
	GetFeedItem(ctx context.Context, reviewID, viewerID string) (*models.FeedRow, error)
}

type gormActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &gormActivityRepository{db: db}
}

func (r *gormActivityRepository) Create(ctx context.Context, event *models.ActivityEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *gormActivityRepository) GetByID(ctx context.Context, id string) (*models.ActivityEvent, error) {
	var event models.ActivityEvent
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *gormActivityRepository) DeleteByID(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ActivityEvent{}).Error
}

func (r *gormActivityRepository) DeleteBySourceFollowID(ctx context.Context, followID string) error {
	return r.db.WithContext(ctx).
		Where("source_follow_id = ?", followID).
		Delete(&models.ActivityEvent{}).Error
}

// DeleteRepostsOf removes every repost pointing at the given review. Called in
// the same transaction that deletes the review so no dangling pointers remain.
func (r *gormActivityRepository) DeleteRepostsOf(ctx context.Context, reviewID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("type = ? AND source_review_id = ?", models.ActivityReviewReposted, reviewID).
		Delete(&models.ActivityEvent{})
	return res.RowsAffected, res.Error
}

func (r *gormActivityRepository) GetRepost(ctx context.Context, actorUserID, reviewID string) (*models.ActivityEvent, error) {
	var event models.ActivityEvent
	err := r.db.WithContext(ctx).
		Where("type = ? AND actor_user_id = ? AND source_review_id = ?",
			models.ActivityReviewReposted, actorUserID, reviewID).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// bumpCounter applies newValue = max(0, current + delta) in a single
// conditional UPDATE so concurrent bumps never race below zero. Only
// REVIEW_POSTED rows own counters; repost rows are read through indirection.
func (r *gormActivityRepository) bumpCounter(ctx context.Context, reviewID, column string, delta int) error {
	expr := "CASE WHEN " + column + " + ? < 0 THEN 0 ELSE " + column + " + ? END"
	return r.db.WithContext(ctx).Model(&models.ActivityEvent{}).
		Where("id = ? AND type = ?", reviewID, models.ActivityReviewPosted).
		UpdateColumn(column, gorm.Expr(expr, delta, delta)).Error
}

func (r *gormActivityRepository) BumpLikesCount(ctx context.Context, reviewID string, delta int) error {
	return r.bumpCounter(ctx, reviewID, "likes_count", delta)
}

func (r *gormActivityRepository) BumpCommentsCount(ctx context.Context, reviewID string, delta int) error {
	return r.bumpCounter(ctx, reviewID, "comments_count", delta)
}

func (r *gormActivityRepository) BumpRepostsCount(ctx context.Context, reviewID string, delta int) error {
	return r.bumpCounter(ctx, reviewID, "reposts_count", delta)
}

// feedSelect resolves repost indirection in the query itself: content columns,
// counters and viewer flags come from the source review when the row is a
// repost, while actor columns keep the reposting user for "X reposted" framing.
const feedSelect = `
SELECT
  ae.id AS id,
  ae.type AS type,
  ae.created_at AS created_at,
  actor.username AS actor_username,
  actor.display_name AS actor_display_name,
  actor.avatar_url AS actor_avatar_url,
  COALESCE(target.username, '') AS target_username,
  COALESCE(target.display_name, '') AS target_display_name,
  COALESCE(src.id, ae.id) AS content_review_id,
  COALESCE(src.fragrance_name, ae.fragrance_name) AS fragrance_name,
  COALESCE(src.fragrance_source, ae.fragrance_source) AS fragrance_source,
  COALESCE(src.fragrance_external_id, ae.fragrance_external_id) AS fragrance_external_id,
  COALESCE(src.fragrance_image_url, ae.fragrance_image_url) AS fragrance_image_url,
  ae.collection_tag AS collection_tag,
  COALESCE(src.review_rating, ae.review_rating) AS review_rating,
  COALESCE(src.review_excerpt, ae.review_excerpt) AS review_excerpt,
  COALESCE(src.review_performance, ae.review_performance) AS review_performance,
  COALESCE(src.review_season, ae.review_season) AS review_season,
  COALESCE(src.review_occasion, ae.review_occasion) AS review_occasion,
  COALESCE(src.likes_count, ae.likes_count) AS likes_count,
  COALESCE(src.comments_count, ae.comments_count) AS comments_count,
  COALESCE(src.reposts_count, ae.reposts_count) AS reposts_count,
  (rl.id IS NOT NULL) AS viewer_has_liked,
  (rr.id IS NOT NULL) AS viewer_has_reposted`

const feedJoins = `
FROM activity_events ae
JOIN users actor ON actor.id = ae.actor_user_id
LEFT JOIN users target ON target.id = ae.target_user_id
LEFT JOIN activity_events src ON src.id = ae.source_review_id
LEFT JOIN review_likes rl
  ON rl.review_id = COALESCE(ae.source_review_id, ae.id) AND rl.user_id = ?
LEFT JOIN activity_events rr
  ON rr.type = 'REVIEW_REPOSTED'
  AND rr.source_review_id = COALESCE(ae.source_review_id, ae.id)
  AND rr.actor_user_id = ?`

// Reposts whose source review is gone are dropped at read time as well, as a
// second line of defense behind the cascade delete.
const feedNotDangling = `NOT (ae.type = 'REVIEW_REPOSTED' AND src.id IS NULL)`

const popularScoreExpr = `(ae.likes_count * 1 + ae.comments_count * 2 + ae.reposts_count * 3)`

func (r *gormActivityRepository) ListFollowingFeed(ctx context.Context, viewerID, typeFilter string, cursorCreatedAt *time.Time, cursorID string, limit int) ([]models.FeedRow, error) {
	query := feedSelect + feedJoins + `
LEFT JOIN user_follows uf
  ON uf.follower_user_id = ? AND uf.following_user_id = ae.actor_user_id AND uf.status = 'ACCEPTED'
WHERE (ae.actor_user_id = ? OR uf.id IS NOT NULL)
  AND ` + feedNotDangling
	args := []interface{}{viewerID, viewerID, viewerID, viewerID}

	if typeFilter != "" {
		query += `
  AND ae.type = ?`
		args = append(args, typeFilter)
	}
	if cursorCreatedAt != nil {
		query += `
  AND (ae.created_at < ? OR (ae.created_at = ? AND ae.id < ?))`
		args = append(args, *cursorCreatedAt, *cursorCreatedAt, cursorID)
	}
	query += `
ORDER BY ae.created_at DESC, ae.id DESC
LIMIT ?`
	args = append(args, limit)

	var rows []models.FeedRow
	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error
	return rows, err
}

func (r *gormActivityRepository) ListPopularFeed(ctx context.Context, viewerID, typeFilter string, cursorScore *int, cursorCreatedAt *time.Time, cursorID string, limit int) ([]models.FeedRow, error) {
	query := feedSelect + `,
  ` + popularScoreExpr + ` AS score` + feedJoins + `
LEFT JOIN user_follows uf
  ON uf.follower_user_id = ? AND uf.following_user_id = ae.actor_user_id AND uf.status = 'ACCEPTED'
WHERE (ae.actor_user_id = ? OR uf.id IS NOT NULL)
  AND ` + feedNotDangling
	args := []interface{}{viewerID, viewerID, viewerID, viewerID}

	if typeFilter != "" {
		query += `
  AND ae.type = ?`
		args = append(args, typeFilter)
	}
	if cursorScore != nil && cursorCreatedAt != nil {
		// Score is computed at query time, so the resume predicate is the
		// three-way lexicographic comparison over (score, created_at, id).
		query += `
  AND (` + popularScoreExpr + ` < ?
    OR (` + popularScoreExpr + ` = ? AND ae.created_at < ?)
    OR (` + popularScoreExpr + ` = ? AND ae.created_at = ? AND ae.id < ?))`
		args = append(args,
			*cursorScore,
			*cursorScore, *cursorCreatedAt,
			*cursorScore, *cursorCreatedAt, cursorID)
	}
	query += `
ORDER BY score DESC, ae.created_at DESC, ae.id DESC
LIMIT ?`
	args = append(args, limit)

	var rows []models.FeedRow
	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error
	return rows, err
}

func (r *gormActivityRepository) ListUserReviews(ctx context.Context, actorID, viewerID string, cursorCreatedAt *time.Time, cursorID string, limit int) ([]models.FeedRow, error) {
	query := feedSelect + feedJoins + `
WHERE ae.actor_user_id = ?
  AND ae.type = 'REVIEW_POSTED'`
	args := []interface{}{viewerID, viewerID, actorID}

	if cursorCreatedAt != nil {
		query += `
  AND (ae.created_at < ? OR (ae.created_at = ? AND ae.id < ?))`
		args = append(args, *cursorCreatedAt, *cursorCreatedAt, cursorID)
	}
	query += `
ORDER BY ae.created_at DESC, ae.id DESC
LIMIT ?`
	args = append(args, limit)

	var rows []models.FeedRow
	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error
	return rows, err
}

func (r *gormActivityRepository) GetFeedItem(ctx context.Context, reviewID, viewerID string) (*models.FeedRow, error) {
	query := feedSelect + feedJoins + `
WHERE ae.id = ?
  AND ` + feedNotDangling

	var rows []models.FeedRow
	err := r.db.WithContext(ctx).Raw(query, viewerID, viewerID, reviewID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
