package services

import (
	"context"
	"strings"

	"github.com/stacta-app/backend/internal/apperrors"
	"github.com/stacta-app/backend/internal/models"
	"github.com/stacta-app/backend/internal/repositories"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

var validFeedFilters = map[string]bool{
	models.ActivityReviewPosted:        true,
	models.ActivityReviewReposted:      true,
	models.ActivityCollectionItemAdded: true,
	models.ActivityWishlistItemAdded:   true,
	models.ActivityUserFollowedUser:    true,
}

// FeedService builds the viewer-scoped, paginated feed views
type FeedService struct {
	activities repositories.ActivityRepository
	users      repositories.UserRepository
	follows    repositories.FollowRepository
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{
		activities: repositories.NewActivityRepository(db),
		users:      repositories.NewUserRepository(db),
		follows:    repositories.NewFollowRepository(db),
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func feedRowToItem(row models.FeedRow) models.FeedItem {
	return models.FeedItem{
		ID:   row.ID,
		Type: row.Type,
		Actor: models.UserCompact{
			Username:    row.ActorUsername,
			DisplayName: row.ActorDisplayName,
			AvatarURL:   row.ActorAvatarURL,
		},
		TargetUsername:      row.TargetUsername,
		TargetDisplayName:   row.TargetDisplayName,
		ContentReviewID:     row.ContentReviewID,
		FragranceName:       row.FragranceName,
		FragranceSource:     row.FragranceSource,
		FragranceExternalID: row.FragranceExternalID,
		FragranceImageURL:   row.FragranceImageURL,
		CollectionTag:       row.CollectionTag,
		ReviewRating:        row.ReviewRating,
		ReviewExcerpt:       row.ReviewExcerpt,
		ReviewPerformance:   row.ReviewPerformance,
		ReviewSeason:        row.ReviewSeason,
		ReviewOccasion:      row.ReviewOccasion,
		LikesCount:          row.LikesCount,
		CommentsCount:       row.CommentsCount,
		RepostsCount:        row.RepostsCount,
		ViewerHasLiked:      row.ViewerHasLiked,
		ViewerHasReposted:   row.ViewerHasReposted,
		CreatedAt:           row.CreatedAt,
	}
}

// GetFeed returns one page of the viewer's feed. Both tabs fetch limit+1 rows
// as a has-more probe; the next cursor is minted from the last returned row.
func (s *FeedService) GetFeed(ctx context.Context, viewer *models.User, tab, filter, cursorToken string, limit int) (*models.FeedResponse, error) {
	tab = strings.ToUpper(strings.TrimSpace(tab))
	if tab == "" {
		tab = models.FeedTabFollowing
	}
	if tab != models.FeedTabFollowing && tab != models.FeedTabPopular {
		return nil, apperrors.ErrInvalidTab
	}
	filter = strings.ToUpper(strings.TrimSpace(filter))
	if filter != "" && !validFeedFilters[filter] {
		return nil, apperrors.ErrInvalidFilter
	}
	limit = clampLimit(limit)
	scope := feedCursorScope(tab, filter)

	if tab == models.FeedTabPopular {
		return s.popularPage(ctx, viewer, filter, scope, cursorToken, limit)
	}
	return s.followingPage(ctx, viewer, filter, scope, cursorToken, limit)
}

func (s *FeedService) followingPage(ctx context.Context, viewer *models.User, filter, scope, cursorToken string, limit int) (*models.FeedResponse, error) {
	cursor, err := DecodeTimeCursor(scope, cursorToken)
	if err != nil {
		return nil, err
	}
	var rows []models.FeedRow
	if cursor != nil {
		rows, err = s.activities.ListFollowingFeed(ctx, viewer.ID, filter, &cursor.CreatedAt, cursor.ID, limit+1)
	} else {
		rows, err = s.activities.ListFollowingFeed(ctx, viewer.ID, filter, nil, "", limit+1)
	}
	if err != nil {
		return nil, err
	}
	return timePage(scope, rows, limit), nil
}

func (s *FeedService) popularPage(ctx context.Context, viewer *models.User, filter, scope, cursorToken string, limit int) (*models.FeedResponse, error) {
	cursor, err := DecodeScoreCursor(scope, cursorToken)
	if err != nil {
		return nil, err
	}
	var rows []models.FeedRow
	if cursor != nil {
		rows, err = s.activities.ListPopularFeed(ctx, viewer.ID, filter, &cursor.Score, &cursor.CreatedAt, cursor.ID, limit+1)
	} else {
		rows, err = s.activities.ListPopularFeed(ctx, viewer.ID, filter, nil, nil, "", limit+1)
	}
	if err != nil {
		return nil, err
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	items := make([]models.FeedItem, len(rows))
	for i, row := range rows {
		items[i] = feedRowToItem(row)
	}
	resp := &models.FeedResponse{Items: items}
	if hasMore {
		last := rows[len(rows)-1]
		token := EncodeScoreCursor(scope, last.Score, last.CreatedAt, last.ID)
		resp.NextCursor = &token
	}
	return resp, nil
}

// timePage applies the has-more probe to a time-ordered row set.
func timePage(scope string, rows []models.FeedRow, limit int) *models.FeedResponse {
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	items := make([]models.FeedItem, len(rows))
	for i, row := range rows {
		items[i] = feedRowToItem(row)
	}
	resp := &models.FeedResponse{Items: items}
	if hasMore {
		last := rows[len(rows)-1]
		token := EncodeTimeCursor(scope, last.CreatedAt, last.ID)
		resp.NextCursor = &token
	}
	return resp
}

// GetMyReviews lists the viewer's own reviews, newest first.
func (s *FeedService) GetMyReviews(ctx context.Context, viewer *models.User, cursorToken string, limit int) (*models.FeedResponse, error) {
	return s.userReviewsPage(ctx, viewer.ID, viewer.ID, cursorToken, clampLimit(limit))
}

// GetUserReviews lists another user's reviews. A private profile with no
// accepted follow edge from the viewer yields an empty terminal page rather
// than an error, so clients cannot probe for private content.
func (s *FeedService) GetUserReviews(ctx context.Context, viewer *models.User, targetUsername, cursorToken string, limit int) (*models.FeedResponse, error) {
	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.ErrUserNotFound
	}
	if target.ID != viewer.ID && target.IsPrivate {
		following, err := s.follows.ExistsAccepted(ctx, viewer.ID, target.ID)
		if err != nil {
			return nil, err
		}
		if !following {
			return &models.FeedResponse{Items: []models.FeedItem{}}, nil
		}
	}
	return s.userReviewsPage(ctx, target.ID, viewer.ID, cursorToken, clampLimit(limit))
}

func (s *FeedService) userReviewsPage(ctx context.Context, actorID, viewerID, cursorToken string, limit int) (*models.FeedResponse, error) {
	cursor, err := DecodeTimeCursor(cursorScopeReviews, cursorToken)
	if err != nil {
		return nil, err
	}
	var rows []models.FeedRow
	if cursor != nil {
		rows, err = s.activities.ListUserReviews(ctx, actorID, viewerID, &cursor.CreatedAt, cursor.ID, limit+1)
	} else {
		rows, err = s.activities.ListUserReviews(ctx, actorID, viewerID, nil, "", limit+1)
	}
	if err != nil {
		return nil, err
	}
	return timePage(cursorScopeReviews, rows, limit), nil
}
