package models

import "time"

// Feed tabs
const (
	FeedTabFollowing = "FOLLOWING"
	FeedTabPopular   = "POPULAR"
)

// FeedRow is the scan target for the feed queries. Repost rows are already
// resolved: content columns and counters come from the source review while
// actor columns keep the reposting user.
type FeedRow struct {
	ID                  string    `gorm:"column:id"`
	Type                string    `gorm:"column:type"`
	CreatedAt           time.Time `gorm:"column:created_at"`
	ActorUsername       string    `gorm:"column:actor_username"`
	ActorDisplayName    string    `gorm:"column:actor_display_name"`
	ActorAvatarURL      string    `gorm:"column:actor_avatar_url"`
	TargetUsername      string    `gorm:"column:target_username"`
	TargetDisplayName   string    `gorm:"column:target_display_name"`
	ContentReviewID     string    `gorm:"column:content_review_id"`
	FragranceName       string    `gorm:"column:fragrance_name"`
	FragranceSource     string    `gorm:"column:fragrance_source"`
	FragranceExternalID string    `gorm:"column:fragrance_external_id"`
	FragranceImageURL   string    `gorm:"column:fragrance_image_url"`
	CollectionTag       string    `gorm:"column:collection_tag"`
	ReviewRating        *int      `gorm:"column:review_rating"`
	ReviewExcerpt       string    `gorm:"column:review_excerpt"`
	ReviewPerformance   string    `gorm:"column:review_performance"`
	ReviewSeason        string    `gorm:"column:review_season"`
	ReviewOccasion      string    `gorm:"column:review_occasion"`
	LikesCount          int       `gorm:"column:likes_count"`
	CommentsCount       int       `gorm:"column:comments_count"`
	RepostsCount        int       `gorm:"column:reposts_count"`
	ViewerHasLiked      bool      `gorm:"column:viewer_has_liked"`
	ViewerHasReposted   bool      `gorm:"column:viewer_has_reposted"`
	Score               int       `gorm:"column:score"`
}

// FeedItem is the JSON shape of one feed entry
type FeedItem struct {
	ID                  string      `json:"id"`
	Type                string      `json:"type"`
	Actor               UserCompact `json:"actor"`
	TargetUsername      string      `json:"target_username,omitempty"`
	TargetDisplayName   string      `json:"target_display_name,omitempty"`
	ContentReviewID     string      `json:"content_review_id,omitempty"`
	FragranceName       string      `json:"fragrance_name,omitempty"`
	FragranceSource     string      `json:"fragrance_source,omitempty"`
	FragranceExternalID string      `json:"fragrance_external_id,omitempty"`
	FragranceImageURL   string      `json:"fragrance_image_url,omitempty"`
	CollectionTag       string      `json:"collection_tag,omitempty"`
	ReviewRating        *int        `json:"review_rating,omitempty"`
	ReviewExcerpt       string      `json:"review_excerpt,omitempty"`
	ReviewPerformance   string      `json:"review_performance,omitempty"`
	ReviewSeason        string      `json:"review_season,omitempty"`
	ReviewOccasion      string      `json:"review_occasion,omitempty"`
	LikesCount          int         `json:"likes_count"`
	CommentsCount       int         `json:"comments_count"`
	RepostsCount        int         `json:"reposts_count"`
	ViewerHasLiked      bool        `json:"viewer_has_liked"`
	ViewerHasReposted   bool        `json:"viewer_has_reposted"`
	CreatedAt           time.Time   `json:"created_at"`
}

// FeedResponse is a cursor page of feed items
type FeedResponse struct {
	Items      []FeedItem `json:"items"`
	NextCursor *string    `json:"next_cursor"`
}

// ReviewThreadResponse is a single review plus its full comment list
type ReviewThreadResponse struct {
	Review   FeedItem      `json:"review"`
	Comments []CommentItem `json:"comments"`
}
