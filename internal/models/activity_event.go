package models

import "time"

// Activity event types
const (
	ActivityReviewPosted        = "REVIEW_POSTED"
	ActivityReviewReposted      = "REVIEW_REPOSTED"
	ActivityCollectionItemAdded = "COLLECTION_ITEM_ADDED"
	ActivityWishlistItemAdded   = "WISHLIST_ITEM_ADDED"
	ActivityUserFollowedUser    = "USER_FOLLOWED_USER"
)

// ActivityEvent is one row per user action. Review-typed rows carry the review
// payload and the denormalized engagement counters; REVIEW_REPOSTED rows carry
// only SourceReviewID and read their content through it.
type ActivityEvent struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ActorUserID  string `json:"actor_user_id" gorm:"type:varchar(36);index;uniqueIndex:idx_activity_repost_pair;not null"`
	TargetUserID string `json:"target_user_id,omitempty" gorm:"type:varchar(36)"`
	Type         string `json:"type" gorm:"size:30;index;not null"`

	FragranceName       string `json:"fragrance_name,omitempty"`
	FragranceSource     string `json:"fragrance_source,omitempty" gorm:"size:20"`
	FragranceExternalID string `json:"fragrance_external_id,omitempty"`
	FragranceImageURL   string `json:"fragrance_image_url,omitempty"`
	CollectionTag       string `json:"collection_tag,omitempty" gorm:"size:30"`

	ReviewRating      *int   `json:"review_rating,omitempty"`
	ReviewExcerpt     string `json:"review_excerpt,omitempty" gorm:"type:text"`
	ReviewPerformance string `json:"review_performance,omitempty" gorm:"type:text"` // JSON label->score map
	ReviewSeason      string `json:"review_season,omitempty" gorm:"type:text"`
	ReviewOccasion    string `json:"review_occasion,omitempty" gorm:"type:text"`

	// Owned by the counter bump operations, never written directly.
	LikesCount    int `json:"likes_count" gorm:"not null;default:0"`
	CommentsCount int `json:"comments_count" gorm:"not null;default:0"`
	RepostsCount  int `json:"reposts_count" gorm:"not null;default:0"`

	SourceFollowID string `json:"-" gorm:"type:varchar(36);index"`
	// Nullable so the (actor, source review) pair is unique only for reposts.
	SourceReviewID *string `json:"source_review_id,omitempty" gorm:"type:varchar(36);index;uniqueIndex:idx_activity_repost_pair"`

	CreatedAt time.Time `json:"created_at" gorm:"index;not null"`
}

func (ActivityEvent) TableName() string { return "activity_events" }

// CreateReviewRequest defines the request body for submitting a review
type CreateReviewRequest struct {
	Source            string         `json:"source" validate:"required"`
	ExternalID        string         `json:"external_id" validate:"required"`
	FragranceName     string         `json:"fragrance_name" validate:"required"`
	FragranceImageURL string         `json:"fragrance_image_url,omitempty" validate:"omitempty,url"`
	Rating            int            `json:"rating" validate:"required,min=1,max=5"`
	Excerpt           string         `json:"excerpt" validate:"required,min=1,max=1200"`
	Performance       map[string]int `json:"performance,omitempty"`
	Season            map[string]int `json:"season,omitempty"`
	Occasion          map[string]int `json:"occasion,omitempty"`
}

// RecordActivityRequest defines the request body for collection/wishlist events
type RecordActivityRequest struct {
	Source            string `json:"source" validate:"required"`
	ExternalID        string `json:"external_id" validate:"required"`
	FragranceName     string `json:"fragrance_name" validate:"required"`
	FragranceImageURL string `json:"fragrance_image_url,omitempty" validate:"omitempty,url"`
	CollectionTag     string `json:"collection_tag,omitempty" validate:"omitempty,max=30"`
}

// ReviewLikeResponse reports the canonical counter after a like/unlike
type ReviewLikeResponse struct {
	LikesCount     int  `json:"likes_count"`
	ViewerHasLiked bool `json:"viewer_has_liked"`
}

// ReviewRepostResponse reports the canonical counter after a repost/unrepost
type ReviewRepostResponse struct {
	RepostsCount      int  `json:"reposts_count"`
	ViewerHasReposted bool `json:"viewer_has_reposted"`
}
