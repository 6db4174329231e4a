package models

import "time"

// Notification event types
const (
	NotificationFollowedYou          = "FOLLOWED_YOU"
	NotificationFollowedYouBack      = "FOLLOWED_YOU_BACK"
	NotificationReviewLiked          = "REVIEW_LIKED"
	NotificationReviewCommented      = "REVIEW_COMMENTED"
	NotificationReviewCommentReplied = "REVIEW_COMMENT_REPLIED"
	NotificationModerationStrike     = "MODERATION_STRIKE"
)

// NotificationEvent is one row per notification. REVIEW_LIKED rows aggregate:
// at most one live row exists per (recipient, source review), ActorUserID holds
// the most recent liker and AggregateCount the distinct-liker total. All other
// types insert one row per event. Rows are soft-deleted via DeletedAt and
// hard-purged by the retention sweep.
type NotificationEvent struct {
	ID              string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RecipientUserID string     `json:"recipient_user_id" gorm:"type:varchar(36);index;not null"`
	ActorUserID     string     `json:"actor_user_id" gorm:"type:varchar(36);not null"`
	Type            string     `json:"type" gorm:"size:30;index;not null"`
	SourceFollowID  *string    `json:"-" gorm:"type:varchar(36)"`
	SourceReviewID  *string    `json:"source_review_id,omitempty" gorm:"type:varchar(36);index"`
	SourceCommentID *string    `json:"source_comment_id,omitempty" gorm:"type:varchar(36)"`
	AggregateCount  int        `json:"aggregate_count" gorm:"not null;default:1"`
	CreatedAt       time.Time  `json:"created_at" gorm:"index;not null"`
	DeletedAt       *time.Time `json:"-" gorm:"index"`
}

func (NotificationEvent) TableName() string { return "notification_events" }

// NotificationItem is a notification enriched with its actor and, when the
// notification points at a review, that review's fragrance context.
type NotificationItem struct {
	ID                  string    `json:"id"`
	Type                string    `json:"type"`
	ActorUsername       string    `json:"actor_username"`
	ActorDisplayName    string    `json:"actor_display_name"`
	ActorAvatarURL      string    `json:"actor_avatar_url,omitempty"`
	SourceReviewID      *string   `json:"source_review_id,omitempty"`
	SourceCommentID     *string   `json:"source_comment_id,omitempty"`
	AggregateCount      int       `json:"aggregate_count"`
	ReviewFragranceName string    `json:"review_fragrance_name,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// NotificationsResponse is a cursor page of notifications
type NotificationsResponse struct {
	Items      []NotificationItem `json:"items"`
	NextCursor *string            `json:"next_cursor"`
}

// UnreadNotificationsResponse carries the watermark-derived unread count
type UnreadNotificationsResponse struct {
	UnreadCount int64 `json:"unread_count"`
}
