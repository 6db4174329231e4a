package models

import "time"

// Comment report reasons
const (
	ReportReasonSpam          = "SPAM"
	ReportReasonInappropriate = "INAPPROPRIATE"
	ReportReasonHarassment    = "HARASSMENT"
	ReportReasonOther         = "OTHER"

	ReportStatusOpen = "OPEN"
)

// ReviewComment is a comment on a review. Replies are limited to one level:
// ParentCommentID, when set, always points at a top-level comment.
type ReviewComment struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ReviewID        string    `json:"review_id" gorm:"type:varchar(36);index;not null"`
	ParentCommentID *string   `json:"parent_comment_id,omitempty" gorm:"type:varchar(36);index"`
	AuthorUserID    string    `json:"author_user_id" gorm:"type:varchar(36);index;not null"`
	Body            string    `json:"body" gorm:"type:text;not null"`
	CreatedAt       time.Time `json:"created_at" gorm:"index;not null"`
}

func (ReviewComment) TableName() string { return "review_comments" }

// CommentReport records a user flagging a comment for moderation
type CommentReport struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CommentID        string    `json:"comment_id" gorm:"type:varchar(36);index;not null"`
	ReportedByUserID string    `json:"reported_by_user_id" gorm:"type:varchar(36);index;not null"`
	Reason           string    `json:"reason" gorm:"size:20;not null"`
	Details          string    `json:"details,omitempty"`
	Status           string    `json:"status" gorm:"size:20;not null;default:OPEN"`
	CreatedAt        time.Time `json:"created_at"`
}

func (CommentReport) TableName() string { return "comment_reports" }

// CreateCommentRequest defines the request body for commenting on a review
type CreateCommentRequest struct {
	Body            string  `json:"body" validate:"required,min=1,max=1200"`
	ParentCommentID *string `json:"parent_comment_id,omitempty"`
}

// ReportCommentRequest defines the request body for reporting a comment
type ReportCommentRequest struct {
	Reason  string `json:"reason" validate:"required"`
	Details string `json:"details,omitempty" validate:"omitempty,max=1000"`
}

// CommentItem is a comment enriched with its author for thread rendering
type CommentItem struct {
	ID              string      `json:"id"`
	ReviewID        string      `json:"review_id"`
	ParentCommentID *string     `json:"parent_comment_id,omitempty"`
	Author          UserCompact `json:"author"`
	Body            string      `json:"body"`
	CreatedAt       time.Time   `json:"created_at"`
	ViewerCanDelete bool        `json:"viewer_can_delete"`
}
