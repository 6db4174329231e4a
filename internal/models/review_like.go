package models

import "time"

// ReviewLike records one user liking one review
type ReviewLike struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ReviewID  string    `json:"review_id" gorm:"type:varchar(36);index;uniqueIndex:idx_review_like_pair;not null"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index;uniqueIndex:idx_review_like_pair;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReviewLike) TableName() string { return "review_likes" }
