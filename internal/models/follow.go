package models

import "time"

// Follow relationship states
const (
	FollowStatusPending  = "PENDING"
	FollowStatusAccepted = "ACCEPTED"
)

// FollowRelationship is a directed follow edge. Following a private account
// creates a PENDING row; only ACCEPTED edges grant feed visibility.
type FollowRelationship struct {
	ID              string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FollowerUserID  string     `json:"follower_user_id" gorm:"type:varchar(36);index;uniqueIndex:idx_follow_pair;not null"`
	FollowingUserID string     `json:"following_user_id" gorm:"type:varchar(36);index;uniqueIndex:idx_follow_pair;not null"`
	Status          string     `json:"status" gorm:"size:20;index;not null"`
	CreatedAt       time.Time  `json:"created_at"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
}

func (FollowRelationship) TableName() string { return "user_follows" }

// FollowActionResponse reports the resulting relationship state
type FollowActionResponse struct {
	Status string `json:"status"`
}

// PendingFollowRequestItem is one row of the incoming-request list
type PendingFollowRequestItem struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// PendingFollowRequestsResponse is a cursor page of incoming requests
type PendingFollowRequestsResponse struct {
	Items      []PendingFollowRequestItem `json:"items"`
	NextCursor *string                    `json:"next_cursor"`
}
