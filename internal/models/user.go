package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is the minimal profile surface the feed engine needs. Accounts and
// authentication live upstream; AuthSub links a row to the token subject.
type User struct {
	ID                  string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AuthSub             string    `json:"-" gorm:"uniqueIndex"`
	Username            string    `json:"username" gorm:"uniqueIndex;size:20"`
	DisplayName         string    `json:"display_name"`
	AvatarURL           string    `json:"avatar_url,omitempty"`
	IsPrivate           bool      `json:"is_private" gorm:"default:false"`
	FollowersCount      int64     `json:"followers_count" gorm:"default:0"`
	FollowingCount      int64     `json:"following_count" gorm:"default:0"`
	NotificationsSeenAt time.Time `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"-"`
}

// UserCompact is the author shape embedded in feed and notification items
type UserCompact struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}
