package domain

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID           string                     `json:"id" gorm:"type:char(24);primaryKey"`
	Username     string                     `json:"username" gorm:"uniqueIndex;not null"`
	Email        string                     `json:"email" gorm:"uniqueIndex;not null"`
	FullName     string                     `json:"fullName" gorm:"not null;index"`
	Avatar       string                     `json:"avatar" gorm:"not null"`
	CoverImage   string                     `json:"coverImage"`
	PasswordHash string                     `json:"-" gorm:"not null"`
	RefreshToken string                     `json:"-"`
	WatchHistory datatypes.JSONSlice[string] `json:"watchHistory" gorm:"not null;default:'[]'"`
	CreatedAt    time.Time                  `json:"createdAt"`
	UpdatedAt    time.Time                  `json:"updatedAt"`
}

// Sanitized returns a copy of the user without credential material.
func (u *User) Sanitized() *User {
	c := *u
	c.PasswordHash = ""
	c.RefreshToken = ""
	return &c
}

// OwnerSummary is the projection of a user embedded into other views.
// Fields left empty are omitted so each view can choose its projection.
type OwnerSummary struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email,omitempty"`
}

// Projection selects which user fields an OwnerSummary carries.
type Projection int

const (
	// ProjectPublic carries id, username, fullName and avatar.
	ProjectPublic Projection = iota
	// ProjectContact adds the email to ProjectPublic.
	ProjectContact
	// ProjectCompact carries only username, fullName and avatar.
	ProjectCompact
)

// Summary projects the user into an OwnerSummary.
func (u *User) Summary(p Projection) *OwnerSummary {
	s := &OwnerSummary{
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar,
	}
	switch p {
	case ProjectPublic:
		s.ID = u.ID
	case ProjectContact:
		s.ID = u.ID
		s.Email = u.Email
	}
	return s
}

// ChannelProfile is the public view of a user as a channel.
type ChannelProfile struct {
	ID                string `json:"id"`
	FullName          string `json:"fullName"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	Avatar            string `json:"avatar"`
	CoverImage        string `json:"coverImage"`
	SubscriberCount   int64  `json:"subscriberCount"`
	SubscribedToCount int64  `json:"subscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}
