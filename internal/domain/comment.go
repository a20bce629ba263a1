package domain

import "time"

type Comment struct {
	ID        string    `json:"id" gorm:"type:char(24);primaryKey"`
	VideoID   string    `json:"videoId" gorm:"type:char(24);not null;index"`
	OwnerID   string    `json:"ownerId" gorm:"type:char(24);not null;index"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentView is a comment with its owner joined in.
type CommentView struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	Owner     *OwnerSummary `json:"owner"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
