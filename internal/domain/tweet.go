package domain

import "time"

type Tweet struct {
	ID        string    `json:"id" gorm:"type:char(24);primaryKey"`
	OwnerID   string    `json:"ownerId" gorm:"type:char(24);not null;index"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
