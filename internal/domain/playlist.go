package domain

import (
	"slices"
	"time"

	"gorm.io/datatypes"
)

type Playlist struct {
	ID          string                     `json:"id" gorm:"type:char(24);primaryKey"`
	OwnerID     string                     `json:"ownerId" gorm:"type:char(24);not null;index"`
	Name        string                     `json:"name" gorm:"not null"`
	Description string                     `json:"description" gorm:"not null"`
	Videos      datatypes.JSONSlice[string] `json:"videos" gorm:"not null;default:'[]'"`
	CreatedAt   time.Time                  `json:"createdAt"`
	UpdatedAt   time.Time                  `json:"updatedAt"`
}

// AddVideo appends videoID. A video already present is rejected and the
// sequence is left untouched.
func (p *Playlist) AddVideo(videoID string) error {
	if slices.Contains(p.Videos, videoID) {
		return ErrVideoInPlaylist
	}
	p.Videos = append(p.Videos, videoID)
	return nil
}

// RemoveVideo drops videoID while keeping the order of the remaining videos.
func (p *Playlist) RemoveVideo(videoID string) error {
	i := slices.Index(p.Videos, videoID)
	if i < 0 {
		return ErrVideoNotInList
	}
	p.Videos = slices.Delete(slices.Clone(p.Videos), i, i+1)
	return nil
}

// PlaylistDetail is a playlist with its videos and owner joined in.
type PlaylistDetail struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Videos      []*VideoSummary `json:"videos"`
	Owner       *OwnerSummary   `json:"owner"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
