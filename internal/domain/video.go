package domain

import "time"

type Video struct {
	ID          string    `json:"id" gorm:"type:char(24);primaryKey"`
	OwnerID     string    `json:"ownerId" gorm:"type:char(24);not null;index"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	VideoFile   string    `json:"videoFile" gorm:"not null"`
	Thumbnail   string    `json:"thumbnail" gorm:"not null"`
	Duration    float64   `json:"duration" gorm:"not null;default:0"`
	Views       int64     `json:"views" gorm:"not null;default:0"`
	IsPublished bool      `json:"isPublished" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// VisibleTo reports whether the video may be shown to the given user.
func (v *Video) VisibleTo(userID string) bool {
	return v.IsPublished || v.OwnerID == userID
}

// VideoView is a video with its owner joined in.
type VideoView struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	VideoFile   string        `json:"videoFile"`
	Thumbnail   string        `json:"thumbnail"`
	Duration    float64       `json:"duration"`
	Views       int64         `json:"views"`
	IsPublished bool          `json:"isPublished"`
	CreatedAt   time.Time     `json:"createdAt"`
	Owner       *OwnerSummary `json:"owner"`
}

// NewVideoView joins owner into v. A nil owner is kept as nil.
func NewVideoView(v *Video, owner *OwnerSummary) *VideoView {
	return &VideoView{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
		Owner:       owner,
	}
}

// VideoSummary is the projection of a video embedded in a playlist.
type VideoSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LikedVideo is the projection used when listing a user's liked videos.
type LikedVideo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ChannelStats aggregates a channel's totals for the dashboard.
type ChannelStats struct {
	TotalViews       int64 `json:"totalViews"`
	TotalVideos      int64 `json:"totalVideos"`
	TotalLikes       int64 `json:"totalLikes"`
	TotalSubscribers int64 `json:"totalSubscribers"`
}
