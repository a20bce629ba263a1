package domain

import "time"

// ActivityKind names something a channel did that its subscribers hear about.
type ActivityKind string

const (
	ActivityVideoPublished ActivityKind = "video_published"
	ActivityTweetPosted    ActivityKind = "tweet_posted"
)

// ActivityEvent is pushed to the live feed of a channel's subscribers.
type ActivityEvent struct {
	Kind      ActivityKind `json:"kind"`
	ChannelID string       `json:"channelId"`
	SubjectID string       `json:"subjectId"`
	Title     string       `json:"title,omitempty"`
	Thumbnail string       `json:"thumbnail,omitempty"`
	Content   string       `json:"content,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

func VideoPublishedEvent(v *Video) *ActivityEvent {
	return &ActivityEvent{
		Kind:      ActivityVideoPublished,
		ChannelID: v.OwnerID,
		SubjectID: v.ID,
		Title:     v.Title,
		Thumbnail: v.Thumbnail,
		CreatedAt: v.CreatedAt,
	}
}

func TweetPostedEvent(t *Tweet) *ActivityEvent {
	return &ActivityEvent{
		Kind:      ActivityTweetPosted,
		ChannelID: t.OwnerID,
		SubjectID: t.ID,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
	}
}
