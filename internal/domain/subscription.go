package domain

import "time"

// Subscription is an edge from a subscriber to a channel (both users).
type Subscription struct {
	ID           string    `json:"id" gorm:"type:char(24);primaryKey"`
	SubscriberID string    `json:"subscriberId" gorm:"type:char(24);not null;uniqueIndex:idx_subscriber_channel"`
	ChannelID    string    `json:"channelId" gorm:"type:char(24);not null;uniqueIndex:idx_subscriber_channel;index"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SubscriptionState is the outcome of a subscription toggle.
type SubscriptionState string

const (
	Subscribed   SubscriptionState = "subscribed"
	Unsubscribed SubscriptionState = "unsubscribed"
)
