package websocket

import (
	"time"

	"github.com/dom/videotube/internal/domain"
	"github.com/goccy/go-json"
)

type MessageType string

const (
	// Server to Client
	MessageTypeFeedReady      MessageType = "FEED_READY"
	MessageTypeVideoPublished MessageType = "VIDEO_PUBLISHED"
	MessageTypeTweetPosted    MessageType = "TWEET_POSTED"
	MessageTypeError          MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

type FeedReadyPayload struct {
	UserID string `json:"userId"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// messageTypeFor maps an activity kind onto the frame type sent to subscribers.
func messageTypeFor(kind domain.ActivityKind) MessageType {
	switch kind {
	case domain.ActivityVideoPublished:
		return MessageTypeVideoPublished
	case domain.ActivityTweetPosted:
		return MessageTypeTweetPosted
	}
	return MessageTypeError
}
