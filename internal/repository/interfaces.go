package repository

import (
	"context"

	"github.com/dom/videotube/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*domain.User, error)
	SetRefreshToken(ctx context.Context, id, token string) error
	// RotateRefreshToken replaces the stored token only when it still equals
	// current. It reports whether the swap happened.
	RotateRefreshToken(ctx context.Context, id, current, next string) (bool, error)
	PushWatchHistory(ctx context.Context, id, videoID string) error
}

type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) error
	GetByID(ctx context.Context, id string) (*domain.Video, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Video, error)
	Update(ctx context.Context, video *domain.Video) error
	// Delete removes the video together with its reactions, its comments
	// (and their reactions) and every playlist or watch history reference.
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	Search(ctx context.Context, filter VideoFilter, page domain.PageQuery) ([]*domain.Video, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*domain.Video, error)
	ChannelTotals(ctx context.Context, ownerID string) (videos int64, views int64, err error)
}

// VideoFilter narrows a video search.
type VideoFilter struct {
	Query   string
	OwnerID string
	// ViewerID sees their own unpublished videos.
	ViewerID string
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	// Delete removes the comment and the reactions on it.
	Delete(ctx context.Context, id string) error
	ListByVideo(ctx context.Context, videoID string, page domain.PageQuery) ([]*domain.Comment, error)
}

type TweetRepository interface {
	Create(ctx context.Context, tweet *domain.Tweet) error
	GetByID(ctx context.Context, id string) (*domain.Tweet, error)
	Update(ctx context.Context, tweet *domain.Tweet) error
	// Delete removes the tweet and the reactions on it.
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Tweet, error)
}

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *domain.Playlist) error
	GetByID(ctx context.Context, id string) (*domain.Playlist, error)
	Update(ctx context.Context, playlist *domain.Playlist) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Playlist, error)
	// ModifyVideos loads the playlist under a row lock, applies fn to it and
	// saves the result. Nothing is written when fn fails.
	ModifyVideos(ctx context.Context, id string, fn func(*domain.Playlist) error) (*domain.Playlist, error)
}

type SubscriptionRepository interface {
	// Toggle deletes the (subscriber, channel) edge when present and creates
	// it otherwise.
	Toggle(ctx context.Context, subscriberID, channelID string) (domain.SubscriptionState, error)
	Exists(ctx context.Context, subscriberID, channelID string) (bool, error)
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error)
	ListSubscriberIDs(ctx context.Context, channelID string) ([]string, error)
	ListChannelIDs(ctx context.Context, subscriberID string) ([]string, error)
}

type LikeRepository interface {
	// Toggle applies one step of the reaction state machine for the
	// (actor, subject) pair inside a transaction.
	Toggle(ctx context.Context, actorID string, subjectType domain.SubjectType, subjectID string, action domain.Reaction) (domain.ReactionTransition, error)
	ListVideoIDsByActor(ctx context.Context, actorID string, reaction domain.Reaction) ([]string, error)
	CountOnVideosOwnedBy(ctx context.Context, ownerID string, reaction domain.Reaction) (int64, error)
}

type Repositories struct {
	User         UserRepository
	Video        VideoRepository
	Comment      CommentRepository
	Tweet        TweetRepository
	Playlist     PlaylistRepository
	Subscription SubscriptionRepository
	Like         LikeRepository
}
