package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/videotube/internal/config"
	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/media"
	"github.com/dom/videotube/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MediaStore is the remote media host as seen by the services.
type MediaStore interface {
	// Upload transfers a local temporary file and removes it afterwards.
	Upload(ctx context.Context, localPath string) (*media.Asset, error)
	// Delete is best effort.
	Delete(ctx context.Context, ref string)
}

// ActivityNotifier pushes channel activity to subscribers. Delivery is best
// effort and never fails the operation that produced the event.
type ActivityNotifier interface {
	Notify(ctx context.Context, event *domain.ActivityEvent)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, *domain.ActivityEvent) {}

type Services struct {
	Auth         *AuthService
	User         *UserService
	Video        *VideoService
	Comment      *CommentService
	Tweet        *TweetService
	Playlist     *PlaylistService
	Like         *LikeService
	Subscription *SubscriptionService
	Dashboard    *DashboardService
}

func NewServices(repos *repository.Repositories, store MediaStore, notifier ActivityNotifier, cfg *config.Config) *Services {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Services{
		Auth:         NewAuthService(repos.User, store, cfg),
		User:         NewUserService(repos.User, repos.Video, repos.Subscription, store),
		Video:        NewVideoService(repos.Video, repos.User, store, notifier),
		Comment:      NewCommentService(repos.Comment, repos.Video, repos.User),
		Tweet:        NewTweetService(repos.Tweet, repos.User, notifier),
		Playlist:     NewPlaylistService(repos.Playlist, repos.Video, repos.User),
		Like:         NewLikeService(repos.Like, repos.Video, repos.Comment, repos.Tweet),
		Subscription: NewSubscriptionService(repos.Subscription, repos.User),
		Dashboard:    NewDashboardService(repos.Video, repos.Like, repos.Subscription),
	}
}

// storeErr turns a repository error into a domain error. A missing row
// becomes notFound and a unique violation becomes a conflict.
func storeErr(err error, op string, notFound error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.NewError(domain.ErrConflict, "resource already exists")
	}
	var derr *domain.Error
	if errors.As(err, &derr) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func uploadAsset(ctx context.Context, store MediaStore, localPath, what string) (*media.Asset, error) {
	asset, err := store.Upload(ctx, localPath)
	if err != nil {
		logrus.WithError(err).WithField("asset", what).Error("media upload failed")
		return nil, domain.NewError(domain.ErrUploadFailed, "error while uploading "+what)
	}
	return asset, nil
}

func collectOwners(ctx context.Context, users repository.UserRepository, ids []string) (map[string]*domain.User, error) {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	owners, err := users.GetByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("load owners: %w", err)
	}
	return owners, nil
}

func ownerSummary(owners map[string]*domain.User, id string, p domain.Projection) *domain.OwnerSummary {
	if u, ok := owners[id]; ok {
		return u.Summary(p)
	}
	return nil
}
