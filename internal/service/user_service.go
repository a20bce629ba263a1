package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/repository"
)

type UserService struct {
	userRepo         repository.UserRepository
	videoRepo        repository.VideoRepository
	subscriptionRepo repository.SubscriptionRepository
	store            MediaStore
}

func NewUserService(
	userRepo repository.UserRepository,
	videoRepo repository.VideoRepository,
	subscriptionRepo repository.SubscriptionRepository,
	store MediaStore,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		videoRepo:        videoRepo,
		subscriptionRepo: subscriptionRepo,
		store:            store,
	}
}

type UpdateProfileInput struct {
	FullName string
	Email    string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	fields := map[string]interface{}{}
	if v := strings.TrimSpace(input.FullName); v != "" {
		fields["full_name"] = v
	}
	if v := strings.ToLower(strings.TrimSpace(input.Email)); v != "" {
		fields["email"] = v
	}
	if len(fields) == 0 {
		return nil, domain.ErrNothingToUpdate
	}

	user, err := s.userRepo.UpdateFields(ctx, userID, fields)
	if err != nil {
		return nil, storeErr(err, "update profile", domain.ErrUserNotFound)
	}
	return user.Sanitized(), nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID, localPath string) (*domain.User, error) {
	if localPath == "" {
		return nil, domain.ErrAvatarRequired
	}
	return s.replaceImage(ctx, userID, localPath, "avatar")
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*domain.User, error) {
	if localPath == "" {
		return nil, domain.ErrCoverImageRequired
	}
	return s.replaceImage(ctx, userID, localPath, "cover_image")
}

// replaceImage uploads the new image first and drops the old one only after
// the user row points at the new asset.
func (s *UserService) replaceImage(ctx context.Context, userID, localPath, column string) (*domain.User, error) {
	current, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "load user", domain.ErrUserNotFound)
	}

	what := strings.ReplaceAll(column, "_", " ")
	asset, err := uploadAsset(ctx, s.store, localPath, what)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{column: asset.URL})
	if err != nil {
		s.store.Delete(ctx, asset.URL)
		return nil, storeErr(err, "update "+what, domain.ErrUserNotFound)
	}

	old := current.Avatar
	if column == "cover_image" {
		old = current.CoverImage
	}
	if old != "" {
		s.store.Delete(ctx, old)
	}
	return user.Sanitized(), nil
}

// ChannelProfile looks a channel up by username and reports subscription
// counts along with whether viewerID subscribes to it.
func (s *UserService) ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, domain.NewError(domain.ErrInvalidArgument, "username is missing")
	}

	channel, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, storeErr(err, "load channel", domain.ErrChannelNotFound)
	}

	subscribers, err := s.subscriptionRepo.CountSubscribers(ctx, channel.ID)
	if err != nil {
		return nil, fmt.Errorf("count subscribers: %w", err)
	}
	subscribedTo, err := s.subscriptionRepo.CountSubscribedTo(ctx, channel.ID)
	if err != nil {
		return nil, fmt.Errorf("count subscriptions: %w", err)
	}
	isSubscribed := false
	if viewerID != "" {
		if isSubscribed, err = s.subscriptionRepo.Exists(ctx, viewerID, channel.ID); err != nil {
			return nil, fmt.Errorf("check subscription: %w", err)
		}
	}

	return &domain.ChannelProfile{
		ID:                channel.ID,
		FullName:          channel.FullName,
		Username:          channel.Username,
		Email:             channel.Email,
		Avatar:            channel.Avatar,
		CoverImage:        channel.CoverImage,
		SubscriberCount:   subscribers,
		SubscribedToCount: subscribedTo,
		IsSubscribed:      isSubscribed,
	}, nil
}

// WatchHistory returns the user's watched videos, most recent first. Videos
// that no longer exist are skipped.
func (s *UserService) WatchHistory(ctx context.Context, userID string) ([]*domain.VideoView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "load user", domain.ErrUserNotFound)
	}

	videos, err := s.videoRepo.GetByIDs(ctx, user.WatchHistory)
	if err != nil {
		return nil, fmt.Errorf("load videos: %w", err)
	}

	ownerIDs := make([]string, 0, len(videos))
	for _, v := range videos {
		ownerIDs = append(ownerIDs, v.OwnerID)
	}
	owners, err := collectOwners(ctx, s.userRepo, ownerIDs)
	if err != nil {
		return nil, err
	}

	history := make([]*domain.VideoView, 0, len(user.WatchHistory))
	for _, id := range user.WatchHistory {
		v, ok := videos[id]
		if !ok || !v.VisibleTo(userID) {
			continue
		}
		history = append(history, domain.NewVideoView(v, ownerSummary(owners, v.OwnerID, domain.ProjectCompact)))
	}
	return history, nil
}
