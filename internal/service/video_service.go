package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/repository"
	"github.com/sirupsen/logrus"
)

type VideoService struct {
	videoRepo repository.VideoRepository
	userRepo  repository.UserRepository
	store     MediaStore
	notifier  ActivityNotifier
}

func NewVideoService(videoRepo repository.VideoRepository, userRepo repository.UserRepository, store MediaStore, notifier ActivityNotifier) *VideoService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &VideoService{
		videoRepo: videoRepo,
		userRepo:  userRepo,
		store:     store,
		notifier:  notifier,
	}
}

type ListVideosInput struct {
	Query    string
	OwnerID  string
	ViewerID string
	Page     domain.PageQuery
}

type PublishVideoInput struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
}

type UpdateVideoInput struct {
	Title       string
	Description string
}

func (s *VideoService) List(ctx context.Context, input ListVideosInput) ([]*domain.VideoView, error) {
	if input.OwnerID != "" && !domain.ValidID(input.OwnerID) {
		return nil, domain.ErrInvalidUserID
	}
	page, err := input.Page.Normalize()
	if err != nil {
		return nil, err
	}

	videos, err := s.videoRepo.Search(ctx, repository.VideoFilter{
		Query:    strings.TrimSpace(input.Query),
		OwnerID:  input.OwnerID,
		ViewerID: input.ViewerID,
	}, page)
	if err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}

	ownerIDs := make([]string, len(videos))
	for i, v := range videos {
		ownerIDs[i] = v.OwnerID
	}
	owners, err := collectOwners(ctx, s.userRepo, ownerIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*domain.VideoView, 0, len(videos))
	for _, v := range videos {
		views = append(views, domain.NewVideoView(v, ownerSummary(owners, v.OwnerID, domain.ProjectPublic)))
	}
	return views, nil
}

func (s *VideoService) Publish(ctx context.Context, ownerID string, input PublishVideoInput) (*domain.Video, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, domain.NewError(domain.ErrInvalidArgument, "title and description are required")
	}
	if input.VideoPath == "" || input.ThumbnailPath == "" {
		return nil, domain.ErrVideoFileRequired
	}

	videoAsset, err := uploadAsset(ctx, s.store, input.VideoPath, "video")
	if err != nil {
		return nil, err
	}
	thumbnail, err := uploadAsset(ctx, s.store, input.ThumbnailPath, "thumbnail")
	if err != nil {
		s.store.Delete(ctx, videoAsset.URL)
		return nil, err
	}

	video := &domain.Video{
		ID:          domain.NewID(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		VideoFile:   videoAsset.URL,
		Thumbnail:   thumbnail.URL,
		Duration:    videoAsset.Duration,
		IsPublished: true,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		s.store.Delete(ctx, videoAsset.URL)
		s.store.Delete(ctx, thumbnail.URL)
		return nil, storeErr(err, "create video", nil)
	}

	logrus.WithFields(logrus.Fields{"video_id": video.ID, "owner_id": ownerID}).Info("video published")
	s.notifier.Notify(ctx, domain.VideoPublishedEvent(video))
	return video, nil
}

// Get returns the video with its owner and records a view by viewerID.
func (s *VideoService) Get(ctx context.Context, videoID, viewerID string) (*domain.VideoView, error) {
	if !domain.ValidID(videoID) {
		return nil, domain.ErrInvalidVideoID
	}
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, storeErr(err, "load video", domain.ErrVideoNotFound)
	}
	if !video.VisibleTo(viewerID) {
		return nil, domain.ErrVideoNotFound
	}

	if err := s.videoRepo.IncrementViews(ctx, videoID); err != nil {
		return nil, fmt.Errorf("increment views: %w", err)
	}
	video.Views++
	if viewerID != "" {
		if err := s.userRepo.PushWatchHistory(ctx, viewerID, videoID); err != nil {
			return nil, fmt.Errorf("record watch history: %w", err)
		}
	}

	var owner *domain.OwnerSummary
	if u, err := s.userRepo.GetByID(ctx, video.OwnerID); err == nil {
		owner = u.Summary(domain.ProjectPublic)
	}
	return domain.NewVideoView(video, owner), nil
}

func (s *VideoService) UpdateDetails(ctx context.Context, videoID, actorID string, input UpdateVideoInput) (*domain.Video, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" && description == "" {
		return nil, domain.ErrNothingToUpdate
	}

	video, err := s.loadOwned(ctx, videoID, actorID)
	if err != nil {
		return nil, err
	}
	if title != "" {
		video.Title = title
	}
	if description != "" {
		video.Description = description
	}
	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, storeErr(err, "update video", domain.ErrVideoNotFound)
	}
	return video, nil
}

func (s *VideoService) UpdateThumbnail(ctx context.Context, videoID, actorID, localPath string) (*domain.Video, error) {
	if localPath == "" {
		return nil, domain.ErrThumbnailRequired
	}
	video, err := s.loadOwned(ctx, videoID, actorID)
	if err != nil {
		return nil, err
	}

	thumbnail, err := uploadAsset(ctx, s.store, localPath, "thumbnail")
	if err != nil {
		return nil, err
	}

	old := video.Thumbnail
	video.Thumbnail = thumbnail.URL
	if err := s.videoRepo.Update(ctx, video); err != nil {
		s.store.Delete(ctx, thumbnail.URL)
		return nil, storeErr(err, "update video", domain.ErrVideoNotFound)
	}
	s.store.Delete(ctx, old)
	return video, nil
}

func (s *VideoService) Delete(ctx context.Context, videoID, actorID string) error {
	video, err := s.loadOwned(ctx, videoID, actorID)
	if err != nil {
		return err
	}
	if err := s.videoRepo.Delete(ctx, videoID); err != nil {
		return storeErr(err, "delete video", domain.ErrVideoNotFound)
	}

	s.store.Delete(ctx, video.VideoFile)
	s.store.Delete(ctx, video.Thumbnail)
	logrus.WithField("video_id", videoID).Info("video deleted")
	return nil
}

func (s *VideoService) TogglePublish(ctx context.Context, videoID, actorID string) (*domain.Video, error) {
	video, err := s.loadOwned(ctx, videoID, actorID)
	if err != nil {
		return nil, err
	}
	video.IsPublished = !video.IsPublished
	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, storeErr(err, "update video", domain.ErrVideoNotFound)
	}
	return video, nil
}

func (s *VideoService) loadOwned(ctx context.Context, videoID, actorID string) (*domain.Video, error) {
	if !domain.ValidID(videoID) {
		return nil, domain.ErrInvalidVideoID
	}
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, storeErr(err, "load video", domain.ErrVideoNotFound)
	}
	if video.OwnerID != actorID {
		return nil, domain.ErrNotVideoOwner
	}
	return video, nil
}
