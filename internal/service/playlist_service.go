package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/repository"
)

type PlaylistService struct {
	playlistRepo repository.PlaylistRepository
	videoRepo    repository.VideoRepository
	userRepo     repository.UserRepository
}

func NewPlaylistService(playlistRepo repository.PlaylistRepository, videoRepo repository.VideoRepository, userRepo repository.UserRepository) *PlaylistService {
	return &PlaylistService{
		playlistRepo: playlistRepo,
		videoRepo:    videoRepo,
		userRepo:     userRepo,
	}
}

type PlaylistInput struct {
	Name        string
	Description string
}

func (s *PlaylistService) Create(ctx context.Context, ownerID string, input PlaylistInput) (*domain.Playlist, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if name == "" || description == "" {
		return nil, domain.NewError(domain.ErrInvalidArgument, "name and description are required")
	}

	playlist := &domain.Playlist{
		ID:          domain.NewID(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Videos:      []string{},
	}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, storeErr(err, "create playlist", nil)
	}
	return playlist, nil
}

func (s *PlaylistService) ListByUser(ctx context.Context, userID string) ([]*domain.Playlist, error) {
	if !domain.ValidID(userID) {
		return nil, domain.ErrInvalidUserID
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, storeErr(err, "load user", domain.ErrUserNotFound)
	}
	playlists, err := s.playlistRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	return playlists, nil
}

// Detail joins the playlist's videos, in playlist order, and its owner.
// Drafts are left out unless viewerID owns them.
func (s *PlaylistService) Detail(ctx context.Context, playlistID, viewerID string) (*domain.PlaylistDetail, error) {
	if !domain.ValidID(playlistID) {
		return nil, domain.ErrInvalidPlaylistID
	}
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, storeErr(err, "load playlist", domain.ErrPlaylistNotFound)
	}

	videos, err := s.videoRepo.GetByIDs(ctx, playlist.Videos)
	if err != nil {
		return nil, fmt.Errorf("load videos: %w", err)
	}

	detail := &domain.PlaylistDetail{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		Videos:      make([]*domain.VideoSummary, 0, len(playlist.Videos)),
		CreatedAt:   playlist.CreatedAt,
		UpdatedAt:   playlist.UpdatedAt,
	}
	for _, id := range playlist.Videos {
		v, ok := videos[id]
		if !ok || !v.VisibleTo(viewerID) {
			continue
		}
		detail.Videos = append(detail.Videos, &domain.VideoSummary{
			ID:          v.ID,
			Title:       v.Title,
			Description: v.Description,
		})
	}
	if owner, err := s.userRepo.GetByID(ctx, playlist.OwnerID); err == nil {
		detail.Owner = owner.Summary(domain.ProjectPublic)
	}
	return detail, nil
}

func (s *PlaylistService) AddVideo(ctx context.Context, videoID, playlistID, actorID string) (*domain.Playlist, error) {
	if err := validatePair(videoID, playlistID); err != nil {
		return nil, err
	}
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, storeErr(err, "load video", domain.ErrVideoNotFound)
	}
	if !video.VisibleTo(actorID) {
		return nil, domain.ErrVideoNotFound
	}

	playlist, err := s.playlistRepo.ModifyVideos(ctx, playlistID, func(p *domain.Playlist) error {
		if p.OwnerID != actorID {
			return domain.ErrNotPlaylistOwner
		}
		return p.AddVideo(videoID)
	})
	if err != nil {
		return nil, storeErr(err, "add video to playlist", domain.ErrPlaylistNotFound)
	}
	return playlist, nil
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, videoID, playlistID, actorID string) (*domain.Playlist, error) {
	if err := validatePair(videoID, playlistID); err != nil {
		return nil, err
	}

	playlist, err := s.playlistRepo.ModifyVideos(ctx, playlistID, func(p *domain.Playlist) error {
		if p.OwnerID != actorID {
			return domain.ErrNotPlaylistOwner
		}
		return p.RemoveVideo(videoID)
	})
	if err != nil {
		return nil, storeErr(err, "remove video from playlist", domain.ErrPlaylistNotFound)
	}
	return playlist, nil
}

func (s *PlaylistService) Update(ctx context.Context, playlistID, actorID string, input PlaylistInput) (*domain.Playlist, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if name == "" && description == "" {
		return nil, domain.ErrNothingToUpdate
	}

	playlist, err := s.loadOwned(ctx, playlistID, actorID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		playlist.Name = name
	}
	if description != "" {
		playlist.Description = description
	}
	if err := s.playlistRepo.Update(ctx, playlist); err != nil {
		return nil, storeErr(err, "update playlist", domain.ErrPlaylistNotFound)
	}
	return playlist, nil
}

func (s *PlaylistService) Delete(ctx context.Context, playlistID, actorID string) error {
	if _, err := s.loadOwned(ctx, playlistID, actorID); err != nil {
		return err
	}
	if err := s.playlistRepo.Delete(ctx, playlistID); err != nil {
		return storeErr(err, "delete playlist", domain.ErrPlaylistNotFound)
	}
	return nil
}

func (s *PlaylistService) loadOwned(ctx context.Context, playlistID, actorID string) (*domain.Playlist, error) {
	if !domain.ValidID(playlistID) {
		return nil, domain.ErrInvalidPlaylistID
	}
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, storeErr(err, "load playlist", domain.ErrPlaylistNotFound)
	}
	if playlist.OwnerID != actorID {
		return nil, domain.ErrNotPlaylistOwner
	}
	return playlist, nil
}

func validatePair(videoID, playlistID string) error {
	if !domain.ValidID(videoID) {
		return domain.ErrInvalidVideoID
	}
	if !domain.ValidID(playlistID) {
		return domain.ErrInvalidPlaylistID
	}
	return nil
}
