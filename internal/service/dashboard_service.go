package service

import (
	"context"
	"fmt"

	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/repository"
)

type DashboardService struct {
	videoRepo        repository.VideoRepository
	likeRepo         repository.LikeRepository
	subscriptionRepo repository.SubscriptionRepository
}

func NewDashboardService(videoRepo repository.VideoRepository, likeRepo repository.LikeRepository, subscriptionRepo repository.SubscriptionRepository) *DashboardService {
	return &DashboardService{
		videoRepo:        videoRepo,
		likeRepo:         likeRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

func (s *DashboardService) Stats(ctx context.Context, channelID string) (*domain.ChannelStats, error) {
	videos, views, err := s.videoRepo.ChannelTotals(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("channel totals: %w", err)
	}
	likes, err := s.likeRepo.CountOnVideosOwnedBy(ctx, channelID, domain.ReactionLike)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	subscribers, err := s.subscriptionRepo.CountSubscribers(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("count subscribers: %w", err)
	}

	return &domain.ChannelStats{
		TotalViews:       views,
		TotalVideos:      videos,
		TotalLikes:       likes,
		TotalSubscribers: subscribers,
	}, nil
}

// Videos lists every video of the channel, unpublished ones included.
func (s *DashboardService) Videos(ctx context.Context, channelID string) ([]*domain.Video, error) {
	videos, err := s.videoRepo.GetByOwner(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("list channel videos: %w", err)
	}
	return videos, nil
}
