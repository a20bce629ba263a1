package service

import (
	"context"
	"fmt"

	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/repository"
)

type SubscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	userRepo         repository.UserRepository
}

func NewSubscriptionService(subscriptionRepo repository.SubscriptionRepository, userRepo repository.UserRepository) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
	}
}

func (s *SubscriptionService) Toggle(ctx context.Context, channelID, subscriberID string) (domain.SubscriptionState, error) {
	if !domain.ValidID(channelID) {
		return "", domain.ErrInvalidChannelID
	}
	if _, err := s.userRepo.GetByID(ctx, channelID); err != nil {
		return "", storeErr(err, "load channel", domain.ErrChannelNotFound)
	}
	if channelID == subscriberID {
		return "", domain.ErrSelfSubscription
	}

	state, err := s.subscriptionRepo.Toggle(ctx, subscriberID, channelID)
	if err != nil {
		return "", fmt.Errorf("toggle subscription: %w", err)
	}
	return state, nil
}

// Subscribers lists the users subscribed to channelID.
func (s *SubscriptionService) Subscribers(ctx context.Context, channelID string) ([]*domain.OwnerSummary, error) {
	if !domain.ValidID(channelID) {
		return nil, domain.ErrInvalidChannelID
	}
	if _, err := s.userRepo.GetByID(ctx, channelID); err != nil {
		return nil, storeErr(err, "load channel", domain.ErrChannelNotFound)
	}
	ids, err := s.subscriptionRepo.ListSubscriberIDs(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return s.project(ctx, ids)
}

// SubscribedChannels lists the channels subscriberID subscribes to.
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID string) ([]*domain.OwnerSummary, error) {
	if !domain.ValidID(subscriberID) {
		return nil, domain.ErrInvalidUserID
	}
	if _, err := s.userRepo.GetByID(ctx, subscriberID); err != nil {
		return nil, storeErr(err, "load user", domain.ErrUserNotFound)
	}
	ids, err := s.subscriptionRepo.ListChannelIDs(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return s.project(ctx, ids)
}

func (s *SubscriptionService) project(ctx context.Context, ids []string) ([]*domain.OwnerSummary, error) {
	users, err := collectOwners(ctx, s.userRepo, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.OwnerSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			out = append(out, u.Summary(domain.ProjectContact))
		}
	}
	return out, nil
}
