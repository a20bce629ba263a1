package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/repository"
)

type TweetService struct {
	tweetRepo repository.TweetRepository
	userRepo  repository.UserRepository
	notifier  ActivityNotifier
}

func NewTweetService(tweetRepo repository.TweetRepository, userRepo repository.UserRepository, notifier ActivityNotifier) *TweetService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &TweetService{
		tweetRepo: tweetRepo,
		userRepo:  userRepo,
		notifier:  notifier,
	}
}

func (s *TweetService) Create(ctx context.Context, ownerID, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errContentRequired
	}
	tweet := &domain.Tweet{
		ID:      domain.NewID(),
		OwnerID: ownerID,
		Content: content,
	}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, storeErr(err, "create tweet", nil)
	}
	s.notifier.Notify(ctx, domain.TweetPostedEvent(tweet))
	return tweet, nil
}

// ListByUser returns the user's tweets, newest first.
func (s *TweetService) ListByUser(ctx context.Context, userID string) ([]*domain.Tweet, error) {
	if !domain.ValidID(userID) {
		return nil, domain.ErrInvalidUserID
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, storeErr(err, "load user", domain.ErrUserNotFound)
	}
	tweets, err := s.tweetRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tweets: %w", err)
	}
	return tweets, nil
}

func (s *TweetService) Update(ctx context.Context, tweetID, actorID, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errContentRequired
	}
	tweet, err := s.loadOwned(ctx, tweetID, actorID)
	if err != nil {
		return nil, err
	}
	tweet.Content = content
	if err := s.tweetRepo.Update(ctx, tweet); err != nil {
		return nil, storeErr(err, "update tweet", domain.ErrTweetNotFound)
	}
	return tweet, nil
}

func (s *TweetService) Delete(ctx context.Context, tweetID, actorID string) error {
	if _, err := s.loadOwned(ctx, tweetID, actorID); err != nil {
		return err
	}
	if err := s.tweetRepo.Delete(ctx, tweetID); err != nil {
		return storeErr(err, "delete tweet", domain.ErrTweetNotFound)
	}
	return nil
}

func (s *TweetService) loadOwned(ctx context.Context, tweetID, actorID string) (*domain.Tweet, error) {
	if !domain.ValidID(tweetID) {
		return nil, domain.ErrInvalidTweetID
	}
	tweet, err := s.tweetRepo.GetByID(ctx, tweetID)
	if err != nil {
		return nil, storeErr(err, "load tweet", domain.ErrTweetNotFound)
	}
	if tweet.OwnerID != actorID {
		return nil, domain.ErrNotTweetOwner
	}
	return tweet, nil
}
