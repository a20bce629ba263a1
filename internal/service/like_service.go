package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/repository"
	"github.com/sirupsen/logrus"
)

type LikeService struct {
	likeRepo    repository.LikeRepository
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
	tweetRepo   repository.TweetRepository
}

func NewLikeService(
	likeRepo repository.LikeRepository,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	tweetRepo repository.TweetRepository,
) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
	}
}

// Toggle applies reaction by actorID on the subject. Any opposite reaction is
// cleared, and repeating the current reaction removes it.
func (s *LikeService) Toggle(ctx context.Context, subjectType domain.SubjectType, subjectID, actorID string, reaction domain.Reaction) (domain.ReactionTransition, error) {
	if !reaction.IsValid() {
		return domain.ReactionTransition{}, domain.NewError(domain.ErrInvalidArgument, "invalid reaction")
	}
	if err := s.ensureSubject(ctx, actorID, subjectType, subjectID); err != nil {
		return domain.ReactionTransition{}, err
	}

	transition, err := s.likeRepo.Toggle(ctx, actorID, subjectType, subjectID, reaction)
	if err != nil {
		return domain.ReactionTransition{}, fmt.Errorf("toggle reaction: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"subject_type": subjectType,
		"subject_id":   subjectID,
		"actor_id":     actorID,
		"from":         transition.From,
		"to":           transition.To,
	}).Debug("reaction toggled")
	return transition, nil
}

// ensureSubject rejects subjects that do not exist or that hang off a video
// actorID cannot see.
func (s *LikeService) ensureSubject(ctx context.Context, actorID string, subjectType domain.SubjectType, subjectID string) error {
	switch subjectType {
	case domain.SubjectVideo:
		if !domain.ValidID(subjectID) {
			return domain.ErrInvalidVideoID
		}
		return s.ensureVideoVisible(ctx, actorID, subjectID)
	case domain.SubjectComment:
		if !domain.ValidID(subjectID) {
			return domain.ErrInvalidCommentID
		}
		comment, err := s.commentRepo.GetByID(ctx, subjectID)
		if err != nil {
			return storeErr(err, "load comment", domain.ErrCommentNotFound)
		}
		if err := s.ensureVideoVisible(ctx, actorID, comment.VideoID); err != nil {
			if errors.Is(err, domain.ErrVideoNotFound) {
				return domain.ErrCommentNotFound
			}
			return err
		}
	case domain.SubjectTweet:
		if !domain.ValidID(subjectID) {
			return domain.ErrInvalidTweetID
		}
		if _, err := s.tweetRepo.GetByID(ctx, subjectID); err != nil {
			return storeErr(err, "load tweet", domain.ErrTweetNotFound)
		}
	default:
		return domain.NewError(domain.ErrInvalidArgument, "invalid subject type", string(subjectType))
	}
	return nil
}

func (s *LikeService) ensureVideoVisible(ctx context.Context, actorID, videoID string) error {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return storeErr(err, "load video", domain.ErrVideoNotFound)
	}
	if !video.VisibleTo(actorID) {
		return domain.ErrVideoNotFound
	}
	return nil
}

// LikedVideos lists the videos actorID currently likes, most recent first.
func (s *LikeService) LikedVideos(ctx context.Context, actorID string) ([]*domain.LikedVideo, error) {
	ids, err := s.likeRepo.ListVideoIDsByActor(ctx, actorID, domain.ReactionLike)
	if err != nil {
		return nil, fmt.Errorf("list liked videos: %w", err)
	}
	videos, err := s.videoRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load videos: %w", err)
	}

	liked := make([]*domain.LikedVideo, 0, len(ids))
	for _, id := range ids {
		v, ok := videos[id]
		if !ok || !v.VisibleTo(actorID) {
			continue
		}
		liked = append(liked, &domain.LikedVideo{
			ID:          v.ID,
			Title:       v.Title,
			Description: v.Description,
			Thumbnail:   v.Thumbnail,
			Duration:    v.Duration,
			Views:       v.Views,
			CreatedAt:   v.CreatedAt,
		})
	}
	return liked, nil
}
