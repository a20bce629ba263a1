package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/repository"
)

var errContentRequired = domain.NewError(domain.ErrInvalidArgument, "content is required")

type CommentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
	userRepo    repository.UserRepository
}

func NewCommentService(commentRepo repository.CommentRepository, videoRepo repository.VideoRepository, userRepo repository.UserRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		userRepo:    userRepo,
	}
}

// List returns one page of the comments on a video visible to viewerID.
func (s *CommentService) List(ctx context.Context, videoID, viewerID string, page domain.PageQuery) ([]*domain.CommentView, error) {
	if !domain.ValidID(videoID) {
		return nil, domain.ErrInvalidVideoID
	}
	page, err := page.Normalize()
	if err != nil {
		return nil, err
	}
	if err := page.RestrictSort("createdAt", "updatedAt"); err != nil {
		return nil, err
	}
	if err := s.ensureVisible(ctx, videoID, viewerID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByVideo(ctx, videoID, page)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	ownerIDs := make([]string, len(comments))
	for i, c := range comments {
		ownerIDs[i] = c.OwnerID
	}
	owners, err := collectOwners(ctx, s.userRepo, ownerIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*domain.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, &domain.CommentView{
			ID:        c.ID,
			Content:   c.Content,
			Owner:     ownerSummary(owners, c.OwnerID, domain.ProjectCompact),
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return views, nil
}

func (s *CommentService) Add(ctx context.Context, videoID, ownerID, content string) (*domain.Comment, error) {
	if !domain.ValidID(videoID) {
		return nil, domain.ErrInvalidVideoID
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errContentRequired
	}
	if err := s.ensureVisible(ctx, videoID, ownerID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:      domain.NewID(),
		VideoID: videoID,
		OwnerID: ownerID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, storeErr(err, "create comment", nil)
	}
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, commentID, actorID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errContentRequired
	}
	comment, err := s.loadOwned(ctx, commentID, actorID)
	if err != nil {
		return nil, err
	}
	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, storeErr(err, "update comment", domain.ErrCommentNotFound)
	}
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, commentID, actorID string) error {
	if _, err := s.loadOwned(ctx, commentID, actorID); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return storeErr(err, "delete comment", domain.ErrCommentNotFound)
	}
	return nil
}

func (s *CommentService) loadOwned(ctx context.Context, commentID, actorID string) (*domain.Comment, error) {
	if !domain.ValidID(commentID) {
		return nil, domain.ErrInvalidCommentID
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, storeErr(err, "load comment", domain.ErrCommentNotFound)
	}
	if comment.OwnerID != actorID {
		return nil, domain.ErrNotCommentOwner
	}
	return comment, nil
}

func (s *CommentService) ensureVisible(ctx context.Context, videoID, viewerID string) error {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return storeErr(err, "load video", domain.ErrVideoNotFound)
	}
	if !video.VisibleTo(viewerID) {
		return domain.ErrVideoNotFound
	}
	return nil
}
