package postgres

import (
	"context"

	"github.com/dom/videotube/internal/domain"
	"gorm.io/gorm"
)

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).
		Model(comment).
		Select("content", "updated_at").
		Updates(comment).Error
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("subject_type = ? AND subject_id = ?", domain.SubjectComment, id).
			Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Comment{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *commentRepository) ListByVideo(ctx context.Context, videoID string, page domain.PageQuery) ([]*domain.Comment, error) {
	comments := make([]*domain.Comment, 0, page.Limit)
	err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order(page.OrderClause()).
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
