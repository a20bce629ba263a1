package postgres

import (
	"context"

	"github.com/dom/videotube/internal/domain"
	"gorm.io/gorm"
)

type tweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) *tweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *domain.Tweet) error {
	return r.db.WithContext(ctx).Create(tweet).Error
}

func (r *tweetRepository) GetByID(ctx context.Context, id string) (*domain.Tweet, error) {
	var tweet domain.Tweet
	err := r.db.WithContext(ctx).First(&tweet, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tweet, nil
}

func (r *tweetRepository) Update(ctx context.Context, tweet *domain.Tweet) error {
	return r.db.WithContext(ctx).
		Model(tweet).
		Select("content", "updated_at").
		Updates(tweet).Error
}

func (r *tweetRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("subject_type = ? AND subject_id = ?", domain.SubjectTweet, id).
			Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Tweet{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *tweetRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Tweet, error) {
	tweets := make([]*domain.Tweet, 0)
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&tweets).Error
	if err != nil {
		return nil, err
	}
	return tweets, nil
}
