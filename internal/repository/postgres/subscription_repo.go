package postgres

import (
	"context"

	"github.com/dom/videotube/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *subscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Toggle relies on idx_subscriber_channel so concurrent toggles never leave
// more than one edge behind.
func (r *subscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID string) (domain.SubscriptionState, error) {
	state := domain.Unsubscribed
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
			Delete(&domain.Subscription{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			state = domain.Unsubscribed
			return nil
		}

		sub := &domain.Subscription{
			ID:           domain.NewID(),
			SubscriberID: subscriberID,
			ChannelID:    channelID,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(sub).Error; err != nil {
			return err
		}
		state = domain.Subscribed
		return nil
	})
	if err != nil {
		return "", err
	}
	return state, nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID, channelID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	return count > 0, err
}

func (r *subscriptionRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) ListSubscriberIDs(ctx context.Context, channelID string) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("channel_id = ?", channelID).
		Order("created_at DESC").
		Pluck("subscriber_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *subscriptionRepository) ListChannelIDs(ctx context.Context, subscriberID string) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Order("created_at DESC").
		Pluck("channel_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
