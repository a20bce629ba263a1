package postgres

import (
	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every persisted type in migration order.
var Models = []interface{}{
	&domain.User{},
	&domain.Video{},
	&domain.Comment{},
	&domain.Tweet{},
	&domain.Playlist{},
	&domain.Subscription{},
	&domain.Like{},
}

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:         NewUserRepository(db),
		Video:        NewVideoRepository(db),
		Comment:      NewCommentRepository(db),
		Tweet:        NewTweetRepository(db),
		Playlist:     NewPlaylistRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Like:         NewLikeRepository(db),
	}
}
