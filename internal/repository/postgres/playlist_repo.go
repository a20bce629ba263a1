package postgres

import (
	"context"

	"github.com/dom/videotube/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type playlistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) *playlistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) Create(ctx context.Context, playlist *domain.Playlist) error {
	if playlist.Videos == nil {
		playlist.Videos = []string{}
	}
	return r.db.WithContext(ctx).Create(playlist).Error
}

func (r *playlistRepository) GetByID(ctx context.Context, id string) (*domain.Playlist, error) {
	var playlist domain.Playlist
	err := r.db.WithContext(ctx).First(&playlist, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

// Update writes the name and description. The video list only changes
// through ModifyVideos.
func (r *playlistRepository) Update(ctx context.Context, playlist *domain.Playlist) error {
	return r.db.WithContext(ctx).
		Model(playlist).
		Select("name", "description", "updated_at").
		Updates(playlist).Error
}

func (r *playlistRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Playlist{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Playlist, error) {
	playlists := make([]*domain.Playlist, 0)
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&playlists).Error
	if err != nil {
		return nil, err
	}
	return playlists, nil
}

func (r *playlistRepository) ModifyVideos(ctx context.Context, id string, fn func(*domain.Playlist) error) (*domain.Playlist, error) {
	var playlist domain.Playlist
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&playlist, "id = ?", id).Error; err != nil {
			return err
		}
		if err := fn(&playlist); err != nil {
			return err
		}
		return tx.Model(&playlist).Update("videos", playlist.Videos).Error
	})
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}
