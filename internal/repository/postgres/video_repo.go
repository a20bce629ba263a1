package postgres

import (
	"context"
	"strings"

	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/repository"
	"gorm.io/gorm"
)

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *videoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *domain.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *videoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	var video domain.Video
	err := r.db.WithContext(ctx).First(&video, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Video, error) {
	result := make(map[string]*domain.Video, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var videos []*domain.Video
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&videos).Error; err != nil {
		return nil, err
	}
	for _, v := range videos {
		result[v.ID] = v
	}
	return result, nil
}

// Update writes the editable columns. Views are only touched by IncrementViews.
func (r *videoRepository) Update(ctx context.Context, video *domain.Video) error {
	return r.db.WithContext(ctx).
		Model(video).
		Select("title", "description", "thumbnail", "is_published", "updated_at").
		Updates(video).Error
}

func (r *videoRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&domain.Comment{}).Select("id").Where("video_id = ?", id)
		if err := tx.Where("subject_type = ? AND subject_id IN (?)", domain.SubjectComment, commentIDs).
			Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("subject_type = ? AND subject_id = ?", domain.SubjectVideo, id).
			Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Playlist{}).
			Where("videos @> jsonb_build_array(?::text)", id).
			Update("videos", gorm.Expr("videos - ?::text", id)).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.User{}).
			Where("watch_history @> jsonb_build_array(?::text)", id).
			Update("watch_history", gorm.Expr("watch_history - ?::text", id)).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Video{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *videoRepository) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// Search applies filter, sort, skip and limit in that order.
func (r *videoRepository) Search(ctx context.Context, filter repository.VideoFilter, page domain.PageQuery) ([]*domain.Video, error) {
	q := r.db.WithContext(ctx).Model(&domain.Video{})

	if filter.Query != "" {
		pattern := "%" + escapeLike(filter.Query) + "%"
		q = q.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}
	if filter.OwnerID != "" {
		q = q.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.ViewerID != "" {
		q = q.Where("(is_published = ? OR owner_id = ?)", true, filter.ViewerID)
	} else {
		q = q.Where("is_published = ?", true)
	}

	videos := make([]*domain.Video, 0, page.Limit)
	err := q.Order(page.OrderClause()).
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *videoRepository) GetByOwner(ctx context.Context, ownerID string) ([]*domain.Video, error) {
	videos := make([]*domain.Video, 0)
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *videoRepository) ChannelTotals(ctx context.Context, ownerID string) (int64, int64, error) {
	var totals struct {
		Videos int64
		Views  int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Video{}).
		Select("COUNT(*) AS videos, COALESCE(SUM(views), 0) AS views").
		Where("owner_id = ?", ownerID).
		Scan(&totals).Error
	if err != nil {
		return 0, 0, err
	}
	return totals.Videos, totals.Views, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
