package postgres

import (
	"context"
	"errors"

	"github.com/dom/videotube/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *likeRepository {
	return &likeRepository{db: db}
}

// Toggle locks the (actor, subject) row, if any, computes the next state and
// writes it. The unique index idx_actor_subject covers the case where two
// requests both observe no row.
func (r *likeRepository) Toggle(ctx context.Context, actorID string, subjectType domain.SubjectType, subjectID string, action domain.Reaction) (domain.ReactionTransition, error) {
	var transition domain.ReactionTransition
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Like
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("actor_id = ? AND subject_type = ? AND subject_id = ?", actorID, subjectType, subjectID).
			First(&existing).Error
		current := domain.ReactionNone
		switch {
		case err == nil:
			current = existing.Reaction
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		transition = domain.ApplyReaction(current, action)

		switch {
		case transition.To == domain.ReactionNone:
			return tx.Delete(&existing).Error
		case current == domain.ReactionNone:
			like := &domain.Like{
				ID:          domain.NewID(),
				ActorID:     actorID,
				SubjectType: subjectType,
				SubjectID:   subjectID,
				Reaction:    transition.To,
			}
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "actor_id"}, {Name: "subject_type"}, {Name: "subject_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"reaction", "updated_at"}),
			}).Create(like).Error
		default:
			return tx.Model(&existing).Update("reaction", transition.To).Error
		}
	})
	if err != nil {
		return domain.ReactionTransition{}, err
	}
	return transition, nil
}

func (r *likeRepository) ListVideoIDsByActor(ctx context.Context, actorID string, reaction domain.Reaction) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&domain.Like{}).
		Where("actor_id = ? AND subject_type = ? AND reaction = ?", actorID, domain.SubjectVideo, reaction).
		Order("updated_at DESC").
		Pluck("subject_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *likeRepository) CountOnVideosOwnedBy(ctx context.Context, ownerID string, reaction domain.Reaction) (int64, error) {
	var count int64
	owned := r.db.Model(&domain.Video{}).Select("id").Where("owner_id = ?", ownerID)
	err := r.db.WithContext(ctx).
		Model(&domain.Like{}).
		Where("subject_type = ? AND reaction = ? AND subject_id IN (?)", domain.SubjectVideo, reaction, owned).
		Count(&count).Error
	return count, err
}
