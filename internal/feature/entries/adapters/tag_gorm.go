package adapters

import (
	"context"

	"gorm.io/gorm"

	"declutter_backend/internal/feature/entries/domain/entity"
	"declutter_backend/internal/feature/entries/usecase"
)

// tagGorm reads the shared tag catalog.
type tagGorm struct {
	db *gorm.DB
}

var _ usecase.TagRepository = (*tagGorm)(nil)

// NewTagGorm creates a tag repository.
func NewTagGorm(db *gorm.DB) *tagGorm {
	return &tagGorm{db: db}
}

// FindByIDs returns the tags whose IDs are in ids, ordered by ID.
// Unknown IDs are skipped. An empty input does not hit the database.
func (r *tagGorm) FindByIDs(ctx context.Context, ids []uint) ([]entity.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []TagModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return tagsToEntities(models), nil
}

// All returns the whole catalog ordered by ID.
func (r *tagGorm) All(ctx context.Context) ([]entity.Tag, error) {
	var models []TagModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return tagsToEntities(models), nil
}
