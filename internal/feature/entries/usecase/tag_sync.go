package usecase

import (
	"context"
	"fmt"

	"declutter_backend/internal/feature/entries/domain/entity"
)

// TagSynchronizer turns a list of selected tag IDs into the exact tag set of an entry.
type TagSynchronizer struct {
	tags TagRepository
}

// NewTagSynchronizer creates a TagSynchronizer.
func NewTagSynchronizer(tags TagRepository) *TagSynchronizer {
	return &TagSynchronizer{tags: tags}
}

// Resolve looks the IDs up in one batch.
// Zero, duplicate and unknown IDs are dropped. Nil or empty input yields no tags.
func (s *TagSynchronizer) Resolve(ctx context.Context, ids []uint) ([]entity.Tag, error) {
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, nil
	}

	tags, err := s.tags.FindByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tags: %w", err)
	}
	return tags, nil
}

// Sync replaces e.Tags with the resolved set. Persisting it is up to the repository.
func (s *TagSynchronizer) Sync(ctx context.Context, e *entity.Entry, ids []uint) error {
	tags, err := s.Resolve(ctx, ids)
	if err != nil {
		return err
	}
	e.Tags = tags
	return nil
}
