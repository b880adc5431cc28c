package usecase

import (
	"context"

	"declutter_backend/internal/feature/entries/domain/entity"
)

// EntryRepository は所有者で絞り込むエントリーの永続化層です。
// Goの慣例に従い、インターフェースはコンシューマー（usecase）が定義します。
type EntryRepository interface {
	// ListByOwner returns the user's entries, newest first, with tags loaded.
	ListByOwner(ctx context.Context, userID string) ([]entity.Entry, error)

	// FindByOwner returns ErrEntryNotFound if the entry is absent or not owned by userID.
	FindByOwner(ctx context.Context, id uint, userID string) (*entity.Entry, error)

	// Create persists the entry and its tag links in one transaction and sets e.ID.
	Create(ctx context.Context, e *entity.Entry) error

	// Update writes title and content and replaces the tag links with e.Tags.
	// Returns ErrConcurrencyConflict if no row matched id and author.
	Update(ctx context.Context, e *entity.Entry) error

	// Delete removes the entry and its tag links. Tags are kept.
	Delete(ctx context.Context, id uint, userID string) error

	// Exists checks for the row regardless of owner.
	Exists(ctx context.Context, id uint) (bool, error)

	// TagsUsedBy returns the tags referenced by at least one of the user's entries.
	TagsUsedBy(ctx context.Context, userID string) ([]entity.Tag, error)
}

// TagRepository reads the shared tag catalog.
type TagRepository interface {
	// FindByIDs returns existing tags for ids. Unknown IDs are dropped.
	FindByIDs(ctx context.Context, ids []uint) ([]entity.Tag, error)

	// All returns every tag.
	All(ctx context.Context) ([]entity.Tag, error)
}
