package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"declutter_backend/internal/feature/entries/domain/entity"
	"declutter_backend/internal/platform/db"
)

// Migrate creates the entries, tags and entry_tags tables and seeds the
// starter tags. The users table must already exist.
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	if err := gdb.SetupJoinTable(&EntryModel{}, "Tags", &EntryTagModel{}); err != nil {
		return fmt.Errorf("failed to set up entry_tags: %w", err)
	}
	if err := db.Migrate(gdb, Models()...); err != nil {
		return err
	}
	return SeedTags(ctx, gdb)
}

// SeedTags inserts the starter tags, skipping any that already exist.
func SeedTags(ctx context.Context, gdb *gorm.DB) error {
	starter := entity.StarterTags()
	rows := make([]TagModel, 0, len(starter))
	for _, t := range starter {
		rows = append(rows, TagModelFromEntity(t))
	}

	if err := gdb.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to seed tags: %w", err)
	}

	// 明示IDで挿入したためシーケンスを追従させる
	if gdb.Dialector.Name() == "postgres" {
		if err := gdb.WithContext(ctx).
			Exec("SELECT setval(pg_get_serial_sequence('tags', 'id'), (SELECT MAX(id) FROM tags))").Error; err != nil {
			return fmt.Errorf("failed to sync tags sequence: %w", err)
		}
	}
	return nil
}
