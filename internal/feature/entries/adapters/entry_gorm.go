package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"declutter_backend/internal/feature/entries/domain/entity"
	"declutter_backend/internal/feature/entries/usecase"
)

// entryGorm はEntryRepositoryのGORM実装です。
// すべての読み書きは author_id で絞り込みます（Existsのみ例外）。
type entryGorm struct {
	db *gorm.DB
}

// entryGormがEntryRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.EntryRepository = (*entryGorm)(nil)

// NewEntryGorm は指定されたgorm.DB接続でentryGormを生成します。
func NewEntryGorm(db *gorm.DB) *entryGorm {
	return &entryGorm{db: db}
}

func preloadTags(db *gorm.DB) *gorm.DB {
	return db.Order("tags.id")
}

// ListByOwner はユーザーのエントリーを新しい順に返します。タグは事前ロードします。
func (r *entryGorm) ListByOwner(ctx context.Context, userID string) ([]entity.Entry, error) {
	var models []EntryModel
	if err := r.db.WithContext(ctx).
		Preload("Tags", preloadTags).
		Where("author_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]entity.Entry, 0, len(models))
	for i := range models {
		entries = append(entries, *models[i].ToEntity())
	}
	return entries, nil
}

// FindByOwner はIDと所有者が一致するエントリーを返します。
// 存在しない場合と他人のエントリーの場合はどちらも usecase.ErrEntryNotFound です。
func (r *entryGorm) FindByOwner(ctx context.Context, id uint, userID string) (*entity.Entry, error) {
	var m EntryModel
	if err := r.db.WithContext(ctx).
		Preload("Tags", preloadTags).
		Where("id = ? AND author_id = ?", id, userID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrEntryNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// Create はエントリーとタグの関連を1トランザクションで保存し、採番されたIDを設定します。
func (r *entryGorm) Create(ctx context.Context, e *entity.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := EntryModelFromEntity(e)
		if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
			return err
		}
		if err := insertEntryTags(tx, m.ID, e.TagIDs()); err != nil {
			return err
		}
		e.ID = m.ID
		e.CreatedAt = m.CreatedAt
		return nil
	})
}

// Update はタイトルと本文のみを更新し、タグの関連を e.Tags で全置換します。
// 対象行が見つからない場合は usecase.ErrConcurrencyConflict を返します。
func (r *entryGorm) Update(ctx context.Context, e *entity.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&EntryModel{}).
			Where("id = ? AND author_id = ?", e.ID, e.AuthorID).
			Updates(map[string]any{
				"title":   e.Title,
				"content": e.Content,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return usecase.ErrConcurrencyConflict
		}

		if err := tx.Where("entry_id = ?", e.ID).Delete(&EntryTagModel{}).Error; err != nil {
			return err
		}
		return insertEntryTags(tx, e.ID, e.TagIDs())
	})
}

// Delete は関連行とエントリーを削除します。タグ自体は残ります。
func (r *entryGorm) Delete(ctx context.Context, id uint, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&EntryModel{}).
			Where("id = ? AND author_id = ?", id, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return usecase.ErrEntryNotFound
		}

		if err := tx.Where("entry_id = ?", id).Delete(&EntryTagModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ? AND author_id = ?", id, userID).Delete(&EntryModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return usecase.ErrEntryNotFound
		}
		return nil
	})
}

// Exists は所有者に関係なくエントリーの存在を確認します。競合時の判定専用です。
func (r *entryGorm) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&EntryModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// TagsUsedBy はユーザーのエントリーが1件以上参照しているタグをID順に返します。
func (r *entryGorm) TagsUsedBy(ctx context.Context, userID string) ([]entity.Tag, error) {
	used := r.db.Table("entry_tags").
		Select("1").
		Joins("JOIN entries ON entries.id = entry_tags.entry_id").
		Where("entry_tags.tag_id = tags.id AND entries.author_id = ?", userID)

	var models []TagModel
	if err := r.db.WithContext(ctx).
		Where("EXISTS (?)", used).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return tagsToEntities(models), nil
}

// insertEntryTags は重複を除いた関連行を挿入します。
func insertEntryTags(tx *gorm.DB, entryID uint, tagIDs []uint) error {
	seen := make(map[uint]struct{}, len(tagIDs))
	rows := make([]EntryTagModel, 0, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, EntryTagModel{EntryID: entryID, TagID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}
