// Package adapters はentriesフィーチャーのGORMリポジトリ実装を提供します。
package adapters

import (
	"time"

	authentity "declutter_backend/internal/feature/auth/domain/entity"
	"declutter_backend/internal/feature/entries/domain/entity"
)

// EntryModel is the entries table row.
// Join rows in entry_tags are written explicitly, never through association saving.
type EntryModel struct {
	ID        uint             `gorm:"primaryKey"`
	Title     string           `gorm:"size:200;not null"`
	Content   string           `gorm:"type:text;not null"`
	CreatedAt time.Time        `gorm:"not null;index"`
	AuthorID  string           `gorm:"size:36;not null;index"`
	Author    *authentity.User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Tags      []TagModel       `gorm:"many2many:entry_tags;joinForeignKey:EntryID;joinReferences:TagID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (EntryModel) TableName() string {
	return "entries"
}

// TagModel is the tags table row.
type TagModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;not null;uniqueIndex"`
	Slug string `gorm:"size:100;not null"`
}

// TableName returns the table name for GORM.
func (TagModel) TableName() string {
	return "tags"
}

// EntryTagModel is the entry_tags join row.
type EntryTagModel struct {
	EntryID uint `gorm:"primaryKey;autoIncrement:false"`
	TagID   uint `gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName returns the table name for GORM.
func (EntryTagModel) TableName() string {
	return "entry_tags"
}

// ToEntity converts the row, including any preloaded tags.
func (m *EntryModel) ToEntity() *entity.Entry {
	e := &entity.Entry{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		AuthorID:  m.AuthorID,
		Tags:      make([]entity.Tag, 0, len(m.Tags)),
	}
	for i := range m.Tags {
		e.Tags = append(e.Tags, m.Tags[i].ToEntity())
	}
	return e
}

// EntryModelFromEntity converts an entry without its tags.
func EntryModelFromEntity(e *entity.Entry) *EntryModel {
	return &EntryModel{
		ID:        e.ID,
		Title:     e.Title,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
		AuthorID:  e.AuthorID,
	}
}

// ToEntity converts the row to a domain tag.
func (m TagModel) ToEntity() entity.Tag {
	return entity.Tag{ID: m.ID, Name: m.Name, Slug: m.Slug}
}

// TagModelFromEntity converts a domain tag to a row.
func TagModelFromEntity(t entity.Tag) TagModel {
	return TagModel{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func tagsToEntities(models []TagModel) []entity.Tag {
	out := make([]entity.Tag, 0, len(models))
	for _, m := range models {
		out = append(out, m.ToEntity())
	}
	return out
}

// Models lists every model of the feature in migration order.
func Models() []any {
	return []any{&TagModel{}, &EntryModel{}, &EntryTagModel{}}
}
