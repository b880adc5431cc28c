package entity

// Tag is a shared, named label that any user may attach to their entries.
type Tag struct {
	ID   uint   // Store-assigned identifier
	Name string // Globally unique display name
	Slug string // Derived from Name when the tag is created
}

// NewTag builds a tag whose slug is derived from its name.
// The slug is not recomputed if the name changes later.
func NewTag(id uint, name string) Tag {
	return Tag{ID: id, Name: name, Slug: Slugify(name)}
}

// StarterTags は初回起動時に投入されるタグ一覧です。
func StarterTags() []Tag {
	return []Tag{
		NewTag(1, "Personal"),
		NewTag(2, "Work"),
		NewTag(3, "Ideas"),
		NewTag(4, "Learning"),
		NewTag(5, "Health"),
	}
}
