// Package entity defines the domain models for the entries feature.
package entity

import "time"

// Entry is a short note written by a single user.
// AuthorID is fixed at creation and never reassigned.
type Entry struct {
	ID        uint      // Store-assigned identifier (0 until persisted)
	Title     string    // Required, at most 200 characters
	Content   string    // Required free text
	CreatedAt time.Time // Set by the server once, at creation
	AuthorID  string    // Owning user's ID
	Tags      []Tag     // Associated tags (order not meaningful)
}

// Slug returns the URL-safe form of the current title.
// It is computed on every call and never stored.
func (e *Entry) Slug() string {
	return Slugify(e.Title)
}

// TagIDs returns the IDs of the entry's current tags.
func (e *Entry) TagIDs() []uint {
	ids := make([]uint, 0, len(e.Tags))
	for _, t := range e.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// BelongsTo reports whether userID owns the entry.
func (e *Entry) BelongsTo(userID string) bool {
	return userID != "" && e.AuthorID == userID
}
