// Package dto はentriesフィーチャーのHTTPリクエスト/レスポンスを定義します。
package dto

import "time"

// EntryReq is the body of POST /entries and PUT /entries/:id.
// Field rules are enforced by the usecase so that failures come back as 422 with field errors.
type EntryReq struct {
	ID             uint   `json:"id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	Tags           string `json:"tags"`
	SelectedTagIDs []uint `json:"selected_tag_ids"`
}

type TagRes struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type EntryRes struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	AuthorID  string    `json:"author_id"`
	Tags      []TagRes  `json:"tags"`
}

type NotificationRes struct {
	Message string `json:"message"`
	Title   string `json:"title"`
	Type    string `json:"type"`
}

// FormRes echoes the submitted or loaded form.
type FormRes struct {
	ID             uint   `json:"id,omitempty"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	Tags           string `json:"tags"`
	SelectedTagIDs []uint `json:"selected_tag_ids"`
}

// ResultRes is the envelope returned by every entries endpoint.
type ResultRes struct {
	Outcome        string            `json:"outcome"`
	Notification   NotificationRes   `json:"notification"`
	Entries        []EntryRes        `json:"entries,omitempty"`
	Entry          *EntryRes         `json:"entry,omitempty"`
	Form           *FormRes          `json:"form,omitempty"`
	FieldErrors    map[string]string `json:"field_errors,omitempty"`
	AvailableTags  []TagRes          `json:"available_tags,omitempty"`
	TagCatalog     []TagRes          `json:"tag_catalog,omitempty"`
	SelectedTagIDs []uint            `json:"selected_tag_ids,omitempty"`
	RedirectTo     string            `json:"redirect_to,omitempty"`
}
