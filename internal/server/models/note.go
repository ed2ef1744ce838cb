package models

import (
	"io"
	"time"
)

// Note is a user-owned text note with an optional attachment.
// UserID is set at creation and never changes.
type Note struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Tags          []string  `json:"tags"`
	IsPinned      bool      `json:"isPinned"`
	UserID        string    `json:"userId"`
	CreatedOn     time.Time `json:"createdOn"`
	FileURL       string    `json:"fileUrl,omitempty"`
	FileExtension string    `json:"fileExtension,omitempty"`

	// FileKey locates the attachment in the blob store.
	FileKey string `json:"-"`
}

// NoteUpdate carries the fields of a partial edit. Nil means "keep".
type NoteUpdate struct {
	Title    *string
	Content  *string
	Tags     []string
	IsPinned *bool
}

// Empty reports whether the update would change nothing. Empty strings for
// title or content count as not supplied; a non-nil Tags slice, even an
// empty one, is a change.
func (u NoteUpdate) Empty() bool {
	return (u.Title == nil || *u.Title == "") &&
		(u.Content == nil || *u.Content == "") &&
		u.Tags == nil &&
		u.IsPinned == nil
}

// Normalize drops empty title and content so they keep their stored values.
func (u NoteUpdate) Normalize() NoteUpdate {
	if u.Title != nil && *u.Title == "" {
		u.Title = nil
	}
	if u.Content != nil && *u.Content == "" {
		u.Content = nil
	}
	return u
}

// Attachment is an uploaded file waiting to be stored with a new note.
type Attachment struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}
