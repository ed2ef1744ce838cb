// Package models holds the client-side view of notekeeper API objects.
package models

import "time"

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
}

// HasAttachment reports whether the note carries an uploaded file.
func (n *Note) HasAttachment() bool {
	return n.FileURL != ""
}

type User struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedOn time.Time `json:"createdOn"`
}

// NoteDraft is the input of a new note.
type NoteDraft struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// NoteEdit is a partial update; nil fields are left unchanged.
type NoteEdit struct {
	Title    *string  `json:"title,omitempty"`
	Content  *string  `json:"content,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	IsPinned *bool    `json:"isPinned,omitempty"`
}
