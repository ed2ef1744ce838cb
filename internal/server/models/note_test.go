package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNoteUpdate_Empty(t *testing.T) {
	tests := []struct {
		name string
		u    NoteUpdate
		want bool
	}{
		{name: "nothing", u: NoteUpdate{}, want: true},
		{name: "blank strings", u: NoteUpdate{Title: ptr(""), Content: ptr("")}, want: true},
		{name: "title", u: NoteUpdate{Title: ptr("T")}, want: false},
		{name: "content", u: NoteUpdate{Content: ptr("C")}, want: false},
		{name: "empty tags clear", u: NoteUpdate{Tags: []string{}}, want: false},
		{name: "unpin", u: NoteUpdate{IsPinned: ptr(false)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.u.Empty())
		})
	}
}

func TestNoteUpdate_Normalize(t *testing.T) {
	u := NoteUpdate{Title: ptr(""), Content: ptr("new"), IsPinned: ptr(true)}.Normalize()

	assert.Nil(t, u.Title)
	require.NotNil(t, u.Content)
	assert.Equal(t, "new", *u.Content)
	assert.True(t, *u.IsPinned)
}

func TestNote_JSONShape(t *testing.T) {
	n := Note{
		ID:        "n-1",
		Title:     "T",
		Content:   "C",
		Tags:      []string{"a"},
		UserID:    "u-1",
		CreatedOn: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		FileKey:   "notes/2024/1/2/x.pdf",
	}

	b, err := json.Marshal(n)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"_id": "n-1",
		"title": "T",
		"content": "C",
		"tags": ["a"],
		"isPinned": false,
		"userId": "u-1",
		"createdOn": "2024-01-02T03:04:05Z"
	}`, string(b))
}

func TestUser_JSONHidesHash(t *testing.T) {
	b, err := json.Marshal(User{ID: "u-1", Email: "a@x.com", PasswordHash: "$2a$10$secret", Role: RoleStudent})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.Contains(t, string(b), `"role":"student"`)
}

func TestRoleFromRegistrationType(t *testing.T) {
	assert.Equal(t, RoleAdmin, RoleFromRegistrationType("admin"))
	assert.Equal(t, RoleStudent, RoleFromRegistrationType("student"))
	assert.Equal(t, RoleStudent, RoleFromRegistrationType("Admin"))
	assert.Equal(t, RoleStudent, RoleFromRegistrationType(""))
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("root").Valid())
}
