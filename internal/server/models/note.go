package models

import "time"

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  *string   `json:"category"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NoteInput carries the fields of a new note. The owner always comes from
// the authenticated caller, never from here.
type NoteInput struct {
	Title    string
	Content  string
	Category *string
}

// NotePatch carries a partial update; nil fields are left untouched.
// A non-nil empty Category clears the category.
type NotePatch struct {
	Title    *string
	Content  *string
	Category *string
}

// NoteFilter narrows List. Empty fields match everything.
type NoteFilter struct {
	// Search is a case-insensitive substring of title or content.
	Search string
	// Category must match exactly.
	Category string
}
