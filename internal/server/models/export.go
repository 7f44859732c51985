package models

import "time"

// NoteExport describes an uploaded export of a user's notes.
type NoteExport struct {
	// Key is the object-storage key of the JSON document.
	Key string `json:"-"`
	// URL is a presigned GET URL for the document.
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
	Count     int       `json:"count"`
}
