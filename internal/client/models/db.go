// Package models defines client-side data models used by the notekeeper CLI.
package models

import "time"

// Session is the locally persisted result of a successful login.
//
// ExpiresAt comes from the server alongside the token; once wall-clock time
// passes it the session is treated as logged out without asking the server.
type Session struct {
	UserID    string
	Email     string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
