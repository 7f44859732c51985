package services

import "errors"

var (
	// ErrNotLoggedIn is returned by protected operations when no session
	// is stored.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrSessionExpired is returned when the stored session has passed its
	// expiry or the server rejected its token. The session is removed.
	ErrSessionExpired = errors.New("session expired, please login again")
)
