package models

import "time"

// ConsumedResetToken marks a password-reset token (by its jti) as used.
// The row is only needed until the token would have expired anyway.
type ConsumedResetToken struct {
	ID         string
	UserID     string
	ExpiresAt  time.Time
	ConsumedAt time.Time
}
