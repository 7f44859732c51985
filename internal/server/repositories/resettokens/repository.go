// Package resettokens records which password-reset tokens have already been
// redeemed, so a token cannot be replayed within its lifetime.
package resettokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type Repository interface {
	// Consume records token.ID as used. A token already recorded yields
	// common.ErrTokenAlreadyUsed.
	Consume(ctx context.Context, token *models.ConsumedResetToken) error

	// PurgeExpired deletes markers whose token expired before now and returns
	// how many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
