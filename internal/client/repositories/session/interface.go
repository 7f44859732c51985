// Package session persists the CLI's login session in the local database.
package session

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

// Repository stores at most one session. Get returns (nil, nil) when
// nobody is logged in.
type Repository interface {
	Get(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error
}
