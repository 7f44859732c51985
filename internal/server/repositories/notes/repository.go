package notes

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	GetByID(ctx context.Context, id string) (*models.Note, error)
	// List returns the owner's notes matching filter, most recently updated first.
	List(ctx context.Context, userID string, filter models.NoteFilter) ([]*models.Note, error)
	// Update persists title, content and category of a note owned by note.UserID.
	Update(ctx context.Context, note *models.Note) (*models.Note, error)
	Delete(ctx context.Context, id string) error
	// Categories returns the distinct non-empty categories of the owner's notes, sorted.
	Categories(ctx context.Context, userID string) ([]string, error)
}
