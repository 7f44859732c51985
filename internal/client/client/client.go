package client

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

// Client is the notekeeper server API as seen by the CLI. Protected calls
// take the session token explicitly.
type Client interface {
	Register(ctx context.Context, email, password string) (*models.AuthResult, error)
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, password string) (string, error)
	Me(ctx context.Context, token string) (*models.User, error)

	CreateNote(ctx context.Context, token string, in models.NoteInput) (*models.Note, error)
	ListNotes(ctx context.Context, token string, filter models.NoteFilter) ([]*models.Note, error)
	GetNote(ctx context.Context, token, id string) (*models.Note, error)
	UpdateNote(ctx context.Context, token, id string, patch models.NotePatch) (*models.Note, error)
	DeleteNote(ctx context.Context, token, id string) (string, error)
	Categories(ctx context.Context, token string) ([]string, error)
	ExportNotes(ctx context.Context, token string) (*models.Export, error)
}
