package services

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

// NoteService exposes the server's note operations to the CLI. Every call
// requires a live session.
type NoteService interface {
	Create(ctx context.Context, in models.NoteInput) (*models.Note, error)
	List(ctx context.Context, filter models.NoteFilter) ([]*models.Note, error)
	Get(ctx context.Context, id string) (*models.Note, error)
	Update(ctx context.Context, id string, patch models.NotePatch) (*models.Note, error)
	Delete(ctx context.Context, id string) (string, error)
	Categories(ctx context.Context) ([]string, error)
	Export(ctx context.Context) (*models.Export, error)
}

type noteService struct {
	client client.Client
	auth   AuthService
}

func NewNoteService(c client.Client, auth AuthService) NoteService {
	return &noteService{client: c, auth: auth}
}

func (s *noteService) Create(ctx context.Context, in models.NoteInput) (n *models.Note, err error) {
	err = withSession(ctx, s.auth, func(token string) error {
		n, err = s.client.CreateNote(ctx, token, in)
		return err
	})
	return n, err
}

func (s *noteService) List(ctx context.Context, filter models.NoteFilter) (list []*models.Note, err error) {
	err = withSession(ctx, s.auth, func(token string) error {
		list, err = s.client.ListNotes(ctx, token, filter)
		return err
	})
	return list, err
}

func (s *noteService) Get(ctx context.Context, id string) (n *models.Note, err error) {
	err = withSession(ctx, s.auth, func(token string) error {
		n, err = s.client.GetNote(ctx, token, id)
		return err
	})
	return n, err
}

func (s *noteService) Update(ctx context.Context, id string, patch models.NotePatch) (n *models.Note, err error) {
	err = withSession(ctx, s.auth, func(token string) error {
		n, err = s.client.UpdateNote(ctx, token, id, patch)
		return err
	})
	return n, err
}

func (s *noteService) Delete(ctx context.Context, id string) (msg string, err error) {
	err = withSession(ctx, s.auth, func(token string) error {
		msg, err = s.client.DeleteNote(ctx, token, id)
		return err
	})
	return msg, err
}

func (s *noteService) Categories(ctx context.Context) (cats []string, err error) {
	err = withSession(ctx, s.auth, func(token string) error {
		cats, err = s.client.Categories(ctx, token)
		return err
	})
	return cats, err
}

func (s *noteService) Export(ctx context.Context) (e *models.Export, err error) {
	err = withSession(ctx, s.auth, func(token string) error {
		e, err = s.client.ExportNotes(ctx, token)
		return err
	})
	return e, err
}
