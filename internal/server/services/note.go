package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/storage"
	"github.com/google/uuid"
)

const (
	msgNoteNotFound  = "Note not found"
	msgNoteForbidden = "You do not have permission to access this note"
	msgNoteDeleted   = "Note deleted successfully"

	exportURLValidity = 15 * time.Minute
)

// NoteService implements note CRUD. Every operation on an existing note
// goes through loadOwned.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	logger      logging.Logger
	now         func() time.Time
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, l logging.Logger) *NoteService {
	return &NoteService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      l.With("module", "notes"),
		now:         time.Now,
	}
}

func (s *NoteService) internal(ctx context.Context, msg string, err error, args ...any) error {
	s.logger.Error(ctx, msg, append(args, "error", err)...)
	return common.NewError(common.ErrorInternal, msg)
}

// loadOwned fetches a note and checks it belongs to ownerID. A malformed id
// cannot name any note, so it is reported as not found.
func (s *NoteService) loadOwned(ctx context.Context, repo notes.Repository, id, ownerID string) (*models.Note, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NewError(common.ErrorNotFound, msgNoteNotFound)
	}

	note, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, msgNoteNotFound)
		}
		return nil, s.internal(ctx, "Failed to load note", err, "note_id", id)
	}

	if note.UserID != ownerID {
		s.logger.Warn(ctx, "note access denied", "note_id", id, "user_id", ownerID)
		return nil, common.NewError(common.ErrorForbidden, msgNoteForbidden)
	}

	return note, nil
}

func (s *NoteService) Create(ctx context.Context, ownerID string, in models.NoteInput) (*models.Note, error) {
	note, err := s.repomanager.Notes(s.db).Create(ctx, &models.Note{
		ID:       uuid.NewString(),
		Title:    in.Title,
		Content:  in.Content,
		Category: normalizeCategory(in.Category),
		UserID:   ownerID,
	})
	if err != nil {
		return nil, s.internal(ctx, "Failed to create note", err, "user_id", ownerID)
	}
	return note, nil
}

func (s *NoteService) List(ctx context.Context, ownerID string, filter models.NoteFilter) ([]*models.Note, error) {
	list, err := s.repomanager.Notes(s.db).List(ctx, ownerID, filter)
	if err != nil {
		return nil, s.internal(ctx, "Failed to list notes", err, "user_id", ownerID)
	}
	return list, nil
}

func (s *NoteService) Get(ctx context.Context, id, ownerID string) (*models.Note, error) {
	return s.loadOwned(ctx, s.repomanager.Notes(s.db), id, ownerID)
}

// Update applies only the fields present in patch.
func (s *NoteService) Update(ctx context.Context, id, ownerID string, patch models.NotePatch) (*models.Note, error) {
	repo := s.repomanager.Notes(s.db)

	note, err := s.loadOwned(ctx, repo, id, ownerID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		note.Title = *patch.Title
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}
	if patch.Category != nil {
		note.Category = normalizeCategory(patch.Category)
	}

	updated, err := repo.Update(ctx, note)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, msgNoteNotFound)
		}
		return nil, s.internal(ctx, "Failed to update note", err, "note_id", id)
	}
	return updated, nil
}

func (s *NoteService) Delete(ctx context.Context, id, ownerID string) (string, error) {
	repo := s.repomanager.Notes(s.db)

	if _, err := s.loadOwned(ctx, repo, id, ownerID); err != nil {
		return "", err
	}

	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.NewError(common.ErrorNotFound, msgNoteNotFound)
		}
		return "", s.internal(ctx, "Failed to delete note", err, "note_id", id)
	}

	s.logger.Info(ctx, "note deleted", "note_id", id, "user_id", ownerID)
	return msgNoteDeleted, nil
}

func (s *NoteService) Categories(ctx context.Context, ownerID string) ([]string, error) {
	cats, err := s.repomanager.Notes(s.db).Categories(ctx, ownerID)
	if err != nil {
		return nil, s.internal(ctx, "Failed to list categories", err, "user_id", ownerID)
	}
	return cats, nil
}

type exportDocument struct {
	ExportedAt time.Time      `json:"exportedAt"`
	UserID     string         `json:"userId"`
	Notes      []*models.Note `json:"notes"`
}

// ExportKey names the object holding one export.
func ExportKey(ownerID string, at time.Time) string {
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%s.json", ownerID, at.Year(), int(at.Month()), at.Day(), uuid.New())
}

// Export uploads all of the owner's notes as one JSON document and returns
// a short-lived download link.
func (s *NoteService) Export(ctx context.Context, ownerID string) (*models.NoteExport, error) {
	list, err := s.repomanager.Notes(s.db).List(ctx, ownerID, models.NoteFilter{})
	if err != nil {
		return nil, s.internal(ctx, "Failed to list notes", err, "user_id", ownerID)
	}

	now := s.now().UTC()
	body, err := json.Marshal(exportDocument{ExportedAt: now, UserID: ownerID, Notes: list})
	if err != nil {
		return nil, s.internal(ctx, "Failed to encode export", err)
	}

	key := ExportKey(ownerID, now)
	if err := s.store.Put(ctx, key, body, "application/json"); err != nil {
		return nil, s.internal(ctx, "Failed to upload export", err, "user_id", ownerID)
	}

	link, err := s.store.PresignGet(ctx, key, exportURLValidity)
	if err != nil {
		return nil, s.internal(ctx, "Failed to sign export link", err, "key", key)
	}

	s.logger.Info(ctx, "notes exported", "user_id", ownerID, "count", len(list), "key", key)
	return &models.NoteExport{Key: key, URL: link, ExpiresAt: now.Add(exportURLValidity), Count: len(list)}, nil
}

// normalizeCategory turns an empty category into no category.
func normalizeCategory(c *string) *string {
	if c == nil || *c == "" {
		return nil
	}
	v := *c
	return &v
}
