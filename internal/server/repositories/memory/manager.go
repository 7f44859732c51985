// Package memory implements the repositories in process memory. It backs
// service and HTTP tests; transactions are not isolated.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/resettokens"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
)

type storedNote struct {
	note models.Note
	seq  int
}

// RepositoryManager shares one in-memory dataset between all repositories
// it hands out, whatever DBTX they are bound to.
type RepositoryManager struct {
	mu       sync.Mutex
	now      func() time.Time
	users    map[string]models.User
	notes    map[string]*storedNote
	consumed map[string]models.ConsumedResetToken
	seq      int
}

func NewRepositoryManager() *RepositoryManager {
	return &RepositoryManager{
		now:      time.Now,
		users:    make(map[string]models.User),
		notes:    make(map[string]*storedNote),
		consumed: make(map[string]models.ConsumedResetToken),
	}
}

func (m *RepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *RepositoryManager) Users(dbx.DBTX) users.Repository {
	return userRepo{m}
}

func (m *RepositoryManager) Notes(dbx.DBTX) notes.Repository {
	return noteRepo{m}
}

func (m *RepositoryManager) ResetTokens(dbx.DBTX) resettokens.Repository {
	return resetTokenRepo{m}
}

// ConsumedCount reports how many reset-token markers are stored.
func (m *RepositoryManager) ConsumedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.consumed)
}

type userRepo struct{ m *RepositoryManager }

func (r userRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, u := range r.m.users {
		if u.Email == user.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	now := r.m.now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.m.users[user.ID] = *user
	return user, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, u := range r.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	u, ok := r.m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r userRepo) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	u, ok := r.m.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = r.m.now()
	r.m.users[id] = u
	return nil
}

type noteRepo struct{ m *RepositoryManager }

func (r noteRepo) Create(_ context.Context, note *models.Note) (*models.Note, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	now := r.m.now()
	note.CreatedAt, note.UpdatedAt = now, now
	r.m.seq++
	r.m.notes[note.ID] = &storedNote{note: *note, seq: r.m.seq}
	return note, nil
}

func (r noteRepo) GetByID(_ context.Context, id string) (*models.Note, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	s, ok := r.m.notes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	n := s.note
	return &n, nil
}

func (r noteRepo) List(_ context.Context, userID string, filter models.NoteFilter) ([]*models.Note, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	search := strings.ToLower(filter.Search)
	matched := make([]*storedNote, 0)
	for _, s := range r.m.notes {
		if s.note.UserID != userID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(s.note.Title), search) &&
			!strings.Contains(strings.ToLower(s.note.Content), search) {
			continue
		}
		if filter.Category != "" && (s.note.Category == nil || *s.note.Category != filter.Category) {
			continue
		}
		matched = append(matched, s)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].note.UpdatedAt.Equal(matched[j].note.UpdatedAt) {
			return matched[i].note.UpdatedAt.After(matched[j].note.UpdatedAt)
		}
		return matched[i].seq > matched[j].seq
	})

	result := make([]*models.Note, 0, len(matched))
	for _, s := range matched {
		n := s.note
		result = append(result, &n)
	}
	return result, nil
}

func (r noteRepo) Update(_ context.Context, note *models.Note) (*models.Note, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	s, ok := r.m.notes[note.ID]
	if !ok || s.note.UserID != note.UserID {
		return nil, common.ErrorNotFound
	}
	note.CreatedAt = s.note.CreatedAt
	note.UpdatedAt = r.m.now()
	r.m.seq++
	r.m.notes[note.ID] = &storedNote{note: *note, seq: r.m.seq}
	return note, nil
}

func (r noteRepo) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.notes[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.notes, id)
	return nil
}

func (r noteRepo) Categories(_ context.Context, userID string) ([]string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	set := make(map[string]struct{})
	for _, s := range r.m.notes {
		if s.note.UserID == userID && s.note.Category != nil && *s.note.Category != "" {
			set[*s.note.Category] = struct{}{}
		}
	}
	result := make([]string, 0, len(set))
	for c := range set {
		result = append(result, c)
	}
	sort.Strings(result)
	return result, nil
}

type resetTokenRepo struct{ m *RepositoryManager }

func (r resetTokenRepo) Consume(_ context.Context, token *models.ConsumedResetToken) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.consumed[token.ID]; ok {
		return common.ErrTokenAlreadyUsed
	}
	t := *token
	t.ConsumedAt = r.m.now()
	r.m.consumed[token.ID] = t
	return nil
}

func (r resetTokenRepo) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var n int64
	for id, t := range r.m.consumed {
		if t.ExpiresAt.Before(now) {
			delete(r.m.consumed, id)
			n++
		}
	}
	return n, nil
}
