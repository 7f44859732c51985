package services

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/memory"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errDB = errors.New("connection refused")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeSender struct {
	err   error
	to    []string
	links []string
}

func (f *fakeSender) SendPasswordReset(_ context.Context, to, link string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.links = append(f.links, link)
	return nil
}

func (f *fakeSender) lastToken(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.links)
	u, err := url.Parse(f.links[len(f.links)-1])
	require.NoError(t, err)
	return u.Query().Get("token")
}

// failingTokens wraps a real manager but cannot sign session tokens.
type failingTokens struct{ *auth.TokenManager }

func (failingTokens) IssueSession(string, string) (string, time.Time, error) {
	return "", time.Time{}, errors.New("sign failed")
}

// brokenManager returns repositories whose every call fails.
type brokenManager struct{ *memory.RepositoryManager }

func (brokenManager) Users(dbx.DBTX) users.Repository { return brokenUsers{} }
func (brokenManager) Notes(dbx.DBTX) notes.Repository { return brokenNotes{} }

type brokenUsers struct{}

func (brokenUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, errDB }
func (brokenUsers) GetByEmail(context.Context, string) (*models.User, error) { return nil, errDB }
func (brokenUsers) GetByID(context.Context, string) (*models.User, error) { return nil, errDB }
func (brokenUsers) UpdatePassword(context.Context, string, string) error { return errDB }

type brokenNotes struct{}

func (brokenNotes) Create(context.Context, *models.Note) (*models.Note, error) { return nil, errDB }
func (brokenNotes) GetByID(context.Context, string) (*models.Note, error) { return nil, errDB }
func (brokenNotes) List(context.Context, string, models.NoteFilter) ([]*models.Note, error) {
	return nil, errDB
}
func (brokenNotes) Update(context.Context, *models.Note) (*models.Note, error) { return nil, errDB }
func (brokenNotes) Delete(context.Context, string) error { return errDB }
func (brokenNotes) Categories(context.Context, string) ([]string, error) { return nil, errDB }

type userFixture struct {
	svc    *UserService
	repos  *memory.RepositoryManager
	tokens *auth.TokenManager
	sender *fakeSender
	clock  *clock
	mock   sqlmock.Sqlmock
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	db, mock := newSQLMockDB(t)
	c := &clock{t: time.Now()}
	repos := memory.NewRepositoryManager()
	tokens := auth.NewTokenManager("test-secret", 7*24*time.Hour, auth.WithClock(c.Now))
	sender := &fakeSender{}

	svc := NewUserService(db, repos, tokens, auth.NewBcryptHasher(bcrypt.MinCost), sender,
		logging.Discard(), "http://localhost:5173/reset-password")
	svc.now = c.Now

	return &userFixture{svc: svc, repos: repos, tokens: tokens, sender: sender, clock: c, mock: mock}
}
