package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/session"
	"github.com/stretchr/testify/require"
)

func newSessionRepo(t *testing.T) *session.SQLiteRepository {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return session.NewSQLiteRepository(db)
}

// fakeClient implements client.Client and counts calls, so tests can
// assert the server was or was not contacted.
type fakeClient struct {
	calls int

	authRes  *models.AuthResult
	authErr  error
	password string

	notes    []*models.Note
	note     *models.Note
	cats     []string
	export   *models.Export
	message  string
	err      error
	lastTok  string
	lastID   string
	lastPat  models.NotePatch
	lastFilt models.NoteFilter
}

func (f *fakeClient) Register(_ context.Context, _, password string) (*models.AuthResult, error) {
	f.calls++
	f.password = password
	return f.authRes, f.authErr
}

func (f *fakeClient) Login(_ context.Context, _, password string) (*models.AuthResult, error) {
	f.calls++
	f.password = password
	return f.authRes, f.authErr
}

func (f *fakeClient) ForgotPassword(context.Context, string) (string, error) {
	f.calls++
	return f.message, f.err
}

func (f *fakeClient) ResetPassword(_ context.Context, _, password string) (string, error) {
	f.calls++
	f.password = password
	return f.message, f.err
}

func (f *fakeClient) Me(_ context.Context, token string) (*models.User, error) {
	f.calls++
	f.lastTok = token
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: "u1", Email: "a@x.com"}, nil
}

func (f *fakeClient) CreateNote(_ context.Context, token string, _ models.NoteInput) (*models.Note, error) {
	f.calls++
	f.lastTok = token
	return f.note, f.err
}

func (f *fakeClient) ListNotes(_ context.Context, token string, filter models.NoteFilter) ([]*models.Note, error) {
	f.calls++
	f.lastTok = token
	f.lastFilt = filter
	return f.notes, f.err
}

func (f *fakeClient) GetNote(_ context.Context, token, id string) (*models.Note, error) {
	f.calls++
	f.lastTok, f.lastID = token, id
	return f.note, f.err
}

func (f *fakeClient) UpdateNote(_ context.Context, token, id string, patch models.NotePatch) (*models.Note, error) {
	f.calls++
	f.lastTok, f.lastID, f.lastPat = token, id, patch
	return f.note, f.err
}

func (f *fakeClient) DeleteNote(_ context.Context, token, id string) (string, error) {
	f.calls++
	f.lastTok, f.lastID = token, id
	return f.message, f.err
}

func (f *fakeClient) Categories(_ context.Context, token string) ([]string, error) {
	f.calls++
	f.lastTok = token
	return f.cats, f.err
}

func (f *fakeClient) ExportNotes(_ context.Context, token string) (*models.Export, error) {
	f.calls++
	f.lastTok = token
	return f.export, f.err
}

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func newAuth(t *testing.T, fc *fakeClient) (*authService, *session.SQLiteRepository, *testClock) {
	t.Helper()
	repo := newSessionRepo(t)
	clk := &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	a := NewAuthService(fc, repo).(*authService)
	a.now = clk.Now
	return a, repo, clk
}

func loginResult(clk *testClock, ttl time.Duration) *models.AuthResult {
	return &models.AuthResult{
		AccessToken: "tok-1",
		ExpiresAt:   clk.t.Add(ttl),
		User:        models.User{ID: "u1", Email: "a@x.com"},
	}
}
