package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotes(t *testing.T) (NoteService, *fakeClient, *testClock) {
	t.Helper()
	fc := &fakeClient{}
	a, _, clk := newAuth(t, fc)

	fc.authRes = loginResult(clk, time.Hour)
	_, err := a.Login(context.Background(), "a@x.com", []byte("secret1"))
	require.NoError(t, err)
	fc.calls = 0

	return NewNoteService(fc, a), fc, clk
}

func TestNotes_UseSessionToken(t *testing.T) {
	svc, fc, _ := newNotes(t)
	ctx := context.Background()

	fc.note = &models.Note{ID: "n1", Title: "T"}
	fc.notes = []*models.Note{fc.note}
	fc.cats = []string{"home"}
	fc.export = &models.Export{URL: "https://s3/x", Count: 1}
	fc.message = "Note deleted successfully"

	n, err := svc.Create(ctx, models.NoteInput{Title: "T", Content: "C"})
	require.NoError(t, err)
	assert.Equal(t, "n1", n.ID)

	list, err := svc.List(ctx, models.NoteFilter{Search: "t"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "t", fc.lastFilt.Search)

	_, err = svc.Get(ctx, "n1")
	require.NoError(t, err)

	title := "T2"
	_, err = svc.Update(ctx, "n1", models.NotePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, &title, fc.lastPat.Title)

	msg, err := svc.Delete(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "Note deleted successfully", msg)

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"home"}, cats)

	e, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Count)

	assert.Equal(t, 7, fc.calls)
	assert.Equal(t, "tok-1", fc.lastTok)
}

func TestNotes_ExpiredSessionSkipsServer(t *testing.T) {
	svc, fc, clk := newNotes(t)
	clk.t = clk.t.Add(2 * time.Hour)

	_, err := svc.List(context.Background(), models.NoteFilter{})
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Zero(t, fc.calls)

	_, err = svc.List(context.Background(), models.NoteFilter{})
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestNotes_ServerErrorsPassThrough(t *testing.T) {
	svc, fc, _ := newNotes(t)
	fc.err = client.NewAPIError(403, "You do not have permission to access this note")

	_, err := svc.Get(context.Background(), "n1")
	require.Error(t, err)
	assert.Equal(t, "You do not have permission to access this note", err.Error())
	assert.ErrorIs(t, err, client.ErrForbidden)
	assert.NotErrorIs(t, err, ErrSessionExpired)
}
