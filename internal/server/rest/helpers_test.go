package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/memory"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testOrigin = "http://localhost:5173"

type captureSender struct {
	mu    sync.Mutex
	links []string
}

func (c *captureSender) SendPasswordReset(_ context.Context, _, link string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links = append(c.links, link)
	return nil
}

func (c *captureSender) lastToken(t *testing.T) string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.links)
	u, err := url.Parse(c.links[len(c.links)-1])
	require.NoError(t, err)
	return u.Query().Get("token")
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memStore) Put(_ context.Context, key string, body []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = body
	return nil
}

func (m *memStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.test/notes/" + key + "?X-Amz-Signature=x", nil
}

type fixture struct {
	handler http.Handler
	server  *Server
	tokens  *auth.TokenManager
	sender  *captureSender
	store   *memStore
	mock    sqlmock.Sqlmock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := memory.NewRepositoryManager()
	tokens := auth.NewTokenManager("rest-test-secret", 7*24*time.Hour)
	sender := &captureSender{}
	store := &memStore{objects: map[string][]byte{}}

	users := services.NewUserService(db, repos, tokens, auth.NewBcryptHasher(bcrypt.MinCost), sender,
		logging.Discard(), testOrigin+"/reset-password")
	notes := services.NewNoteService(db, repos, store, logging.Discard())

	srv := NewServer("127.0.0.1:0", testOrigin, users, notes, tokens, logging.Discard())
	return &fixture{
		handler: srv.Handler(),
		server:  srv,
		tokens:  tokens,
		sender:  sender,
		store:   store,
		mock:    mock,
	}
}

type reply struct {
	Code int
	Body []byte
	Hdr  http.Header
}

func (r reply) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, v), string(r.Body))
}

func (r reply) errorBody(t *testing.T) errorResponse {
	t.Helper()
	var e errorResponse
	r.decode(t, &e)
	return e
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) reply {
	t.Helper()

	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return reply{Code: rec.Code, Body: rec.Body.Bytes(), Hdr: rec.Header()}
}

type authReply struct {
	Message     string     `json:"message"`
	AccessToken string     `json:"accessToken"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (f *fixture) register(t *testing.T, email, password string) authReply {
	t.Helper()
	res := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	var out authReply
	res.decode(t, &out)
	require.NotEmpty(t, out.AccessToken)
	return out
}

type noteReply struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  *string   `json:"category"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (f *fixture) createNote(t *testing.T, token string, body map[string]any) noteReply {
	t.Helper()
	res := f.do(t, http.MethodPost, "/api/notes", token, body)
	require.Equal(t, http.StatusCreated, res.Code, string(res.Body))
	var n noteReply
	res.decode(t, &n)
	return n
}
