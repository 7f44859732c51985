package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
)

const maxResponseBytes = 4 << 20

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the API rooted at baseURL, for
// example http://127.0.0.1:3000/api.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url: unsupported scheme %q", u.Scheme)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type messageBody struct {
	Message string `json:"message"`
}

type errorBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// do sends one request. in, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded 2xx body.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil && eb.Message != "" {
		return NewAPIError(status, eb.Message, eb.Errors...)
	}
	return NewAPIError(status, http.StatusText(status))
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (*models.AuthResult, error) {
	var res models.AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/register", "", map[string]string{"email": email, "password": password}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	var res models.AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	var res messageBody
	if err := c.do(ctx, http.MethodPost, "/auth/forgot-password", "", map[string]string{"email": email}, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token, password string) (string, error) {
	var res messageBody
	err := c.do(ctx, http.MethodPost, "/auth/reset-password", "", map[string]string{"token": token, "password": password}, &res)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) CreateNote(ctx context.Context, token string, in models.NoteInput) (*models.Note, error) {
	var n models.Note
	if err := c.do(ctx, http.MethodPost, "/notes", token, in, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *HTTPClient) ListNotes(ctx context.Context, token string, filter models.NoteFilter) ([]*models.Note, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	path := "/notes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var list []*models.Note
	if err := c.do(ctx, http.MethodGet, path, token, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) GetNote(ctx context.Context, token, id string) (*models.Note, error) {
	var n models.Note
	if err := c.do(ctx, http.MethodGet, "/notes/"+url.PathEscape(id), token, nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *HTTPClient) UpdateNote(ctx context.Context, token, id string, patch models.NotePatch) (*models.Note, error) {
	var n models.Note
	if err := c.do(ctx, http.MethodPatch, "/notes/"+url.PathEscape(id), token, patch, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *HTTPClient) DeleteNote(ctx context.Context, token, id string) (string, error) {
	var res messageBody
	if err := c.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), token, nil, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *HTTPClient) Categories(ctx context.Context, token string) ([]string, error) {
	var cats []string
	if err := c.do(ctx, http.MethodGet, "/notes/categories", token, nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *HTTPClient) ExportNotes(ctx context.Context, token string) (*models.Export, error) {
	var e models.Export
	if err := c.do(ctx, http.MethodPost, "/notes/export", token, nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
