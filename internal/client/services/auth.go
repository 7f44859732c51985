// Package services contains application services for the notekeeper client.
// This file defines the authentication service: register, login, logout,
// password reset, and the locally persisted session with its expiry.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/session"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register / Login: authenticate against the server and persist the
//     returned session token with its expiry.
//   - Session: return the stored session, or ErrNotLoggedIn /
//     ErrSessionExpired. An expired session is deleted without contacting
//     the server.
//   - Logout: delete the stored session. The server keeps no session state.
//   - ForgotPassword / ResetPassword: the password reset round trip.
//   - Profile: fetch the current user from the server.
type AuthService interface {
	Register(ctx context.Context, email string, password []byte) (*models.AuthResult, error)
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*models.Session, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token string, password []byte) (string, error)
	Profile(ctx context.Context) (*models.User, error)
}

type authService struct {
	client   client.Client
	sessions session.Repository
	now      func() time.Time
}

func NewAuthService(c client.Client, sessions session.Repository) AuthService {
	return &authService{client: c, sessions: sessions, now: time.Now}
}

func (a *authService) save(ctx context.Context, res *models.AuthResult) (*models.Session, error) {
	s := &models.Session{
		UserID:    res.User.ID,
		Email:     res.User.Email,
		Token:     res.AccessToken,
		ExpiresAt: res.ExpiresAt,
		CreatedAt: a.now(),
	}
	if err := a.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return s, nil
}

// Register creates an account. When the server also returned a token the
// caller is logged in right away; otherwise they have to log in.
func (a *authService) Register(ctx context.Context, email string, password []byte) (*models.AuthResult, error) {
	res, err := a.client.Register(ctx, email, string(password))
	if err != nil {
		return nil, err
	}

	if res.AccessToken != "" {
		if _, err := a.save(ctx, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	res, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	return a.save(ctx, res)
}

func (a *authService) Logout(ctx context.Context) error {
	return a.sessions.Clear(ctx)
}

func (a *authService) Session(ctx context.Context) (*models.Session, error) {
	s, err := a.sessions.Get(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNotLoggedIn
	}
	if s.Expired(a.now()) {
		if err := a.sessions.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}
	return s, nil
}

func (a *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	return a.client.ForgotPassword(ctx, email)
}

func (a *authService) ResetPassword(ctx context.Context, token string, password []byte) (string, error) {
	return a.client.ResetPassword(ctx, token, string(password))
}

func (a *authService) Profile(ctx context.Context) (*models.User, error) {
	var u *models.User
	err := withSession(ctx, a, func(token string) error {
		var err error
		u, err = a.client.Me(ctx, token)
		return err
	})
	return u, err
}

// withSession runs fn with the current session token. A token the server
// rejects is dropped the same way as one that expired locally.
func withSession(ctx context.Context, auth AuthService, fn func(token string) error) error {
	s, err := auth.Session(ctx)
	if err != nil {
		return err
	}

	err = fn(s.Token)
	if errors.Is(err, client.ErrUnauthorized) {
		if lerr := auth.Logout(ctx); lerr != nil {
			return lerr
		}
		return ErrSessionExpired
	}
	return err
}
