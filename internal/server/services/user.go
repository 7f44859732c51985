// Package services contains server-side business logic. This file implements
// UserService: registration, login, password reset and profile lookup.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/notify"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	msgRegistered            = "Registration successful"
	msgRegisteredWithoutAuth = "Registration successful, but token generation failed. Please login."
	msgForgotPassword        = "If your email exists in our system, you will receive a password reset link."
	msgPasswordReset         = "Password reset successful. Please login with your new password."

	msgEmailInUse        = "Email already in use"
	msgInvalidLogin      = "invalid email or password"
	msgInvalidResetToken = "invalid or expired token"
	msgWrongResetToken   = "invalid token"
	msgResetTokenUsed    = "token already used"
	msgUserNotFound      = "User not found"
	msgPasswordTooLong   = "password must be shorter than or equal to 72 bytes"
)

// Tokens issues and checks the signed tokens UserService hands out.
// *auth.TokenManager implements it.
type Tokens interface {
	IssueSession(userID, email string) (string, time.Time, error)
	IssueReset(userID, email string) (string, time.Time, error)
	VerifyPasswordReset(token string) (*auth.Claims, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// AuthResult is returned by Register and Login. AccessToken is empty when
// registration succeeded but the token could not be signed.
type AuthResult struct {
	Message     string
	AccessToken string
	ExpiresAt   time.Time
	User        *models.User
}

type UserService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	tokens       Tokens
	hasher       PasswordHasher
	sender       notify.Sender
	logger       logging.Logger
	resetURLBase string
	now          func() time.Time

	// dummyHash is compared against when the email is unknown so a failed
	// login costs the same either way.
	dummyHash string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens Tokens, hasher PasswordHasher,
	sender notify.Sender, l logging.Logger, resetURLBase string) *UserService {

	s := &UserService{
		db:           db,
		repomanager:  m,
		tokens:       tokens,
		hasher:       hasher,
		sender:       sender,
		logger:       l.With("module", "users"),
		resetURLBase: resetURLBase,
		now:          time.Now,
	}
	if pw, err := common.MakeRandHexString(16); err == nil {
		s.dummyHash, _ = hasher.Hash(pw)
	}
	return s
}

func (s *UserService) internal(ctx context.Context, msg string, err error, args ...any) error {
	s.logger.Error(ctx, msg, append(args, "error", err)...)
	return common.NewError(common.ErrorInternal, msg)
}

// Register creates a user and signs a session token for it.
func (s *UserService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.NewError(common.ErrorAlreadyExists, msgEmailInUse)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, s.internal(ctx, "Database error occurred", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, common.NewError(common.ErrorValidation, msgPasswordTooLong)
		}
		return nil, s.internal(ctx, "Error processing password", err)
	}

	user, err := repo.Create(ctx, &models.User{ID: uuid.NewString(), Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewError(common.ErrorAlreadyExists, msgEmailInUse)
		}
		return nil, s.internal(ctx, "Failed to create user", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)

	token, exp, err := s.tokens.IssueSession(user.ID, user.Email)
	if err != nil {
		s.logger.Error(ctx, "session token signing failed after registration", "user_id", user.ID, "error", err)
		return &AuthResult{Message: msgRegisteredWithoutAuth, User: user}, nil
	}

	return &AuthResult{Message: msgRegistered, AccessToken: token, ExpiresAt: exp, User: user}, nil
}

// Login checks credentials. Unknown email and wrong password fail identically.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = s.hasher.Compare(s.dummyHash, password)
			return nil, common.NewError(common.ErrorUnauthorized, msgInvalidLogin)
		}
		return nil, s.internal(ctx, "Database error occurred", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, common.NewError(common.ErrorUnauthorized, msgInvalidLogin)
	}

	token, exp, err := s.tokens.IssueSession(user.ID, user.Email)
	if err != nil {
		return nil, s.internal(ctx, "Failed to generate authentication token", err, "user_id", user.ID)
	}

	return &AuthResult{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

// ForgotPassword mails a reset link when the email is known. The returned
// message does not reveal whether it was.
func (s *UserService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "password reset requested for unknown email")
			return msgForgotPassword, nil
		}
		return "", s.internal(ctx, "Database error occurred", err)
	}

	token, _, err := s.tokens.IssueReset(user.ID, user.Email)
	if err != nil {
		return "", s.internal(ctx, "Failed to generate reset token", err, "user_id", user.ID)
	}

	link, err := resetLink(s.resetURLBase, token)
	if err != nil {
		return "", s.internal(ctx, "Failed to build reset link", err)
	}

	if err := s.sender.SendPasswordReset(ctx, user.Email, link); err != nil {
		return "", s.internal(ctx, "Failed to send password reset email", err, "user_id", user.ID)
	}

	s.logger.Info(ctx, "password reset link sent", "user_id", user.ID)
	return msgForgotPassword, nil
}

func resetLink(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse reset url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ResetPassword redeems a reset token once and replaces the user's password.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	claims, err := s.tokens.VerifyPasswordReset(token)
	if err != nil {
		if errors.Is(err, common.ErrWrongTokenPurpose) {
			s.logger.Warn(ctx, "reset attempted with a token of another purpose")
			return "", common.NewError(common.ErrorUnauthorized, msgWrongResetToken)
		}
		s.logger.Warn(ctx, "reset attempted with an invalid token", "error", err)
		return "", common.NewError(common.ErrorUnauthorized, msgInvalidResetToken)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.NewError(common.ErrorNotFound, msgUserNotFound)
		}
		return "", s.internal(ctx, "Database error occurred", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return "", s.internal(ctx, "Error processing password", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tokens := s.repomanager.ResetTokens(tx)
		if n, err := tokens.PurgeExpired(ctx, s.now()); err != nil {
			return err
		} else if n > 0 {
			s.logger.Debug(ctx, "purged expired reset token markers", "count", n)
		}

		if err := tokens.Consume(ctx, &models.ConsumedResetToken{
			ID:        claims.ID,
			UserID:    user.ID,
			ExpiresAt: claims.ExpiresAt.Time,
		}); err != nil {
			return err
		}

		return s.repomanager.Users(tx).UpdatePassword(ctx, user.ID, hash)
	})
	if err != nil {
		if errors.Is(err, common.ErrTokenAlreadyUsed) {
			s.logger.Warn(ctx, "reset token reused", "user_id", user.ID)
			return "", common.NewError(common.ErrorUnauthorized, msgResetTokenUsed)
		}
		return "", s.internal(ctx, "Failed to update password", err, "user_id", user.ID)
	}

	s.logger.Info(ctx, "password reset", "user_id", user.ID)
	return msgPasswordReset, nil
}

// GetProfile returns the user identified by a verified session token.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, msgUserNotFound)
		}
		return nil, s.internal(ctx, "Database error occurred", err)
	}
	return user, nil
}
