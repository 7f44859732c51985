// Package auth issues and verifies the signed tokens used for sessions and
// password resets, and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PurposePasswordReset marks a token that may only be redeemed by the
// reset-password operation. Session tokens carry no purpose.
const PurposePasswordReset = "password-reset"

// ResetTokenTTL is the lifetime of a password-reset token. The reset email
// promises it, so it is not configurable.
const ResetTokenTTL = time.Hour

// Claims is the token payload. Subject holds the user id and ID the jti.
type Claims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Purpose string `json:"type,omitempty"`
}

type Option func(*TokenManager)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) { m.now = now }
}

// TokenManager signs and verifies HS256 tokens with a single shared secret.
type TokenManager struct {
	secret     []byte
	sessionTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(secret string, sessionTTL time.Duration, opts ...Option) *TokenManager {
	m := &TokenManager{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// IssueSession returns a bearer token for the user and its expiry.
func (m *TokenManager) IssueSession(userID, email string) (string, time.Time, error) {
	return m.issue(userID, email, "", m.sessionTTL)
}

// IssueReset returns a single-purpose password-reset token and its expiry.
func (m *TokenManager) IssueReset(userID, email string) (string, time.Time, error) {
	return m.issue(userID, email, PurposePasswordReset, ResetTokenTTL)
}

func (m *TokenManager) issue(userID, email, purpose string, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	exp := jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: exp,
			ID:        uuid.NewString(),
		},
		Email:   email,
		Purpose: purpose,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp.Time, nil
}

// Verify validates a session token. Reset tokens are refused here so they
// cannot be used as bearer credentials.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != "" {
		return nil, common.ErrWrongTokenPurpose
	}
	return claims, nil
}

// VerifyPasswordReset validates a token issued by IssueReset.
func (m *TokenManager) VerifyPasswordReset(tokenString string) (*Claims, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != PurposePasswordReset {
		return nil, common.ErrWrongTokenPurpose
	}
	if claims.ID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

func (m *TokenManager) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
