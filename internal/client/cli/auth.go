package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
)

var errPasswordMismatch = errors.New("passwords do not match")

const timeLayout = "2006-01-02 15:04"

// Register prompts for an email and password (twice) and creates an
// account. When the server returns a token the user is logged in.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		return errPasswordMismatch
	}

	res, err := a.authService.Register(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, res.Message)
	if res.AccessToken != "" {
		fmt.Fprintf(a.out, "Logged in as %s\n", res.User.Email)
	}
	return nil
}

// Login prompts for credentials and stores the resulting session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s (session valid until %s)\n",
		s.Email, s.ExpiresAt.In(time.Local).Format(timeLayout))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	msg, err := a.authService.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// ResetPassword redeems the token from a reset email. The new password is
// the six-digit code the server expects.
func (a *App) ResetPassword(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Paste the token from the reset link", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter new password (6 digits)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	msg, err := a.authService.ResetPassword(ctx, token, password)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Me(ctx context.Context) error {
	u, err := a.authService.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "ID:      %s\nEmail:   %s\nCreated: %s\n",
		u.ID, u.Email, u.CreatedAt.In(time.Local).Format(timeLayout))
	return nil
}
