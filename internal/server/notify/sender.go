// Package notify delivers password-reset links to users.
package notify

import (
	"context"
	"fmt"
	"strings"
)

// Sender delivers a password-reset link to an email address.
type Sender interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

const resetSubject = "Password Reset Request"

func resetBody(to, link string) string {
	name, _, _ := strings.Cut(to, "@")
	return fmt.Sprintf(
		"Hello %s,\n\n"+
			"We received a request to reset the password for your Notes App account.\n"+
			"Open the link below to choose a new password. It is valid for one hour.\n\n"+
			"%s\n\n"+
			"If you did not request a password reset, you can ignore this email.\n",
		name, link)
}
