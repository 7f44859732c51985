package notify

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

// LogSender writes reset links to the log instead of mailing them. It is
// selected when no SMTP host is configured and is meant for development.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(l logging.Logger) *LogSender {
	return &LogSender{logger: l}
}

func (s *LogSender) SendPasswordReset(ctx context.Context, to, link string) error {
	s.logger.Info(ctx, "password reset link (mail disabled)", "to", to, "link", link)
	return nil
}
