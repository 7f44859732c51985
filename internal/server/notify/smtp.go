package notify

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/wneessen/go-mail"
)

const fromName = "Notes App"

// SMTPConfig holds the outgoing mail server settings. Username may be
// empty for servers without authentication.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPSender struct {
	from   string
	logger logging.Logger
	send   func(ctx context.Context, msgs ...*mail.Msg) error
}

func NewSMTPSender(c SMTPConfig, l logging.Logger) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithPort(c.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if c.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(c.Username),
			mail.WithPassword(c.Password),
		)
	}

	client, err := mail.NewClient(c.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail client: %w", err)
	}

	return &SMTPSender{
		from:   c.From,
		logger: l,
		send:   client.DialAndSendWithContext,
	}, nil
}

func (s *SMTPSender) SendPasswordReset(ctx context.Context, to, link string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(fromName, s.from); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	msg.Subject(resetSubject)
	msg.SetBodyString(mail.TypeTextPlain, resetBody(to, link))

	if err := s.send(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	s.logger.Info(ctx, "password reset email sent", "to", to)
	return nil
}
