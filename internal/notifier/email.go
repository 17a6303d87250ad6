package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/amishk599/boardwatch/internal/config"
	"github.com/amishk599/boardwatch/internal/model"
)

var _ model.Notifier = (*EmailNotifier)(nil)

// EmailNotifier sends the digest as a multipart HTML/plain-text email over
// SMTP submission with mandatory STARTTLS.
type EmailNotifier struct {
	boardName string
	cfg       config.EmailConfig
	logger    *slog.Logger
}

// NewEmailNotifier returns a notifier that mails one digest per run.
func NewEmailNotifier(boardName string, cfg config.EmailConfig, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{boardName: boardName, cfg: cfg, logger: logger}
}

// Notify sends a single message listing every posting. An empty slice sends
// nothing.
func (e *EmailNotifier) Notify(ctx context.Context, postings []model.Posting) error {
	if len(postings) == 0 {
		return nil
	}

	msg, err := e.buildMessage(BuildDigest(e.boardName, postings))
	if err != nil {
		return &model.NotifyError{Transport: "email", Err: err}
	}

	client, err := e.newClient()
	if err != nil {
		return &model.NotifyError{Transport: "email", Err: err}
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return &model.NotifyError{Transport: "email", Err: fmt.Errorf("send via %s:%d: %w", e.cfg.Host, e.cfg.Port, err)}
	}

	e.logger.Info("email digest sent", "postings", len(postings), "recipients", len(e.cfg.To))
	return nil
}

func (e *EmailNotifier) buildMessage(d Digest) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(e.cfg.FromName, e.cfg.From); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := m.To(e.cfg.To...); err != nil {
		return nil, fmt.Errorf("recipients: %w", err)
	}
	m.Subject(d.Subject)
	m.SetDate()
	m.SetBodyString(mail.TypeTextHTML, d.HTML)
	m.AddAlternativeString(mail.TypeTextPlain, d.Text)
	return m, nil
}

func (e *EmailNotifier) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(e.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(e.cfg.Timeout),
	}
	if e.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(e.cfg.Username),
			mail.WithPassword(e.cfg.Password),
		)
	}
	client, err := mail.NewClient(e.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return client, nil
}
