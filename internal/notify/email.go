package notify

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/jockelind/lagerkoll/internal/config"
)

// sender abstracts gomail's dialer for testing.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier implements Notifier over SMTP.
type EmailNotifier struct {
	cfg    config.SMTPConfig
	log    *slog.Logger
	sender sender
}

// EmailOption configures an EmailNotifier.
type EmailOption func(*EmailNotifier)

// WithSender overrides the SMTP dialer. Used in tests.
func WithSender(s sender) EmailOption {
	return func(n *EmailNotifier) {
		n.sender = s
	}
}

// NewEmailNotifier creates an SMTP-backed notifier.
func NewEmailNotifier(cfg config.SMTPConfig, log *slog.Logger, opts ...EmailOption) *EmailNotifier {
	n := &EmailNotifier{
		cfg: cfg,
		log: log,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.sender == nil {
		n.sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return n
}

// Send delivers one alert to all recipients in a single message. Alerts with
// no recipients are skipped silently; an unconfigured SMTP host skips with a
// warning so a misconfigured deployment is visible in the logs.
func (n *EmailNotifier) Send(_ context.Context, msg Message) error {
	if len(msg.Recipients) == 0 {
		return nil
	}
	if n.cfg.Host == "" {
		n.log.Warn("smtp host not configured, skipping notification",
			"subject", msg.Subject,
			"recipients", len(msg.Recipients),
		)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", msg.Recipients...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("sending alert email: %w", err)
	}

	n.log.Info("alert email sent",
		"subject", msg.Subject,
		"recipients", len(msg.Recipients),
	)
	return nil
}
