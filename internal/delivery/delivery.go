// Package delivery sends the rendered digest to the recipient list through
// whichever mail transport is configured, preferring the SendGrid API over
// direct SMTP.
package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sneurgaonkar/sales-ai-agents/internal/config"
)

type transport interface {
	Send(ctx context.Context, recipients []string, subject, html string) error
}

// Dispatcher picks the delivery transport for a run. With neither transport
// configured, Deliver reports false and the caller points at the on-disk
// snapshot instead.
type Dispatcher struct {
	api        transport
	smtp       transport
	recipients []string
	logger     *slog.Logger
}

func NewDispatcher(cfg config.Config, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{recipients: cfg.Recipients, logger: logger}
	if cfg.SendGridAPIKey != "" {
		d.api = NewSendGrid(cfg.SendGridAPIKey, cfg.FromEmail)
	}
	if cfg.SMTPHost != "" {
		d.smtp = NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	}
	return d
}

// Deliver sends the digest and reports whether a transport actually sent
// it. A send failure is returned as an error; the caller treats it as fatal
// since the digest was already snapshotted.
func (d *Dispatcher) Deliver(ctx context.Context, html string, now time.Time) (bool, error) {
	subject := "📧 Daily Follow-up Digest - " + now.Format("January 02, 2006")

	switch {
	case d.api != nil:
		if err := d.api.Send(ctx, d.recipients, subject, html); err != nil {
			return false, fmt.Errorf("sendgrid delivery: %w", err)
		}
		d.logger.Info("digest sent", "transport", "sendgrid", "to", strings.Join(d.recipients, ", "))
		return true, nil
	case d.smtp != nil:
		if err := d.smtp.Send(ctx, d.recipients, subject, html); err != nil {
			return false, fmt.Errorf("smtp delivery: %w", err)
		}
		d.logger.Info("digest sent", "transport", "smtp", "to", strings.Join(d.recipients, ", "))
		return true, nil
	default:
		return false, nil
	}
}
