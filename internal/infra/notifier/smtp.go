// Package notifier implements outbound digest delivery. The production
// channel is authenticated SMTP over a mandatory STARTTLS session.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"morning-brief/internal/observability/metrics"
)

// SMTPConfig holds the outbound mail session parameters.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
	Timeout  time.Duration
}

// SMTPNotifier delivers digests as plain-text email. Each delivery dials a
// fresh authenticated session and closes it when done.
type SMTPNotifier struct {
	config SMTPConfig
}

// NewSMTPNotifier creates an SMTP notifier with the given configuration.
func NewSMTPNotifier(config SMTPConfig) *SMTPNotifier {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &SMTPNotifier{config: config}
}

// Deliver sends one message to the configured recipient. Callers treat a
// returned error as best-effort failure: logged, never retried.
func (n *SMTPNotifier) Deliver(ctx context.Context, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(n.config.From); err != nil {
		metrics.RecordDelivery(false)
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(n.config.To); err != nil {
		metrics.RecordDelivery(false)
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(n.config.Host,
		mail.WithPort(n.config.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.config.Username),
		mail.WithPassword(n.config.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(n.config.Timeout),
	)
	if err != nil {
		metrics.RecordDelivery(false)
		return fmt.Errorf("create smtp client: %w", err)
	}

	start := time.Now()
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		metrics.RecordDelivery(false)
		return fmt.Errorf("send mail: %w", err)
	}

	metrics.RecordDelivery(true)
	slog.Info("digest delivered",
		slog.String("to", n.config.To),
		slog.String("subject", subject),
		slog.Duration("duration", time.Since(start)))

	return nil
}
