package notifier

import (
	"context"
	"log/slog"
)

// NoOpNotifier logs deliveries instead of sending them. It is used in
// dry-run development so the pipeline can complete without SMTP
// credentials.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier instance.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// Deliver logs the would-be message and reports success.
func (n *NoOpNotifier) Deliver(_ context.Context, subject, body string) error {
	slog.Info("dry-run delivery",
		slog.String("subject", subject),
		slog.Int("body_length", len(body)))
	return nil
}
