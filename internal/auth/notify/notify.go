// Package notify delivers out-of-band messages to users, such as
// password reset links and one-time login codes. The service layer
// only sees the Sender interface; deployments plug in a real mail or
// SMS gateway behind it.
package notify

import (
	"context"
	"log/slog"
)

// Sender delivers a single message to a recipient address.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// LogSender writes messages to the structured log instead of sending
// them anywhere. It is the default in development so reset tokens and
// OTP codes can be read off the console.
type LogSender struct {
	Logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{Logger: logger}
}

func (s *LogSender) Send(ctx context.Context, recipient, subject, body string) error {
	s.Logger.InfoContext(ctx, "outbound notification",
		"recipient", recipient,
		"subject", subject,
		"body", body,
	)
	return nil
}
