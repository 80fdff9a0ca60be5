package email

import (
	"context"
	"log/slog"
)

// LogSender writes messages to the log instead of delivering them. Used
// when no mail transport is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email (log transport)", "to", msg.To, "subject", msg.Subject, "tag", msg.Tag, "body", msg.TextBody)
	return nil
}
