package notifier

import (
	"context"

	"claims-management-api/logger"
)

// LogSender writes notifications to the log instead of delivering them.
type LogSender struct {
	log logger.Logger
}

func NewLogSender() *LogSender {
	return &LogSender{log: logger.New("LogSender")}
}

func (s *LogSender) Name() string { return "log" }

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Function("Send").Info("claim status notification",
		"to", msg.To, "subject", msg.Subject(), "body", msg.Body())
	return nil
}
