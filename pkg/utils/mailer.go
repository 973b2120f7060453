package utils

import (
	"go.uber.org/zap"
)

// Mailer delivers outbound mail. Delivery itself lives outside this
// service; LogMailer records what would have been sent.
type Mailer interface {
	Send(to, subject, body string) error
}

type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log.With(zap.String("mailer", "log"))}
}

func (m *LogMailer) Send(to, subject, body string) error {
	m.log.Info("Outbound email",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)),
	)
	return nil
}
