package transport

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RecordedMessage is one would-be send captured by the console mailer.
type RecordedMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
	At      time.Time
}

// ConsoleMailer performs no network I/O. Each send is logged and kept in
// memory so dev runs and tests can inspect what would have gone out.
type ConsoleMailer struct {
	log *zap.Logger

	mu   sync.Mutex
	sent []RecordedMessage
}

func NewConsoleMailer(log *zap.Logger) *ConsoleMailer {
	return &ConsoleMailer{log: log}
}

func (c *ConsoleMailer) Mode() Mode { return ModeConsole }

func (c *ConsoleMailer) Send(to, subject, html, text string) error {
	c.mu.Lock()
	c.sent = append(c.sent, RecordedMessage{
		To:      to,
		Subject: subject,
		HTML:    html,
		Text:    text,
		At:      time.Now().UTC(),
	})
	c.mu.Unlock()

	c.log.Info("console mail",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("text_bytes", len(text)),
	)
	return nil
}

func (c *ConsoleMailer) Healthy(context.Context) bool { return true }

// Sent returns a copy of every message recorded so far.
func (c *ConsoleMailer) Sent() []RecordedMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]RecordedMessage, len(c.sent))
	copy(out, c.sent)
	return out
}
