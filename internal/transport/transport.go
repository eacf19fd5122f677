// Package transport delivers rendered emails. Mode is chosen once at startup:
// a complete SMTP account selects the real dialer, anything less falls back
// to a console mailer that records would-be sends.
package transport

import (
	"context"

	"go.uber.org/zap"

	"VowMail/internal/config"
)

type Mode string

const (
	ModeSMTP    Mode = "smtp"
	ModeConsole Mode = "console"
)

// Error marks a delivery failure. Transport failures are transient by
// definition here: connection refusals, auth rejections and submission
// errors all look the same to the queue, which retries until the attempt
// budget runs out. The transport never declares a failure permanent.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return "mail transport: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Mailer is the delivery interface the queue depends on.
type Mailer interface {
	Send(to, subject, html, text string) error
	Mode() Mode

	// Healthy reports whether the transport can currently accept mail.
	// Polled by the admin UI to gate manual send actions.
	Healthy(ctx context.Context) bool
}

// New selects the mailer for this process. The handle is constructed once
// and reused for every send; callers must not build one per message.
func New(cfg *config.Config, log *zap.Logger) Mailer {
	if cfg.SMTPConfigured() {
		return NewSMTPMailer(cfg, log)
	}
	log.Warn("smtp not configured, transport running in console mode")
	return NewConsoleMailer(log)
}
