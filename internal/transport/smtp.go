package transport

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"VowMail/internal/config"
)

// healthProbeTTL bounds how often Healthy actually dials the server; the
// admin UI polls faster than an SMTP server wants to be knocked on.
const healthProbeTTL = 30 * time.Second

// SMTPMailer submits messages through an authenticated SMTP account. The
// dialer lives for the whole process; gomail opens a connection per
// DialAndSend, which is fine at wedding-guest-list volume.
type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
	log      *zap.Logger

	mu          sync.Mutex
	lastProbe   time.Time
	lastHealthy bool
}

func NewSMTPMailer(cfg *config.Config, log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:     cfg.SMTPFrom,
		fromName: cfg.SMTPFromName,
		log:      log,
	}
}

func (s *SMTPMailer) Mode() Mode { return ModeSMTP }

func (s *SMTPMailer) Send(to, subject, html, text string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		return &Error{Err: err}
	}

	s.log.Info("email submitted",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

// Healthy dials the server (with a short exponential-backoff retry to ride
// out blips) and caches the verdict for healthProbeTTL.
func (s *SMTPMailer) Healthy(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Since(s.lastProbe) < healthProbeTTL {
		return s.lastHealthy
	}

	probe := func() error {
		closer, err := s.dialer.Dial()
		if err != nil {
			return err
		}
		return closer.Close()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 5 * time.Second

	err := backoff.Retry(probe, backoff.WithContext(b, ctx))
	if err != nil {
		s.log.Warn("smtp health probe failed", zap.Error(err))
	}

	s.lastProbe = time.Now()
	s.lastHealthy = err == nil
	return s.lastHealthy
}
