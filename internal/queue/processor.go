package queue

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"VowMail/internal/directory"
	"VowMail/internal/metrics"
	"VowMail/internal/models"
	"VowMail/internal/store"
	"VowMail/internal/template"
	"VowMail/internal/transport"
)

// History view truncates long SMTP error dumps to something readable.
const maxErrorLen = 300

// Processor executes exactly one delivery attempt per call. It never loops;
// repeated attempts only happen across scheduler sweeps.
type Processor struct {
	store       store.JobStore
	dir         directory.Directory
	renderer    *template.Renderer
	mailer      transport.Mailer
	maxAttempts int
	log         *zap.Logger
}

func NewProcessor(
	st store.JobStore,
	dir directory.Directory,
	renderer *template.Renderer,
	mailer transport.Mailer,
	maxAttempts int,
	log *zap.Logger,
) *Processor {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Processor{
		store:       st,
		dir:         dir,
		renderer:    renderer,
		mailer:      mailer,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// Process runs one attempt on j and persists the outcome. The returned error
// is only for unexpected infrastructure failures (store or directory down);
// delivery outcomes, good and bad, are recorded on the job itself.
func (p *Processor) Process(ctx context.Context, j *models.EmailJob, now time.Time) error {
	j.Attempts++

	guest, err := p.dir.FindByID(ctx, j.GuestID)
	if errors.Is(err, directory.ErrGuestNotFound) {
		// Guest was deleted after the job was enqueued. Nothing a retry
		// could fix.
		return p.fail(ctx, j, "recipient not found")
	}
	if err != nil {
		return err
	}

	msg, err := p.renderer.Render(guest, j.Template)
	if err != nil {
		// Unknown template or a broken source: a config bug, not a
		// transient condition.
		return p.fail(ctx, j, err.Error())
	}

	if err := p.mailer.Send(guest.Email, msg.Subject, msg.HTML, msg.Text); err != nil {
		j.LastError = truncateError(err.Error())

		if j.Attempts >= p.maxAttempts {
			p.transition(j, models.StatusFailed)
			metrics.EmailFailures.Inc()
			p.log.Error("reminder exhausted retries",
				zap.String("job_id", j.ID),
				zap.String("guest_id", j.GuestID),
				zap.Int("attempts", j.Attempts),
				zap.Error(err),
			)
		} else {
			p.transition(j, models.StatusRetrying)
			metrics.EmailRetries.Inc()
			p.log.Warn("reminder send failed, will retry",
				zap.String("job_id", j.ID),
				zap.Int("attempts", j.Attempts),
				zap.Duration("next_window", Backoff(j.Attempts)),
				zap.Error(err),
			)
		}
		return p.store.Update(ctx, j)
	}

	sentAt := now.UTC()
	p.transition(j, models.StatusSent)
	j.SentAt = &sentAt
	j.LastError = ""
	metrics.EmailsSent.Inc()

	p.log.Info("reminder sent",
		zap.String("job_id", j.ID),
		zap.String("template", j.Template),
		zap.String("to", guest.Email),
		zap.Int("attempts", j.Attempts),
	)
	return p.store.Update(ctx, j)
}

// fail records a non-retryable outcome.
func (p *Processor) fail(ctx context.Context, j *models.EmailJob, reason string) error {
	j.LastError = truncateError(reason)
	p.transition(j, models.StatusFailed)
	metrics.EmailFailures.Inc()

	p.log.Error("reminder failed permanently",
		zap.String("job_id", j.ID),
		zap.String("guest_id", j.GuestID),
		zap.String("reason", j.LastError),
	)
	return p.store.Update(ctx, j)
}

func (p *Processor) transition(j *models.EmailJob, to models.JobStatus) {
	if !j.Status.CanTransition(to) {
		// A terminal job should never reach the processor; log loudly
		// instead of corrupting the record.
		p.log.Error("illegal status transition",
			zap.String("job_id", j.ID),
			zap.String("from", string(j.Status)),
			zap.String("to", string(to)),
		)
		return
	}
	j.Status = to
}

// truncateError cuts at a rune boundary so an SMTP server's localized error
// text stays valid UTF-8 in the history JSON.
func truncateError(s string) string {
	if len(s) <= maxErrorLen {
		return s
	}
	cut := maxErrorLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
