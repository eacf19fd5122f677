// Package queue owns the reminder email lifecycle: enqueue, periodic
// delivery with backoff, and the read-only projections the admin dashboard
// uses.
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"VowMail/internal/directory"
	"VowMail/internal/models"
	"VowMail/internal/store"
	"VowMail/internal/template"
)

const defaultHistoryLimit = 20

// deletedGuestName stands in when a job's guest no longer exists. The job
// record is the audit trail, so history keeps working after guest cleanup.
const deletedGuestName = "deleted guest"

// Service is the queue's front door for the rest of the system.
type Service struct {
	store    store.JobStore
	dir      directory.Directory
	renderer *template.Renderer
	log      *zap.Logger
}

func NewService(st store.JobStore, dir directory.Directory, renderer *template.Renderer, log *zap.Logger) *Service {
	return &Service{store: st, dir: dir, renderer: renderer, log: log}
}

// Enqueue persists a pending job and returns its id. The template id is
// validated here so a typo surfaces at the call site instead of as a failed
// job a minute later. Guest existence is deliberately not checked: the guest
// may vanish between enqueue and delivery anyway, and the processor handles
// that case.
func (s *Service) Enqueue(ctx context.Context, guestID, templateID string) (string, error) {
	if guestID == "" {
		return "", errors.New("guest id is required")
	}
	if !template.Known(templateID) {
		return "", fmt.Errorf("%w: %s", template.ErrUnknownTemplate, templateID)
	}

	j := &models.EmailJob{
		GuestID:  guestID,
		Template: templateID,
		Status:   models.StatusPending,
	}
	if err := s.store.Create(ctx, j); err != nil {
		return "", fmt.Errorf("enqueue reminder: %w", err)
	}

	s.log.Info("reminder enqueued",
		zap.String("job_id", j.ID),
		zap.String("guest_id", guestID),
		zap.String("template", templateID),
	)
	return j.ID, nil
}

// PreviewResult is a dry-run render for admin QA. No job is created, no
// mail is sent.
type PreviewResult struct {
	To       string `json:"to"`
	Template string `json:"template"`
	Subject  string `json:"subject"`
	HTML     string `json:"html"`
}

func (s *Service) Preview(ctx context.Context, guestID, templateID string) (*PreviewResult, error) {
	guest, err := s.dir.FindByID(ctx, guestID)
	if err != nil {
		return nil, err
	}

	msg, err := s.renderer.Render(guest, templateID)
	if err != nil {
		return nil, err
	}

	return &PreviewResult{
		To:       guest.Email,
		Template: templateID,
		Subject:  msg.Subject,
		HTML:     msg.HTML,
	}, nil
}

// HistoryEntry is one job as the admin dashboard sees it, with the guest
// reference resolved to display fields.
type HistoryEntry struct {
	ID        string           `json:"id"`
	Recipient string           `json:"recipient"`
	Email     string           `json:"email,omitempty"`
	Template  string           `json:"template"`
	Status    models.JobStatus `json:"status"`
	Attempts  int              `json:"attempts"`
	LastError string           `json:"last_error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	SentAt    *time.Time       `json:"sent_at,omitempty"`
}

// History returns the newest jobs first, optionally filtered by status.
// Deleted guests degrade to a placeholder name rather than dropping the row.
func (s *Service) History(ctx context.Context, limit int, status models.JobStatus) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("invalid status filter: %s", status)
	}

	jobs, err := s.store.Recent(ctx, limit, status)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	out := make([]HistoryEntry, 0, len(jobs))
	for _, j := range jobs {
		entry := HistoryEntry{
			ID:        j.ID,
			Template:  j.Template,
			Status:    j.Status,
			Attempts:  j.Attempts,
			LastError: j.LastError,
			CreatedAt: j.CreatedAt,
			SentAt:    j.SentAt,
		}

		guest, err := s.dir.FindByID(ctx, j.GuestID)
		switch {
		case errors.Is(err, directory.ErrGuestNotFound):
			entry.Recipient = deletedGuestName
		case err != nil:
			return nil, fmt.Errorf("resolve guest %s: %w", j.GuestID, err)
		default:
			entry.Recipient = guest.Name
			entry.Email = guest.Email
		}

		out = append(out, entry)
	}
	return out, nil
}
