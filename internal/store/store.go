package store

import (
	"context"
	"errors"

	"VowMail/internal/models"
)

var ErrJobNotFound = errors.New("job not found")

// JobStore provides persistence for email jobs. Jobs are never deleted;
// sent and failed records stay around as the audit trail the admin UI reads.
type JobStore interface {
	Create(ctx context.Context, j *models.EmailJob) error
	Get(ctx context.Context, id string) (*models.EmailJob, error)
	Update(ctx context.Context, j *models.EmailJob) error

	// PendingBatch returns up to limit jobs with status pending or retrying,
	// oldest first. Backoff eligibility is the scheduler's concern, not the
	// store's.
	PendingBatch(ctx context.Context, limit int) ([]*models.EmailJob, error)

	// Recent returns the newest jobs first, optionally filtered by status
	// (empty status means all).
	Recent(ctx context.Context, limit int, status models.JobStatus) ([]*models.EmailJob, error)
}
