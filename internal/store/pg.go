package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"VowMail/internal/models"
)

// PGStore persists jobs in the email_jobs table (see migrations/).
type PGStore struct {
	Pool *pgxpool.Pool
}

func NewPGStore(ctx context.Context, conn string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, conn)
	if err != nil {
		return nil, err
	}
	return &PGStore{Pool: pool}, nil
}

func (s *PGStore) Close() {
	s.Pool.Close()
}

const jobColumns = `id, guest_id, template, status, attempts, last_error, created_at, sent_at`

func (s *PGStore) Create(ctx context.Context, j *models.EmailJob) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.Status == "" {
		j.Status = models.StatusPending
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}

	_, err := s.Pool.Exec(ctx,
		`INSERT INTO email_jobs
		 (id, guest_id, template, status, attempts, last_error, created_at, sent_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		j.ID,
		j.GuestID,
		j.Template,
		j.Status,
		j.Attempts,
		nullIfEmpty(j.LastError),
		j.CreatedAt,
		j.SentAt,
	)
	return err
}

func (s *PGStore) Get(ctx context.Context, id string) (*models.EmailJob, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM email_jobs WHERE id=$1`, id)

	j, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	return j, err
}

func (s *PGStore) Update(ctx context.Context, j *models.EmailJob) error {
	tag, err := s.Pool.Exec(ctx,
		`UPDATE email_jobs
		 SET status=$1,
		     attempts=$2,
		     last_error=$3,
		     sent_at=$4
		 WHERE id=$5`,
		j.Status,
		j.Attempts,
		nullIfEmpty(j.LastError),
		j.SentAt,
		j.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (s *PGStore) PendingBatch(ctx context.Context, limit int) ([]*models.EmailJob, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+jobColumns+` FROM email_jobs
		 WHERE status = ANY($1)
		 ORDER BY created_at ASC
		 LIMIT $2`,
		[]string{string(models.StatusPending), string(models.StatusRetrying)},
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (s *PGStore) Recent(ctx context.Context, limit int, status models.JobStatus) ([]*models.EmailJob, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status == "" {
		rows, err = s.Pool.Query(ctx,
			`SELECT `+jobColumns+` FROM email_jobs
			 ORDER BY created_at DESC
			 LIMIT $1`, limit)
	} else {
		rows, err = s.Pool.Query(ctx,
			`SELECT `+jobColumns+` FROM email_jobs
			 WHERE status=$1
			 ORDER BY created_at DESC
			 LIMIT $2`, status, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func scanJob(row pgx.Row) (*models.EmailJob, error) {
	j := &models.EmailJob{}
	var lastError *string
	if err := row.Scan(&j.ID, &j.GuestID, &j.Template, &j.Status, &j.Attempts,
		&lastError, &j.CreatedAt, &j.SentAt); err != nil {
		return nil, err
	}
	if lastError != nil {
		j.LastError = *lastError
	}
	return j, nil
}

func scanJobs(rows pgx.Rows) ([]*models.EmailJob, error) {
	var out []*models.EmailJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
