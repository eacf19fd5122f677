package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"VowMail/internal/models"
)

// MemStore keeps jobs in memory. It backs tests and local runs without a
// DATABASE_URL; nothing survives a restart.
type MemStore struct {
	mu   sync.Mutex
	jobs map[string]*models.EmailJob
	seq  map[string]int
	next int
}

func NewMemStore() *MemStore {
	return &MemStore{
		jobs: make(map[string]*models.EmailJob),
		seq:  make(map[string]int),
	}
}

func (m *MemStore) Create(_ context.Context, j *models.EmailJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.Status == "" {
		j.Status = models.StatusPending
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}
	cp := *j
	m.jobs[j.ID] = &cp
	m.seq[j.ID] = m.next
	m.next++
	return nil
}

func (m *MemStore) Get(_ context.Context, id string) (*models.EmailJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *MemStore) Update(_ context.Context, j *models.EmailJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[j.ID]; !ok {
		return ErrJobNotFound
	}
	cp := *j
	m.jobs[j.ID] = &cp
	return nil
}

func (m *MemStore) PendingBatch(_ context.Context, limit int) ([]*models.EmailJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.collect(func(j *models.EmailJob) bool {
		return j.Status == models.StatusPending || j.Status == models.StatusRetrying
	})
	m.sortByCreation(out, false)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemStore) Recent(_ context.Context, limit int, status models.JobStatus) ([]*models.EmailJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.collect(func(j *models.EmailJob) bool {
		return status == "" || j.Status == status
	})
	m.sortByCreation(out, true)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemStore) collect(keep func(*models.EmailJob) bool) []*models.EmailJob {
	out := make([]*models.EmailJob, 0, len(m.jobs))
	for _, j := range m.jobs {
		if keep(j) {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out
}

// sortByCreation orders by CreatedAt, falling back to insertion order for
// jobs created in the same instant.
func (m *MemStore) sortByCreation(jobs []*models.EmailJob, newestFirst bool) {
	sort.Slice(jobs, func(a, b int) bool {
		ja, jb := jobs[a], jobs[b]
		if !ja.CreatedAt.Equal(jb.CreatedAt) {
			if newestFirst {
				return ja.CreatedAt.After(jb.CreatedAt)
			}
			return ja.CreatedAt.Before(jb.CreatedAt)
		}
		if newestFirst {
			return m.seq[ja.ID] > m.seq[jb.ID]
		}
		return m.seq[ja.ID] < m.seq[jb.ID]
	})
}
