package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"VowMail/internal/metrics"
	"VowMail/internal/models"
	"VowMail/internal/store"
)

// Scheduler sweeps the job store on a fixed interval. One sweep at a time,
// jobs within a sweep processed sequentially: a single wedding's reminder
// volume never justifies a worker pool, and the single-writer shape is what
// keeps the read-then-update sequence race-free. The sweep mutex is what
// makes "one at a time" hold even with the manual admin trigger calling in
// next to the ticker.
type Scheduler struct {
	store     store.JobStore
	proc      *Processor
	interval  time.Duration
	batchSize int
	limiter   *rate.Limiter
	log       *zap.Logger

	// Serializes sweeps across the ticker goroutine and manual triggers.
	sweepMu sync.Mutex
}

// NewScheduler builds a scheduler. sendRate caps deliveries per second
// within a sweep so a batch doesn't hammer the SMTP server.
func NewScheduler(
	st store.JobStore,
	proc *Processor,
	interval time.Duration,
	batchSize int,
	sendRate int,
	log *zap.Logger,
) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 10
	}
	if sendRate <= 0 {
		sendRate = 1
	}
	return &Scheduler{
		store:     st,
		proc:      proc,
		interval:  interval,
		batchSize: batchSize,
		limiter:   rate.NewLimiter(rate.Limit(sendRate), 1),
		log:       log,
	}
}

// Run ticks until ctx is cancelled. A failing sweep is logged and the next
// one proceeds; nothing escapes to the caller.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("queue scheduler started",
		zap.Duration("interval", s.interval),
		zap.Int("batch_size", s.batchSize),
	)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("queue scheduler stopped")
			return
		case <-ticker.C:
			n, err := s.Tick(ctx, time.Now().UTC())
			if err != nil {
				s.log.Error("queue tick failed", zap.Error(err))
			}
			metrics.TickJobs.Set(float64(n))
		}
	}
}

// Tick runs one sweep: select up to batchSize due jobs oldest-first, skip
// retrying jobs still inside their backoff window, process the rest
// sequentially. Returns how many jobs were processed. Exported so an
// external trigger (admin "send now") can drive the queue between ticks;
// concurrent callers queue up behind the in-flight sweep, so a job is never
// selected by two sweeps at once.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) (processed int, err error) {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	defer func(start time.Time) {
		metrics.TickDuration.Observe(time.Since(start).Seconds())
	}(time.Now())

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("queue tick panic: %v", r)
		}
	}()

	jobs, err := s.store.PendingBatch(ctx, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("select pending jobs: %w", err)
	}

	for _, j := range jobs {
		if j.Status == models.StatusRetrying && now.Before(eligibleAt(j)) {
			continue
		}

		// Pace sends; the first job in a sweep goes straight through.
		if err := s.limiter.Wait(ctx); err != nil {
			return processed, err
		}

		if err := s.proc.Process(ctx, j, now); err != nil {
			return processed, fmt.Errorf("process job %s: %w", j.ID, err)
		}
		processed++
	}

	return processed, nil
}
