package queue

import (
	"time"

	"VowMail/internal/models"
)

// backoffSteps[n-1] is the wait after n failed attempts. Flat after the
// fifth step.
var backoffSteps = [...]time.Duration{
	1 * time.Minute,
	5 * time.Minute,
	15 * time.Minute,
	30 * time.Minute,
	60 * time.Minute,
}

// Backoff returns the retry delay for a job with the given number of
// completed attempts. Non-decreasing: 1m, 5m, 15m, 30m, then 60m forever.
func Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	if attempts > len(backoffSteps) {
		attempts = len(backoffSteps)
	}
	return backoffSteps[attempts-1]
}

// eligibleAt is the earliest instant a retrying job may be attempted again.
// The delay is anchored at job creation, not at the last attempt, so a late
// sweep compresses the effective wait for the next attempt. Kept as-is to
// preserve the observable retry timeline.
func eligibleAt(j *models.EmailJob) time.Time {
	return j.CreatedAt.Add(Backoff(j.Attempts))
}
