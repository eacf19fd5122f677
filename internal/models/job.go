package models

import "time"

type JobStatus string

const (
	StatusPending  JobStatus = "pending"
	StatusRetrying JobStatus = "retrying"
	StatusSent     JobStatus = "sent"
	StatusFailed   JobStatus = "failed"
)

// Valid reports whether s is one of the four known statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case StatusPending, StatusRetrying, StatusSent, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether a job in this status will never be processed again.
func (s JobStatus) Terminal() bool {
	return s == StatusSent || s == StatusFailed
}

// CanTransition reports whether the state machine allows moving from s to to.
// Allowed transitions:
//
//	pending  -> sent | retrying | failed
//	retrying -> sent | retrying | failed
//
// sent and failed are terminal.
func (s JobStatus) CanTransition(to JobStatus) bool {
	if s.Terminal() {
		return false
	}
	switch to {
	case StatusSent, StatusRetrying, StatusFailed:
		return true
	}
	return false
}

// EmailJob is one unit of work: send one templated email to one guest.
// The guest is referenced, not owned; the job record outlives the guest.
type EmailJob struct {
	ID       string `json:"id"`
	GuestID  string `json:"guest_id"`
	Template string `json:"template"`

	Status    JobStatus `json:"status"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"last_error,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}
