package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatusValid(t *testing.T) {
	tests := []struct {
		name   string
		status JobStatus
		want   bool
	}{
		{"pending", StatusPending, true},
		{"retrying", StatusRetrying, true},
		{"sent", StatusSent, true},
		{"failed", StatusFailed, true},
		{"empty", JobStatus(""), false},
		{"unknown", JobStatus("processing"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Valid())
		})
	}
}

func TestJobStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusRetrying.Terminal())
	assert.True(t, StatusSent.Terminal())
	assert.True(t, StatusFailed.Terminal())
}

func TestJobStatusCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from JobStatus
		to   JobStatus
		want bool
	}{
		{"pending to sent", StatusPending, StatusSent, true},
		{"pending to retrying", StatusPending, StatusRetrying, true},
		{"pending to failed", StatusPending, StatusFailed, true},
		{"retrying to sent", StatusRetrying, StatusSent, true},
		{"retrying to retrying", StatusRetrying, StatusRetrying, true},
		{"retrying to failed", StatusRetrying, StatusFailed, true},
		{"sent is terminal", StatusSent, StatusRetrying, false},
		{"failed is terminal", StatusFailed, StatusPending, false},
		{"nothing moves back to pending", StatusRetrying, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}
