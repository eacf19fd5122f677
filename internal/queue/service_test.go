package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VowMail/internal/directory"
	"VowMail/internal/models"
	"VowMail/internal/template"
)

func TestEnqueueRejectsUnknownTemplate(t *testing.T) {
	_, _, svc := newTestHarness(t, &flakyMailer{}, 5)

	_, err := svc.Enqueue(context.Background(), "g1", "bachelor_party")
	require.Error(t, err)
	assert.ErrorIs(t, err, template.ErrUnknownTemplate)
}

func TestEnqueueRequiresGuestID(t *testing.T) {
	_, _, svc := newTestHarness(t, &flakyMailer{}, 5)

	_, err := svc.Enqueue(context.Background(), "", "rsvp_reminder")
	require.Error(t, err)
}

func TestPreviewIsPureAndDeterministic(t *testing.T) {
	st, _, svc := newTestHarness(t, &flakyMailer{}, 5)
	ctx := context.Background()

	first, err := svc.Preview(ctx, "g1", "rsvp_reminder")
	require.NoError(t, err)
	second, err := svc.Preview(ctx, "g1", "rsvp_reminder")
	require.NoError(t, err)

	assert.Equal(t, first.Subject, second.Subject)
	assert.Equal(t, first.HTML, second.HTML)
	assert.Equal(t, "ada@example.com", first.To)
	assert.Contains(t, first.HTML, testBaseURL+"/login/tok-ada")

	// Preview must not create jobs.
	jobs, err := st.Recent(ctx, 0, "")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestPreviewUnknownGuest(t *testing.T) {
	_, _, svc := newTestHarness(t, &flakyMailer{}, 5)

	_, err := svc.Preview(context.Background(), "nobody", "rsvp_reminder")
	assert.ErrorIs(t, err, directory.ErrGuestNotFound)
}

func TestHistoryNewestFirstWithLimit(t *testing.T) {
	st, _, svc := newTestHarness(t, &flakyMailer{}, 5)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	var lastTwo []string
	for i := 0; i < 5; i++ {
		j := &models.EmailJob{
			GuestID:   "g1",
			Template:  "rsvp_reminder",
			Status:    models.StatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, st.Create(ctx, j))
		if i >= 3 {
			lastTwo = append(lastTwo, j.ID)
		}
	}

	entries, err := svc.History(ctx, 2, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first: job 4, then job 3.
	assert.Equal(t, lastTwo[1], entries[0].ID)
	assert.Equal(t, lastTwo[0], entries[1].ID)
	assert.Equal(t, "Ada", entries[0].Recipient)
}

func TestHistoryStatusFilter(t *testing.T) {
	st, proc, svc := newTestHarness(t, &flakyMailer{failures: 100}, 5)
	ctx := context.Background()

	untouched := &models.EmailJob{GuestID: "g1", Template: "rsvp_reminder", Status: models.StatusPending}
	require.NoError(t, st.Create(ctx, untouched))

	failing := &models.EmailJob{GuestID: "g2", Template: "rsvp_reminder", Status: models.StatusPending}
	require.NoError(t, st.Create(ctx, failing))
	require.NoError(t, proc.Process(ctx, failing, time.Now().UTC()))

	entries, err := svc.History(ctx, 10, models.StatusRetrying)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, failing.ID, entries[0].ID)
	assert.Equal(t, 1, entries[0].Attempts)
	assert.NotEmpty(t, entries[0].LastError)
}

func TestHistoryRejectsInvalidFilter(t *testing.T) {
	_, _, svc := newTestHarness(t, &flakyMailer{}, 5)

	_, err := svc.History(context.Background(), 10, models.JobStatus("bounced"))
	require.Error(t, err)
}

func TestHistoryResolvesDeletedGuestToPlaceholder(t *testing.T) {
	st, _, svc := newTestHarness(t, &flakyMailer{}, 5)
	ctx := context.Background()

	j := &models.EmailJob{GuestID: "gone-guest", Template: "rsvp_reminder", Status: models.StatusPending}
	require.NoError(t, st.Create(ctx, j))

	entries, err := svc.History(ctx, 10, "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "deleted guest", entries[0].Recipient)
	assert.Empty(t, entries[0].Email)
}
