package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"VowMail/internal/directory"
	"VowMail/internal/store"
	"VowMail/internal/template"
	"VowMail/internal/transport"
)

// Shared fixtures for the queue tests.

const testBaseURL = "https://june-and-theo.example.com"

var testGuests = []directory.Guest{
	{ID: "g1", Name: "Ada", Email: "ada@example.com", LoginToken: "tok-ada"},
	{ID: "g2", Name: "Ben", Email: "ben@example.com", LoginToken: "tok-ben"},
	{ID: "g3", Name: "Cleo", Email: "cleo@example.com", LoginToken: "tok-cleo"},
}

func newTestRenderer(t *testing.T) *template.Renderer {
	t.Helper()
	r, err := template.NewRenderer(testBaseURL)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	return r
}

// flakyMailer fails the first failures sends with a transport error, then
// delivers into an in-memory log like the console mailer.
type flakyMailer struct {
	mu       sync.Mutex
	failures int
	calls    int
	sentTo   []string
}

func (f *flakyMailer) Mode() transport.Mode { return transport.ModeConsole }

func (f *flakyMailer) Healthy(context.Context) bool { return true }

func (f *flakyMailer) Send(to, subject, html, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.calls <= f.failures {
		return &transport.Error{Err: errors.New("connection refused")}
	}
	f.sentTo = append(f.sentTo, to)
	return nil
}

// errMailer always fails with a fixed transport error message.
type errMailer struct {
	msg string
}

func (e *errMailer) Mode() transport.Mode { return transport.ModeConsole }

func (e *errMailer) Healthy(context.Context) bool { return true }

func (e *errMailer) Send(_, _, _, _ string) error {
	return &transport.Error{Err: errors.New(e.msg)}
}

func newTestHarness(t *testing.T, mailer transport.Mailer, maxAttempts int) (*store.MemStore, *Processor, *Service) {
	t.Helper()

	st := store.NewMemStore()
	dir := directory.NewStatic(testGuests...)
	renderer := newTestRenderer(t)
	log := zap.NewNop()

	proc := NewProcessor(st, dir, renderer, mailer, maxAttempts, log)
	svc := NewService(st, dir, renderer, log)
	return st, proc, svc
}
