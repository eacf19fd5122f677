package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"VowMail/internal/config"
)

func TestNewPicksConsoleWithoutSMTPConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"nothing set", config.Config{}},
		{"host only", config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587}},
		{"missing password", config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587, SMTPUser: "u"}},
		{"missing port", config.Config{SMTPHost: "smtp.example.com", SMTPUser: "u", SMTPPassword: "p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(&tt.cfg, zap.NewNop())
			assert.Equal(t, ModeConsole, m.Mode())
		})
	}
}

func TestNewPicksSMTPWithCompleteConfig(t *testing.T) {
	cfg := &config.Config{
		SMTPHost:     "smtp.example.com",
		SMTPPort:     587,
		SMTPUser:     "mailer",
		SMTPPassword: "secret",
	}

	m := New(cfg, zap.NewNop())
	assert.Equal(t, ModeSMTP, m.Mode())
}

func TestConsoleMailerRecordsSends(t *testing.T) {
	c := NewConsoleMailer(zap.NewNop())

	require.NoError(t, c.Send("ada@example.com", "hello", "<p>hi</p>", "hi"))
	require.NoError(t, c.Send("ben@example.com", "again", "<p>yo</p>", "yo"))

	sent := c.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "ada@example.com", sent[0].To)
	assert.Equal(t, "hello", sent[0].Subject)
	assert.Equal(t, "<p>hi</p>", sent[0].HTML)
	assert.Equal(t, "hi", sent[0].Text)
	assert.Equal(t, "ben@example.com", sent[1].To)
	assert.False(t, sent[0].At.IsZero())
}

func TestConsoleMailerSentReturnsCopy(t *testing.T) {
	c := NewConsoleMailer(zap.NewNop())
	require.NoError(t, c.Send("ada@example.com", "s", "h", "t"))

	first := c.Sent()
	first[0].To = "mangled@example.com"

	assert.Equal(t, "ada@example.com", c.Sent()[0].To)
}

func TestConsoleMailerAlwaysHealthy(t *testing.T) {
	c := NewConsoleMailer(zap.NewNop())
	assert.True(t, c.Healthy(context.Background()))
}

func TestTransportErrorUnwraps(t *testing.T) {
	inner := errors.New("550 mailbox unavailable")
	err := &Error{Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "mail transport")
	assert.Contains(t, err.Error(), "550 mailbox unavailable")

	var te *Error
	assert.ErrorAs(t, error(err), &te)
}
