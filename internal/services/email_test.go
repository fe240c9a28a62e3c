package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"contactform/internal/config"
	"contactform/internal/logging"
)

type recordingSender struct {
	from   string
	to     []string
	raw    bytes.Buffer
	closed bool
}

func (r *recordingSender) Send(from string, to []string, msg io.WriterTo) error {
	r.from = from
	r.to = to
	_, err := msg.WriteTo(&r.raw)
	return err
}

func (r *recordingSender) Close() error {
	r.closed = true
	return nil
}

func testEmailConfig() *config.EmailConfig {
	return &config.EmailConfig{
		Enabled:            true,
		SMTPHost:           "smtp.example.com",
		SMTPPort:           587,
		SMTPTimeoutSeconds: 5,
		OwnerEmail:         ownerEmail,
		AppPassword:        "app-password",
		FromName:           "Contact Form",
	}
}

func TestSendHTMLEmail(t *testing.T) {
	sender := &recordingSender{}
	svc := NewEmailService(testEmailConfig(), logging.Discard())
	svc.dial = func() (gomail.SendCloser, error) { return sender, nil }

	err := svc.SendHTMLEmail(context.Background(), ownerEmail, "New Contact: Pricing", "<p>hello</p>")
	require.NoError(t, err)

	assert.Equal(t, ownerEmail, sender.from)
	assert.Equal(t, []string{ownerEmail}, sender.to)
	assert.True(t, sender.closed)

	raw := sender.raw.String()
	assert.Contains(t, raw, `From: "Contact Form" <owner@example.com>`)
	assert.Contains(t, raw, "Subject: New Contact: Pricing")
	assert.Contains(t, raw, "Content-Type: text/html")
	assert.Contains(t, raw, "<p>hello</p>")
}

func TestSendHTMLEmailDisabled(t *testing.T) {
	cfg := testEmailConfig()
	cfg.Enabled = false
	svc := NewEmailService(cfg, logging.Discard())
	svc.dial = func() (gomail.SendCloser, error) {
		t.Error("dial must not be called when email is disabled")
		return nil, nil
	}

	assert.False(t, svc.IsEnabled())
	assert.NoError(t, svc.SendHTMLEmail(context.Background(), ownerEmail, "subject", "<p>body</p>"))
}

func TestSendHTMLEmailMissingCredentials(t *testing.T) {
	cfg := testEmailConfig()
	cfg.AppPassword = ""
	svc := NewEmailService(cfg, logging.Discard())

	err := svc.SendHTMLEmail(context.Background(), ownerEmail, "subject", "<p>body</p>")
	assert.Error(t, err)
}

func TestSendHTMLEmailDialFailure(t *testing.T) {
	svc := NewEmailService(testEmailConfig(), logging.Discard())
	svc.dial = func() (gomail.SendCloser, error) { return nil, errors.New("535 auth failed") }

	err := svc.SendHTMLEmail(context.Background(), ownerEmail, "subject", "<p>body</p>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "535 auth failed")
}

func TestSendHTMLEmailRespectsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	svc := NewEmailService(testEmailConfig(), logging.Discard())
	svc.dial = func() (gomail.SendCloser, error) {
		<-release
		return nil, errors.New("released")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := svc.SendHTMLEmail(ctx, ownerEmail, "subject", "<p>body</p>")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestBuildMessageValidation(t *testing.T) {
	svc := NewEmailService(testEmailConfig(), logging.Discard())

	tests := []struct {
		name    string
		to      string
		subject string
		body    string
	}{
		{name: "missing recipient", to: " ", subject: "s", body: "<p>b</p>"},
		{name: "missing subject", to: ownerEmail, subject: "", body: "<p>b</p>"},
		{name: "missing body", to: ownerEmail, subject: "s", body: "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.buildMessage(tt.to, tt.subject, tt.body)
			assert.Error(t, err)
		})
	}
}
