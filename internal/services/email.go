package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"contactform/internal/config"
)

// Mailer sends one HTML message to one recipient.
type Mailer interface {
	SendHTMLEmail(ctx context.Context, to, subject, htmlBody string) error
}

// EmailService handles sending emails over SMTP submission. On port 587
// gomail upgrades the connection with STARTTLS.
type EmailService struct {
	cfg  *config.EmailConfig
	log  *slog.Logger
	dial func() (gomail.SendCloser, error)
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.EmailConfig, log *slog.Logger) *EmailService {
	return &EmailService{
		cfg:  cfg,
		log:  log.With("component", "email"),
		dial: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.OwnerEmail, cfg.AppPassword).Dial,
	}
}

// SendHTMLEmail sends an HTML email from the owner address
func (s *EmailService) SendHTMLEmail(ctx context.Context, to, subject, htmlBody string) error {
	if !s.cfg.Enabled {
		s.log.Info("email disabled, not sending", "to", to, "subject", subject)
		return nil
	}

	if s.cfg.SMTPHost == "" || s.cfg.OwnerEmail == "" || s.cfg.AppPassword == "" {
		return fmt.Errorf("email service not properly configured")
	}

	msg, err := s.buildMessage(to, subject, htmlBody)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		sc, err := s.dial()
		if err != nil {
			done <- err
			return
		}
		if err := gomail.Send(sc, msg); err != nil {
			_ = sc.Close()
			done <- err
			return
		}
		done <- sc.Close()
	}()

	// Respect ctx deadline if it's sooner than our config timeout.
	wait := s.timeout()
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < wait {
			wait = d
		}
	}

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return fmt.Errorf("failed to send email: %w", context.DeadlineExceeded)
	}
}

func (s *EmailService) buildMessage(to, subject, htmlBody string) (*gomail.Message, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return nil, errors.New("recipient is required")
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, errors.New("subject is required")
	}
	if strings.TrimSpace(htmlBody) == "" {
		return nil, errors.New("html body is required")
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.cfg.OwnerEmail, s.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return msg, nil
}

func (s *EmailService) timeout() time.Duration {
	if s.cfg.SMTPTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.cfg.SMTPTimeoutSeconds) * time.Second
}

// IsEnabled returns whether email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.cfg.Enabled
}
