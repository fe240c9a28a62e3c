package services

import (
	"context"
	"html"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"contactform/internal/config"
	"contactform/internal/domain"
	"contactform/internal/metrics"
	apperrors "contactform/pkg/errors"
)

const (
	submitSuccessMessage = "Message received and notification sent"
	digestSuccessMessage = "Daily digest sent"
	noContactsMessage    = "No contacts today"

	notificationSubjectPrefix = "New Contact: "
	digestSubjectPrefix       = "Daily Contact Digest - "
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ContactForm holds the raw submitted form fields.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Inquiry string `json:"inquiry"`
	Message string `json:"message"`
}

// ActionResult is the success payload of every action.
type ActionResult struct {
	Success string `json:"success,omitempty"`
	Count   int    `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

// ContactService stores submissions and mails them to the site owner.
type ContactService struct {
	db         *gorm.DB
	mailer     Mailer
	ownerEmail string
	log        *slog.Logger
	now        func() time.Time
}

// NewContactService creates a new contact service
func NewContactService(db *gorm.DB, mailer Mailer, cfg *config.EmailConfig, log *slog.Logger) *ContactService {
	return &ContactService{
		db:         db,
		mailer:     mailer,
		ownerEmail: cfg.OwnerEmail,
		log:        log.With("component", "contact"),
		now:        time.Now,
	}
}

// Submit validates and stores one submission, then notifies the owner.
// The insert is not rolled back when the notification fails.
func (s *ContactService) Submit(ctx context.Context, form ContactForm) (*ActionResult, error) {
	contact, verr := s.validateContactForm(form)
	if verr != nil {
		s.log.Info("submit rejected", "reason", verr.Message)
		return nil, verr
	}

	now := s.now()
	contact.CreatedAt = now.UTC()
	contact.UpdatedAt = contact.CreatedAt

	start := time.Now()
	dbErr := s.db.WithContext(ctx).Create(contact).Error
	metrics.RecordDBQuery("insert_contact", time.Since(start), dbErr)
	if dbErr != nil {
		s.log.Error("submit failed: database error", "error", dbErr)
		return nil, persistenceError(msgSaveFailed, dbErr)
	}

	s.log.Info("contact stored", "id", contact.ID, "inquiry", contact.Inquiry)
	metrics.RecordContactSubmission()

	if err := s.sendContactNotification(ctx, contact, now); err != nil {
		s.log.Error("notification email failed", "id", contact.ID, "error", err)
		return nil, mailError(msgNotifyFailed, err)
	}

	s.log.Info("notification email sent", "id", contact.ID)
	return &ActionResult{Success: submitSuccessMessage}, nil
}

// Digest mails every contact created today, newest first, to the owner.
func (s *ContactService) Digest(ctx context.Context) (*ActionResult, error) {
	now := s.now()
	contacts, err := s.todaysContacts(ctx, now)
	if err != nil {
		metrics.RecordDigest("failed")
		s.log.Error("digest failed: database error", "error", err)
		return nil, persistenceError(msgLoadFailed, err)
	}

	if len(contacts) == 0 {
		metrics.RecordDigest("empty")
		s.log.Info("digest skipped, no contacts today")
		return &ActionResult{Message: noContactsMessage}, nil
	}

	body, err := RenderDigest(contacts, now)
	if err != nil {
		metrics.RecordDigest("failed")
		return nil, mailError(msgDigestMailFails, err)
	}

	subject := digestSubjectPrefix + now.Format("2006-01-02")
	err = s.mailer.SendHTMLEmail(ctx, s.ownerEmail, subject, body)
	metrics.RecordEmail("digest", err)
	if err != nil {
		metrics.RecordDigest("failed")
		s.log.Error("digest email failed", "count", len(contacts), "error", err)
		return nil, mailError(msgDigestMailFails, err)
	}

	metrics.RecordDigest("sent")
	s.log.Info("digest sent", "count", len(contacts))
	return &ActionResult{Success: digestSuccessMessage, Count: len(contacts)}, nil
}

// todaysContacts returns contacts created on now's calendar day, in now's
// location.
func (s *ContactService) todaysContacts(ctx context.Context, now time.Time) ([]domain.Contact, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var contacts []domain.Contact
	start := time.Now()
	err := s.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", dayStart.UTC(), dayEnd.UTC()).
		Order("created_at DESC").
		Order("id DESC").
		Find(&contacts).Error
	metrics.RecordDBQuery("select_todays_contacts", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// validateContactForm trims and escapes the form, then validates it
func (s *ContactService) validateContactForm(form ContactForm) (*domain.Contact, *apperrors.AppError) {
	contact := &domain.Contact{
		Name:    sanitize(form.Name),
		Email:   sanitize(form.Email),
		Inquiry: sanitize(form.Inquiry),
		Message: sanitize(form.Message),
	}

	if contact.Name == "" || contact.Email == "" || contact.Inquiry == "" || contact.Message == "" {
		metrics.RecordValidationFailure("missing_field")
		return nil, validationError(msgFieldsRequired)
	}

	if !isValidEmail(contact.Email) {
		metrics.RecordValidationFailure("invalid_email")
		return nil, validationError(msgInvalidEmail)
	}

	return contact, nil
}

// isValidEmail checks address syntax. Dots may not lead, trail or repeat
// on either side of the '@'.
func isValidEmail(email string) bool {
	if !emailRegex.MatchString(email) {
		return false
	}
	return !strings.HasPrefix(email, ".") &&
		!strings.Contains(email, "..") &&
		!strings.Contains(email, ".@") &&
		!strings.Contains(email, "@.")
}

// sendContactNotification mails the owner about a stored contact
func (s *ContactService) sendContactNotification(ctx context.Context, contact *domain.Contact, at time.Time) error {
	body, err := RenderNotification(NotificationData{
		Name:        contact.Name,
		Email:       contact.Email,
		Inquiry:     contact.Inquiry,
		Message:     contact.Message,
		SubmittedAt: at.Format(notificationTimeLayout),
	})
	if err != nil {
		return err
	}

	subject := notificationSubjectPrefix + html.UnescapeString(contact.Inquiry)
	err = s.mailer.SendHTMLEmail(ctx, s.ownerEmail, subject, body)
	metrics.RecordEmail("notification", err)
	return err
}

// sanitize trims surrounding whitespace and HTML-escapes the value,
// quotes included.
func sanitize(v string) string {
	return html.EscapeString(strings.TrimSpace(v))
}
