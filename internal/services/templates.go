package services

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html"
	"html/template"
	"net/url"
	"strings"
	"time"

	"contactform/internal/domain"
)

const (
	notificationTimeLayout = "Jan 02, 2006 at 03:04 PM"
	digestCardTimeLayout   = "Jan 02, 2006 03:04 PM"
	digestDateLayout       = "Monday, January 2, 2006"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	notificationTmpl = template.Must(template.ParseFS(templateFS, "templates/notification.html"))
	digestTmpl       = template.Must(template.ParseFS(templateFS, "templates/digest.html"))
)

var errEmptyDigest = errors.New("digest needs at least one contact")

// NotificationData is the input of RenderNotification. Name, Email, Inquiry
// and Message are expected to be HTML-escaped already, as they are stored.
type NotificationData struct {
	Name        string
	Email       string
	Inquiry     string
	Message     string
	SubmittedAt string
}

// contactView is what both templates see for one contact. The escaped
// fields are passed through untouched so stored entities are not escaped a
// second time; links are built from the unescaped values.
type contactView struct {
	Name        template.HTML
	Email       template.HTML
	Inquiry     template.HTML
	Message     template.HTML
	SubmittedAt string
	EmailLink   string
	ReplyLink   string
}

type digestView struct {
	Date  string
	Total int
	Cards []contactView
}

func newContactView(name, email, inquiry, message, submittedAt string) contactView {
	return contactView{
		Name:        template.HTML(name),
		Email:       template.HTML(email),
		Inquiry:     template.HTML(inquiry),
		Message:     template.HTML(message),
		SubmittedAt: submittedAt,
		EmailLink:   mailtoLink(email, ""),
		ReplyLink:   mailtoLink(email, "Re: "+html.UnescapeString(inquiry)),
	}
}

// mailtoLink builds a mailto URL for an escaped address, with an optional
// percent-encoded subject.
func mailtoLink(escapedEmail, subject string) string {
	link := "mailto:" + html.UnescapeString(escapedEmail)
	if subject != "" {
		link += "?subject=" + encodeSubject(subject)
	}
	return link
}

// encodeSubject percent-encodes a mailto subject. Spaces become %20 since
// mail clients do not read '+' as a space.
func encodeSubject(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// RenderNotification renders the single-submission notification email.
func RenderNotification(data NotificationData) (string, error) {
	view := newContactView(data.Name, data.Email, data.Inquiry, data.Message, data.SubmittedAt)

	var buf bytes.Buffer
	if err := notificationTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render notification: %w", err)
	}
	return buf.String(), nil
}

// RenderDigest renders the daily digest with one card per contact, in the
// order given. Card timestamps are shown in today's location.
func RenderDigest(contacts []domain.Contact, today time.Time) (string, error) {
	if len(contacts) == 0 {
		return "", errEmptyDigest
	}

	view := digestView{
		Date:  today.Format(digestDateLayout),
		Total: len(contacts),
		Cards: make([]contactView, len(contacts)),
	}
	for i, c := range contacts {
		submitted := c.CreatedAt.In(today.Location()).Format(digestCardTimeLayout)
		view.Cards[i] = newContactView(c.Name, c.Email, c.Inquiry, c.Message, submitted)
	}

	var buf bytes.Buffer
	if err := digestTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return buf.String(), nil
}
