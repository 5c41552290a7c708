package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/internal/domain/utils/location"
	"github.com/Badsnus/campus-hub/internal/domain/utils/timefmt"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
	"github.com/Badsnus/campus-hub/pkg/smtp"
)

type mailer interface {
	Send(msg smtp.Message) error
}

var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "reminder"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Event Reminder</h2>
  <p>Hi there!</p>
  <p>{{if .ReminderTime}}This is a reminder set for {{.ReminderTime}}.{{else}}This is your event reminder.{{end}}</p>
  <div style="background-color: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin: 0 0 10px 0; color: #2563eb;">{{.Title}}</h3>
    <p style="margin: 5px 0;"><strong>Date:</strong> {{.Date}}</p>
    <p style="margin: 5px 0;"><strong>Time:</strong> {{.Time}}</p>
  </div>
  <p>Don't forget to attend!</p>
  <p>Best regards,<br>Campus Hub Team</p>
</div>{{end}}
{{define "comment"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">New Comment on Your Event</h2>
  <p>Hi there!</p>
  <p>Someone commented on your past event "{{.Title}}":</p>
  <div style="background-color: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p style="margin: 0; font-style: italic;">"{{.Comment}}"</p>
    <p style="margin: 10px 0 0 0; font-size: 14px; color: #666;">- {{.Commenter}}</p>
  </div>
  <p>You can view all comments on the event page.</p>
  <p>Best regards,<br>Campus Hub Team</p>
</div>{{end}}
{{define "registration"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Registration Confirmed!</h2>
  <p>Hi there!</p>
  <p>Your registration for the following event has been confirmed:</p>
  <div style="background-color: #f0f9ff; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #2563eb;">
    <h3 style="margin: 0 0 10px 0; color: #2563eb;">{{.Title}}</h3>
    <p style="margin: 5px 0;"><strong>Date:</strong> {{.Date}}</p>
    <p style="margin: 5px 0;"><strong>Time:</strong> {{.Time}}</p>
    <p style="margin: 5px 0;"><strong>Venue:</strong> {{.Venue}}</p>
  </div>
  <p>We look forward to seeing you there!</p>
  <p>Best regards,<br>Campus Hub Team</p>
</div>{{end}}`))

type emailData struct {
	Title        string
	Date         string
	Time         string
	Venue        string
	ReminderTime string
	Comment      string
	Commenter    string
}

// EmailService sends transactional email. Without a mailer every send fails
// with errorz.ErrEmailNotConfigured.
type EmailService struct {
	mailer mailer
	logger *types.Logger
}

func NewEmailService(mailer mailer, logger *types.Logger) *EmailService {
	return &EmailService{
		mailer: mailer,
		logger: logger,
	}
}

func (s *EmailService) Configured() bool {
	return s.mailer != nil
}

// Send delivers a raw message. An empty text part defaults to the HTML with
// tags stripped.
func (s *EmailService) Send(_ context.Context, req dto.EmailRequest) error {
	if !s.Configured() {
		s.logger.Warn("Email provider not configured, email sending disabled")
		return errorz.ErrEmailNotConfigured
	}
	if strings.TrimSpace(req.To) == "" || strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.HTML) == "" {
		return errorz.NewValidationError("", "Missing required fields: to, subject, html")
	}
	text := req.Text
	if text == "" {
		text = smtp.StripTags(req.HTML)
	}
	if err := s.mailer.Send(smtp.Message{To: req.To, Subject: req.Subject, HTML: req.HTML, Text: text}); err != nil {
		s.logger.Errorf("failed to send email to %s: %v", req.To, err)
		return err
	}
	s.logger.Infof("Email %q sent to %s", req.Subject, req.To)
	return nil
}

func (s *EmailService) SendRegistrationConfirmation(ctx context.Context, to string, event entity.Event) error {
	html, err := render("registration", emailData{
		Title: event.Title,
		Date:  timefmt.FormatDate(event.Date),
		Time:  timefmt.FormatTime(event.Time),
		Venue: event.Venue,
	})
	if err != nil {
		return err
	}
	return s.Send(ctx, dto.EmailRequest{To: to, Subject: fmt.Sprintf("Registration Confirmed: %s", event.Title), HTML: html})
}

func (s *EmailService) SendReminderConfirmation(ctx context.Context, to string, event entity.Event, at time.Time) error {
	data := emailData{
		Title: event.Title,
		Date:  timefmt.FormatDate(event.Date),
		Time:  timefmt.FormatTime(event.Time),
	}
	if !at.IsZero() {
		data.ReminderTime = at.In(location.Location()).Format("January 2, 2006 at 3:04 PM")
	}
	html, err := render("reminder", data)
	if err != nil {
		return err
	}
	return s.Send(ctx, dto.EmailRequest{To: to, Subject: fmt.Sprintf("Reminder: %s is coming up!", event.Title), HTML: html})
}

func (s *EmailService) SendCommentNotification(ctx context.Context, to, eventTitle, commenter, comment string) error {
	html, err := render("comment", emailData{Title: eventTitle, Commenter: commenter, Comment: comment})
	if err != nil {
		return err
	}
	return s.Send(ctx, dto.EmailRequest{To: to, Subject: fmt.Sprintf("New comment on \"%s\"", eventTitle), HTML: html})
}

func render(name string, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
