package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"selfcare/internal/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Email is a single outbound message.
type Email struct {
	ToEmail   string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// SendGridMailer delivers through the SendGrid v3 API.
type SendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridMailer(apiKey, fromEmail, fromName string) *SendGridMailer {
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, email Email) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(email.ToName, email.ToEmail)
	message := mail.NewSingleEmail(from, email.Subject, to, email.PlainText, email.HTML)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email to %s: %d", email.ToEmail, response.StatusCode)
	}
	return nil
}

// LogMailer only logs messages. Used when no SendGrid key is configured.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, email Email) error {
	m.log.Info("email not delivered, no provider configured",
		zap.String("to", email.ToEmail),
		zap.String("subject", email.Subject))
	return nil
}

var (
	welcomeTemplate = template.Must(template.New("welcome").Parse(`
<h2>Welcome, {{.Username}}!</h2>
<p>Thank you for registering with <strong>Road to Self-Care</strong>.</p>
<p>We're excited to have you with us on your journey toward better health!</p>
<p style="color: gray; font-size: 12px;">If you didn't register, you can ignore this message.</p>
`))

	reminderTemplate = template.Must(template.New("reminder").Parse(`
<html>
  <body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2 style="color: #2c3e50;">Reminder</h2>
    <p style="font-size: 16px;">Hello {{.Username}}, this is your reminder for <strong>{{.Label}}</strong> on {{.Date}}.</p>
    <p style="font-size: 16px;">You asked to be reminded {{.Before}} in advance.</p>
    <hr>
    <p style="font-size: 12px; color: #7f8c8d;">This is an automated reminder from Road to Self-Care.</p>
  </body>
</html>
`))

	adHocTemplate = template.Must(template.New("adhoc").Parse(`
<html>
  <body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2 style="color: #2c3e50;">Reminder</h2>
    <p style="font-size: 16px;">{{.Message}}</p>
    <hr>
    <p style="font-size: 12px; color: #7f8c8d;">This is an automated reminder from Road to Self-Care.</p>
  </body>
</html>
`))
)

// EmailService renders and sends the application's emails.
type EmailService struct {
	mailer Mailer
}

func NewEmailService(mailer Mailer) *EmailService {
	return &EmailService{mailer: mailer}
}

// SendWelcome greets a newly registered user.
func (s *EmailService) SendWelcome(ctx context.Context, user models.User) error {
	html, err := render(welcomeTemplate, map[string]string{"Username": user.Username})
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, Email{
		ToEmail:   user.Email,
		ToName:    user.Username,
		Subject:   "Welcome to Road to Self-Care!",
		PlainText: fmt.Sprintf("Welcome, %s! Thank you for registering with Road to Self-Care.", user.Username),
		HTML:      html,
	})
}

// SendReminder notifies the owner of a due reminder.
func (s *EmailService) SendReminder(ctx context.Context, user models.User, r models.Reminder) error {
	date := models.DateOf(r.AnchorDate).Format(models.DateLayout)
	before := describeOffset(r.TimeBefore)

	html, err := render(reminderTemplate, map[string]string{
		"Username": user.Username,
		"Label":    r.Label,
		"Date":     date,
		"Before":   before,
	})
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, Email{
		ToEmail:   user.Email,
		ToName:    user.Username,
		Subject:   fmt.Sprintf("Reminder: %s on %s", r.Label, date),
		PlainText: fmt.Sprintf("Reminder: %s on %s (%s in advance).", r.Label, date, before),
		HTML:      html,
	})
}

// SendAdHoc sends a free-form reminder to any address.
func (s *EmailService) SendAdHoc(ctx context.Context, to, subject, message string) error {
	html, err := render(adHocTemplate, map[string]string{"Message": message})
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, Email{
		ToEmail:   to,
		Subject:   subject,
		PlainText: message,
		HTML:      html,
	})
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}
