package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/yeloe-dev/yeloe/internal/metrics"
)

// EmailSender delivers a single HTML email. Failures on invitation and
// notification paths are logged and swallowed by callers; only the
// registration path surfaces them.
type EmailSender interface {
	Send(to, subject, htmlBody string) error
}

type SendGridSender struct {
	APIKey   string
	From     string
	FromName string
}

// NewSendGridSenderFromEnv returns nil when SENDGRID_API_KEY is not
// configured, which disables outbound email.
func NewSendGridSenderFromEnv() *SendGridSender {
	key := os.Getenv("SENDGRID_API_KEY")
	if key == "" {
		log.Println("SENDGRID_API_KEY not set, outbound email disabled")
		return nil
	}

	from := os.Getenv("EMAIL_FROM")
	if from == "" {
		from = "no-reply@yeloe.app"
	}

	return &SendGridSender{
		APIKey:   key,
		From:     from,
		FromName: "Yeloe",
	}
}

func (s *SendGridSender) Send(to, subject, htmlBody string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(s.FromName, s.From),
		subject,
		mail.NewEmail("", to),
		"",
		htmlBody,
	)

	client := sendgrid.NewSendClient(s.APIKey)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		metrics.EmailsSent.WithLabelValues("error").Inc()
		return err
	}

	if response.StatusCode >= 400 {
		metrics.EmailsSent.WithLabelValues("error").Inc()
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}

	metrics.EmailsSent.WithLabelValues("ok").Inc()
	return nil
}

// Mailer composes the application emails on top of an EmailSender. A
// nil Mailer, or one with a nil sender, drops every message.
type Mailer struct {
	sender EmailSender
}

func NewMailer(sender EmailSender) *Mailer {
	if sender == nil {
		return nil
	}
	return &Mailer{sender: sender}
}

func (m *Mailer) send(to, subject, body string) error {
	if m == nil || m.sender == nil {
		return nil
	}
	return m.sender.Send(to, subject, body)
}

func (m *Mailer) SendVerificationEmail(to, code string) error {
	subject := "Verify Your Email - Welcome to Yeloe!"
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>Verify Your Email Address</h2>
			<p>Welcome to Yeloe! Enter the code below on the verification page:</p>
			<p style="font-size: 32px; font-weight: bold; letter-spacing: 3px;">%s</p>
			<p>This code will expire in 15 minutes.</p>
			<p style="color: #9ca3af; font-size: 12px;">If you didn't create an account with Yeloe, please ignore this email.</p>
		</div>`, code)

	return m.send(to, subject, body)
}

func (m *Mailer) SendPasswordResetEmail(to, token, baseURL string) error {
	resetURL := fmt.Sprintf("%s/reset-password?email=%s&token=%s", baseURL, to, token)

	subject := "Password Reset Request - Yeloe"
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>Reset Your Password</h2>
			<p>We received a request to reset your password. Click the link below to choose a new one:</p>
			<p><a href="%s">Reset Password</a></p>
			<p>This link will expire in 1 hour.</p>
			<p style="color: #9ca3af; font-size: 12px;">If you didn't request a password reset, you can safely ignore this email.</p>
		</div>`, resetURL)

	return m.send(to, subject, body)
}

func (m *Mailer) SendInvitationEmail(to, invitedUserName, inviterName, projectName, invitationLink string) error {
	subject := fmt.Sprintf("You're invited to join '%s'", projectName)
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>Project Invitation</h2>
			<p>Hi %s,</p>
			<p><strong>%s</strong> has invited you to join the project <strong>'%s'</strong>.</p>
			<p>As a team member, you will have view access to the project and be able to submit updates.</p>
			<p><a href="%s">View Invitation</a></p>
			<p>This invitation will expire in 7 days.</p>
			<p style="color: #9ca3af; font-size: 12px;">If you didn't expect this invitation, you can safely ignore this email.</p>
		</div>`, invitedUserName, inviterName, projectName, invitationLink)

	return m.send(to, subject, body)
}
