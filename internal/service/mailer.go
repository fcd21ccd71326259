package service

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// Mailer sends templated notification emails. Delivery failures are the
// caller's responsibility to log and swallow: a failed email never aborts
// the state transition that triggered it.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer constructs an SMTP-backed mailer.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send delivers one HTML email.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	var message strings.Builder
	message.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	message.WriteString(fmt.Sprintf("To: %s\r\n", to))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(message.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	return nil
}

// LogMailer writes notifications to the log instead of delivering them.
// Used in development and tests.
type LogMailer struct {
	logger zerolog.Logger
}

// NewLogMailer constructs a logging mailer.
func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger.With().Str("component", "mailer").Logger()}
}

// Send logs the notification and reports success.
func (m *LogMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.logger.Info().Str("to", to).Str("subject", subject).Msg("notification email")
	return nil
}

// emailHTML renders the shared notification layout used across all
// transactional mail.
func emailHTML(title, message, buttonText, buttonURL string) string {
	var body strings.Builder
	body.WriteString(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;padding:24px;">`)
	body.WriteString(fmt.Sprintf("<h2>%s</h2>", title))
	body.WriteString(fmt.Sprintf("<p>%s</p>", message))
	if buttonText != "" && buttonURL != "" {
		body.WriteString(fmt.Sprintf(
			`<p><a href="%s" style="background:#2563eb;color:#fff;padding:10px 20px;border-radius:6px;text-decoration:none;">%s</a></p>`,
			buttonURL, buttonText,
		))
	}
	body.WriteString(`<p style="color:#6b7280;font-size:12px;">TuteSkillz</p>`)
	body.WriteString("</div>")

	return body.String()
}
