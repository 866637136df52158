package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/atlastours/atlas-backend/pkg/logger"
)

// Mailer delivers out-of-band notifications to a user
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPConfig holds the SMTP relay settings
type SMTPConfig struct {
	Host     string
	Port     string
	Email    string
	Password string
}

type smtpMailer struct {
	cfg SMTPConfig
}

// New returns an SMTP-backed mailer, or a dev mailer that only logs when no
// SMTP credentials are configured.
func New(cfg SMTPConfig) Mailer {
	if cfg.Email == "" || cfg.Password == "" {
		return &devMailer{}
	}
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		m.cfg.Email, to, subject, body,
	))

	auth := smtp.PlainAuth("", m.cfg.Email, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.Email, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Debug("Email sent", map[string]interface{}{
		"to":      to,
		"subject": subject,
	})
	return nil
}

// devMailer logs the message instead of delivering it
type devMailer struct{}

func (m *devMailer) Send(to, subject, body string) error {
	logger.Info("[DEV MODE] Email not sent", map[string]interface{}{
		"to":      to,
		"subject": subject,
		"body":    body,
	})
	return nil
}
