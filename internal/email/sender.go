// Package email delivers notification emails. SMTP when configured, a
// logging sender otherwise so development and CI need no mail server.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/NarakCODE/real-estate-management/internal/config"
)

// Sender defines the interface for sending emails.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender implements Sender over net/smtp.
type SMTPSender struct {
	cfg  *config.Config
	auth smtp.Auth
	addr string
}

// NewSender creates an SMTP-backed Sender, or a logging Sender when no SMTP
// host is configured.
func NewSender(cfg *config.Config, logger *zap.Logger) Sender {
	if cfg.SmtpHost == "" {
		logger.Info("SMTP host not configured, using logging email sender")
		return &LoggingSender{logger: logger}
	}

	auth := smtp.PlainAuth("", cfg.SmtpUsername, cfg.SmtpPassword, cfg.SmtpHost)
	return &SMTPSender{
		cfg:  cfg,
		auth: auth,
		addr: fmt.Sprintf("%s:%d", cfg.SmtpHost, cfg.SmtpPort),
	}
}

// buildMessage assembles a plain-text RFC 5322 message.
func buildMessage(from, to, subject, body string) []byte {
	var sb strings.Builder
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return []byte(sb.String())
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := buildMessage(s.cfg.SmtpFromAddress, to, subject, body)
	if err := smtp.SendMail(s.addr, s.auth, s.cfg.SmtpFromAddress, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp error sending to %s: %w", to, err)
	}
	return nil
}

// LoggingSender logs emails instead of delivering them.
type LoggingSender struct {
	logger *zap.Logger
}

func (s *LoggingSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.Info("email (logged, not sent)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}
