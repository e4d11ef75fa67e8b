package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/port"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/config"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/logger"
)

// SMTPSender implements port.MailSender over plain SMTP with optional auth.
type SMTPSender struct {
	cfg    config.SMTPSettings
	logger *zap.Logger
	send   func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender constructs a sender from SMTP settings.
func NewSMTPSender(cfg config.SMTPSettings, log *zap.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, logger: log, send: smtp.SendMail}
}

// Send delivers a single HTML message. The context only gates the attempt;
// net/smtp has no cancellation once the dial starts.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("recipient address is required")
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	msg := buildMessage(s.cfg.From, to, subject, htmlBody)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	if err := s.send(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	s.logger.Info("mail sent",
		zap.String("to", logger.MaskEmail(to)),
		zap.String("subject", subject),
	)

	return nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// StubSender logs mail instead of delivering it. Useful for development
// environments without an SMTP relay.
type StubSender struct {
	logger *zap.Logger
}

// NewStubSender constructs a development-friendly mail sender.
func NewStubSender(log *zap.Logger) *StubSender {
	return &StubSender{logger: log}
}

// Send logs the message that would have been delivered.
func (s *StubSender) Send(_ context.Context, to, subject, htmlBody string) error {
	s.logger.Info("stub mail sent",
		zap.String("to", logger.MaskEmail(to)),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(htmlBody)),
	)
	return nil
}

var (
	_ port.MailSender = (*SMTPSender)(nil)
	_ port.MailSender = (*StubSender)(nil)
)
