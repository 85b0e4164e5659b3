package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"videohub/internal/config"
)

// Sender delivers messages through an SMTP relay. With incomplete email
// settings it only logs what would have been sent.
type Sender struct {
	host     string
	port     int
	user     string
	password string
	from     string
	fromName string
	enabled  bool
	logger   *slog.Logger
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSender(cfg *config.Config, logger *slog.Logger) *Sender {
	s := &Sender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.EmailsFromEmail,
		fromName: cfg.EmailsFromName,
		enabled:  cfg.EmailsEnabled(),
		logger:   logger,
		sendMail: smtp.SendMail,
	}
	if !s.enabled {
		logger.Warn("email delivery disabled: incomplete SMTP settings")
	}
	return s
}

func (s *Sender) Send(ctx context.Context, msg Message) error {
	if !s.enabled {
		s.logger.Info("email skipped", "to", msg.To, "subject", msg.Subject)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.password, s.host)
	}
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	if err := s.sendMail(addr, auth, s.from, []string{msg.To}, s.build(msg)); err != nil {
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}
	s.logger.Info("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (s *Sender) build(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.fromName, s.from)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}
