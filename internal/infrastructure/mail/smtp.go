package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/gitedu/docuvault/internal/core/ports"
)

// Config captures the SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// SMTPNotifier delivers notifications through a plain SMTP relay.
type SMTPNotifier struct {
	cfg Config
}

func NewSMTPNotifier(cfg Config) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

// Send delivers one message. The context is honored only between attempts;
// net/smtp itself does not take a context, so a hung relay holds the calling
// worker until the TCP layer gives up.
func (n *SMTPNotifier) Send(ctx context.Context, msg ports.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"utf-8\"\r\n\r\n%s\r\n",
		n.cfg.From, msg.To, msg.Subject, msg.Body,
	)

	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{msg.To}, []byte(body)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}
