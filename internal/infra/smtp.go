package infra

import (
	"fmt"
	"net/smtp"
	"net/textproto"
	"strings"

	"github.com/DerliscrDev/bodega-eirete/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends plain-text emails with an optional file attachment over SMTP.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Mensaje builds the email without sending it.
func (m *Mailer) Mensaje(to, subject, body, adjunto string) (*email.Email, error) {
	if strings.TrimSpace(to) == "" {
		return nil, fmt.Errorf("mailer: destinatario vacio")
	}
	e := &email.Email{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Text:    []byte(body),
		Headers: textproto.MIMEHeader{},
	}
	if adjunto != "" {
		if _, err := e.AttachFile(adjunto); err != nil {
			return nil, fmt.Errorf("mailer: adjuntar %s: %w", adjunto, err)
		}
	}
	return e, nil
}

// Send delivers one email. Authentication is skipped when no SMTP user is
// configured (local relays such as MailHog).
func (m *Mailer) Send(to, subject, body, adjunto string) error {
	e, err := m.Mensaje(to, subject, body, adjunto)
	if err != nil {
		return err
	}
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	if err := e.Send(m.addr, auth); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}
