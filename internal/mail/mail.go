// Package mail delivers password reset links.
package mail

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"

	"github.com/yukikurage/project-task-api/internal/config"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New picks SMTP when a host is configured and the log mailer otherwise.
func New(cfg config.MailConfig) Mailer {
	if cfg.SMTPHost == "" {
		return LogMailer{}
	}
	return &SMTPMailer{cfg: cfg}
}

// LogMailer writes messages to the process log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	log.Printf("mail to=%s subject=%q\n%s", msg.To, msg.Subject, msg.Body)
	return nil
}

type SMTPMailer struct {
	cfg config.MailConfig
	// send is smtp.SendMail outside tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}

	send := m.send
	if send == nil {
		send = smtp.SendMail
	}

	addr := net.JoinHostPort(m.cfg.SMTPHost, m.cfg.SMTPPort)
	if err := send(addr, auth, m.cfg.From, []string{msg.To}, m.render(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (m *SMTPMailer) render(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// ResetMessage builds the password reset email.
func ResetMessage(to, name, link string) Message {
	return Message{
		To:      to,
		Subject: "Recuperação de senha",
		Body: fmt.Sprintf("Olá %s,\n\nPara redefinir sua senha acesse:\n%s\n\n"+
			"Se você não solicitou a alteração, ignore esta mensagem.\n", name, link),
	}
}
