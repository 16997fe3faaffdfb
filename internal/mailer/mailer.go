// Package mailer renders and delivers transactional email.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/CoderHarshaVardhan/playX/pkg/config"
	"github.com/CoderHarshaVardhan/playX/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Message is a single HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers a message.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// VerificationData fills the verification template.
type VerificationData struct {
	Name      string
	Link      string
	ExpiresIn string
	Year      int
}

const verificationSubject = "Verify your playX account"

// RenderVerification builds the email that carries the verification link.
func RenderVerification(to string, d VerificationData) (Message, error) {
	if d.Year == 0 {
		d.Year = time.Now().Year()
	}
	if d.ExpiresIn == "" {
		d.ExpiresIn = "24 hours"
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "verify_email.html", d); err != nil {
		return Message{}, fmt.Errorf("render verification email: %w", err)
	}
	return Message{To: to, Subject: verificationSubject, HTML: buf.String()}, nil
}

// VerificationLink is the client route that confirms a token.
func VerificationLink(clientURL, token string) string {
	return strings.TrimRight(clientURL, "/") + "/verify/" + token
}

// SMTPMailer sends through an authenticated SMTP relay.
type SMTPMailer struct {
	addr string
	host string
	from string
	auth smtp.Auth
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	from := cfg.MailFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &SMTPMailer{
		addr: net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		host: cfg.SMTPHost,
		from: from,
		auth: smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost),
		send: smtp.SendMail,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw := buildMIME(m.from, msg)
	if err := m.send(m.addr, m.auth, m.from, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.host, err)
	}
	return nil
}

func buildMIME(from string, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: \"playX\" <" + from + ">\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// LogMailer logs messages instead of sending them. Used when SMTP is not
// configured so local sign-ups still surface the link.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	logger.Ctx(ctx).Info("email not sent, smtp disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("bytes", len(msg.HTML)),
	)
	return nil
}

// New picks the SMTP mailer when configured and the log mailer otherwise.
func New(cfg *config.Config) Mailer {
	if cfg.MailEnabled() {
		return NewSMTPMailer(cfg)
	}
	return LogMailer{}
}
