package mailer

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/PauloHFS/skystore/internal/config"
)

var ErrSimulatedFailure = errors.New("simulated failure")

// Sender entrega uma mensagem. O remetente vem da configuração.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New escolhe o transporte: Resend com fallback para SMTP quando há chave de API.
func New(cfg *config.Config) Sender {
	smtpSender := NewSMTP(cfg)
	if cfg.ResendAPIKey == "" {
		return smtpSender
	}
	return NewMultiProvider(NewResendProvider(cfg.ResendAPIKey, cfg.SMTPFrom, "Skystore"), smtpSender)
}

type Mailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTP(cfg *config.Config) *Mailer {
	addr := fmt.Sprintf("%s:%s", cfg.SMTPHost, cfg.SMTPPort)
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}

	return &Mailer{
		addr: addr,
		auth: auth,
		from: cfg.SMTPFrom,
	}
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, buildMessage(m.from, to, subject, body, time.Now()))
}

// buildMessage monta a mensagem HTML. O assunto vai em Q-encoding porque os
// textos são em russo.
func buildMessage(from, to, subject, body string, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

func (m *Mailer) Name() string    { return "smtp" }
func (m *Mailer) Available() bool { return true }

type Email struct {
	To      string
	Subject string
	Body    string
}

type MockMailer struct {
	mu        sync.Mutex
	emails    []Email
	ShouldErr bool
}

func NewMock() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ShouldErr {
		return ErrSimulatedFailure
	}

	m.emails = append(m.emails, Email{
		To:      to,
		Subject: subject,
		Body:    body,
	})
	return nil
}

func (m *MockMailer) GetEmailCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.emails)
}

func (m *MockMailer) GetLastEmail() *Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.emails) == 0 {
		return nil
	}
	e := m.emails[len(m.emails)-1]
	return &e
}

func (m *MockMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails = nil
	m.ShouldErr = false
}
