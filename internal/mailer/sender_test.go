package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PauloHFS/skystore/internal/config"
)

func TestMockMailer_Send(t *testing.T) {
	mock := NewMock()

	err := mock.Send(context.Background(), "to@example.com", "Test Subject", "<p>Test Body</p>")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if mock.GetEmailCount() != 1 {
		t.Errorf("expected 1 email, got %d", mock.GetEmailCount())
	}

	lastEmail := mock.GetLastEmail()
	if lastEmail.To != "to@example.com" {
		t.Errorf("expected to 'to@example.com', got %s", lastEmail.To)
	}
	if lastEmail.Subject != "Test Subject" {
		t.Errorf("expected subject 'Test Subject', got %s", lastEmail.Subject)
	}
}

func TestMockMailer_SimulateError(t *testing.T) {
	mock := NewMock()
	mock.ShouldErr = true

	err := mock.Send(context.Background(), "to@example.com", "Subject", "Body")
	if err != ErrSimulatedFailure {
		t.Errorf("expected ErrSimulatedFailure, got %v", err)
	}

	mock.Reset()
	if mock.GetEmailCount() != 0 || mock.GetLastEmail() != nil {
		t.Error("expected empty mock after reset")
	}
}

func TestMailer_CanceledContext(t *testing.T) {
	m := NewSMTP(&config.Config{SMTPHost: "localhost", SMTPPort: "1", SMTPFrom: "noreply@skystore.local"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := m.Send(ctx, "a@b.com", "s", "b"); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("noreply@skystore.local", "a@b.com", "Новый пароль", "<p>x</p>",
		time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))

	if !strings.Contains(msg, "Subject: =?utf-8?q?") {
		t.Errorf("subject must be Q-encoded: %s", msg)
	}
	if !strings.Contains(msg, "Date: Fri, 01 Mar 2024 12:00:00 +0000\r\n") {
		t.Errorf("missing date header: %s", msg)
	}
	if !strings.HasSuffix(msg, "\r\n\r\n<p>x</p>") {
		t.Errorf("body must follow a blank line: %q", msg)
	}
}

func TestResendProvider(t *testing.T) {
	var got resendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewResendProvider("key", "noreply@skystore.local", "Skystore")
	p.baseURL = srv.URL

	if err := p.Send(context.Background(), "a@b.com", "Olá", "<p>x</p>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.From != "Skystore <noreply@skystore.local>" || got.To != "a@b.com" {
		t.Errorf("unexpected request %+v", got)
	}
}

func TestResendProvider_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"name":"rate_limit_exceeded","message":"slow down"}`))
	}))
	defer srv.Close()

	p := NewResendProvider("key", "noreply@skystore.local", "")
	p.baseURL = srv.URL

	err := p.Send(context.Background(), "a@b.com", "s", "b")
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Name != "rate_limit_exceeded" {
		t.Errorf("unexpected api error %+v", apiErr)
	}

	smtp := &stubProvider{name: "smtp", available: true}
	if err := NewMultiProvider(p, smtp).Send(context.Background(), "a@b.com", "s", "b"); err != nil {
		t.Fatalf("expected fallback to smtp, got %v", err)
	}
	if smtp.calls != 1 {
		t.Errorf("expected smtp to be used once, got %d", smtp.calls)
	}
}

type stubProvider struct {
	name      string
	available bool
	err       error
	calls     int
}

func (s *stubProvider) Send(context.Context, string, string, string) error {
	s.calls++
	return s.err
}
func (s *stubProvider) Name() string    { return s.name }
func (s *stubProvider) Available() bool { return s.available }

func TestMultiProvider_FallsBackOnRateLimit(t *testing.T) {
	limited := &stubProvider{name: "resend", available: true, err: ErrRateLimitExceeded}
	smtp := &stubProvider{name: "smtp", available: true}

	mp := NewMultiProvider(limited, smtp)
	if err := mp.Send(context.Background(), "a@b.com", "s", "b"); err != nil {
		t.Fatalf("expected fallback to succeed, got %v", err)
	}
	if limited.calls != 1 || smtp.calls != 1 {
		t.Errorf("unexpected calls: resend=%d smtp=%d", limited.calls, smtp.calls)
	}
}

func TestMultiProvider_NoneAvailable(t *testing.T) {
	mp := NewMultiProvider(&stubProvider{name: "resend"})
	if err := mp.Send(context.Background(), "a@b.com", "s", "b"); err != ErrProviderNotActive {
		t.Errorf("expected ErrProviderNotActive, got %v", err)
	}
}

func TestMessages(t *testing.T) {
	_, body := ConfirmationEmail("http://localhost:8080/users/confirm/MQ/abc?x=<y>")
	if !strings.Contains(body, "&lt;y&gt;") {
		t.Errorf("link must be escaped: %s", body)
	}

	_, body = PasswordEmail("s3cr3t")
	if !strings.Contains(body, "s3cr3t") {
		t.Error("password missing from body")
	}
}

func TestNew_SelectsTransport(t *testing.T) {
	if _, ok := New(&config.Config{}).(*Mailer); !ok {
		t.Error("expected SMTP mailer without resend key")
	}
	if _, ok := New(&config.Config{ResendAPIKey: "k"}).(*MultiProvider); !ok {
		t.Error("expected multi provider with resend key")
	}
}

var (
	_ Sender   = (*MockMailer)(nil)
	_ Provider = (*Mailer)(nil)
	_ Provider = (*ResendProvider)(nil)
)
