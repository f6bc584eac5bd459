package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/PauloHFS/skystore/internal/httpclient"
	"github.com/PauloHFS/skystore/internal/logging"
)

var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrProviderNotActive = errors.New("provider not active")
)

// Provider é um Sender que pode estar indisponível (sem credenciais).
type Provider interface {
	Sender
	Name() string
	Available() bool
}

// MultiProvider tenta os provedores em ordem. Quando um deles recusa por cota,
// passa para o próximo e guarda qual funcionou para começar por ele.
type MultiProvider struct {
	providers []Provider
	preferred atomic.Int32
}

func NewMultiProvider(providers ...Provider) *MultiProvider {
	return &MultiProvider{providers: providers}
}

func (mp *MultiProvider) Send(ctx context.Context, to, subject, body string) error {
	start := int(mp.preferred.Load())
	var lastErr error
	for i := range mp.providers {
		idx := (start + i) % len(mp.providers)
		p := mp.providers[idx]
		if !p.Available() {
			continue
		}

		err := p.Send(ctx, to, subject, body)
		if err == nil {
			mp.preferred.Store(int32(idx))
			logging.AddToEvent(ctx, slog.String("mail_provider", p.Name()))
			return nil
		}
		if !errors.Is(err, ErrRateLimitExceeded) {
			return fmt.Errorf("%s: %w", p.Name(), err)
		}
		logging.AddToEvent(ctx, slog.String("mail_rate_limited", p.Name()))
		lastErr = err
	}

	if lastErr != nil {
		return lastErr
	}
	return ErrProviderNotActive
}

// APIError é a resposta de erro da API do Resend.
type APIError struct {
	Status  int    `json:"-"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("resend: status %d", e.Status)
	}
	return fmt.Sprintf("resend: %s - %s", e.Name, e.Message)
}

// Is faz um 429 casar com ErrRateLimitExceeded.
func (e *APIError) Is(target error) bool {
	return target == ErrRateLimitExceeded && e.Status == http.StatusTooManyRequests
}

type ResendProvider struct {
	from    string
	enabled bool
	client  *httpclient.Client
	baseURL string
}

func NewResendProvider(apiKey, fromEmail, fromName string) *ResendProvider {
	from := fromEmail
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromEmail)
	}
	return &ResendProvider{
		from:    from,
		enabled: apiKey != "",
		client: httpclient.New(httpclient.Config{
			Name:        "resend",
			Timeout:     30 * time.Second,
			BearerToken: apiKey,
		}),
		baseURL: "https://api.resend.com",
	}
}

type resendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (r *ResendProvider) Send(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(resendRequest{From: r.from, To: to, Subject: subject, HTML: body})
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 400 {
		return nil
	}
	apiErr := &APIError{Status: resp.StatusCode}
	_ = json.NewDecoder(resp.Body).Decode(apiErr)
	return apiErr
}

func (r *ResendProvider) Name() string    { return "resend" }
func (r *ResendProvider) Available() bool { return r.enabled }
