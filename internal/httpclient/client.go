package httpclient

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/PauloHFS/skystore/internal/metrics"
)

// Client é o http.Client usado para APIs externas (hoje só o provedor de e-mail).
type Client struct {
	*http.Client
	name string
}

type Config struct {
	Name    string
	Timeout time.Duration
	// BearerToken, quando preenchido, vai no header Authorization de toda requisição.
	BearerToken string
}

func New(cfg Config) *Client {
	var rt http.RoundTripper = &loggingTransport{
		RoundTripper: http.DefaultTransport,
		name:         cfg.Name,
	}
	if cfg.BearerToken != "" {
		rt = &bearerTransport{RoundTripper: rt, token: cfg.BearerToken}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		Client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: rt,
		},
		name: cfg.Name,
	}
}

func (c *Client) Name() string { return c.name }

type loggingTransport struct {
	http.RoundTripper
	name string
}

// RoundTrip registra a chamada no evento da requisição atual, se houver, e
// num log próprio. A query string fica de fora do log.
func (t *loggingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.RoundTripper.RoundTrip(r)

	attrs := []slog.Attr{
		slog.String("http_client", t.name),
		slog.String("method", r.Method),
		slog.String("host", r.URL.Host),
		slog.String("path", r.URL.Path),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	}

	if err != nil {
		metrics.OutboundRequests.WithLabelValues(t.name, "error").Inc()
		attrs = append(attrs, slog.String("error", err.Error()))
		logging.AddToEvent(r.Context(), slog.String("outbound_error", t.name))
		logging.Get().LogAttrs(r.Context(), slog.LevelError, "outbound request failed", attrs...)
		return nil, err
	}

	metrics.OutboundRequests.WithLabelValues(t.name, statusClass(resp.StatusCode)).Inc()
	attrs = append(attrs, slog.Int("status", resp.StatusCode))

	level := slog.LevelInfo
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	logging.Get().LogAttrs(r.Context(), level, "outbound request completed", attrs...)
	return resp, nil
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}

type bearerTransport struct {
	http.RoundTripper
	token string
}

func (t *bearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	// RoundTrippers não devem alterar a requisição original
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+t.token)
	return t.RoundTripper.RoundTrip(r)
}
