package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/PauloHFS/skystore/internal/metrics"
	"github.com/google/uuid"
)

type responseWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

const slowRequest = time.Second

// quietPaths não geram log, só métricas.
var quietPaths = map[string]bool{"/health": true, "/metrics": true}

// Logger emite um único log por requisição com tudo que os handlers
// acumularam no evento.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx, event := logging.NewEventContext(r.Context())

		event.Add(
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("user_agent", r.UserAgent()),
		)

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r.WithContext(ctx))

		duration := time.Since(start)
		path := metricPath(r.URL.Path)
		metrics.HttpRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(rw.status)).Inc()
		metrics.HttpDuration.WithLabelValues(path, r.Method).Observe(duration.Seconds())

		if quietPaths[r.URL.Path] && rw.status < 500 {
			return
		}

		event.Add(
			slog.Int("status", rw.status),
			slog.Int("size", rw.size),
			durationMS(duration),
		)

		level := slog.LevelInfo
		switch {
		case rw.status >= 500:
			level = slog.LevelError
		case duration > slowRequest:
			level = slog.LevelWarn
			event.Add(slog.Bool("slow", true))
		}

		logging.Get().Log(ctx, level, "request completed", event.Attrs()...)
	})
}

func durationMS(d time.Duration) slog.Attr {
	return slog.Float64("duration_ms", float64(d.Nanoseconds())/1e6)
}

// metricPath troca segmentos numéricos por ":id" para não explodir a cardinalidade.
func metricPath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
