package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/PauloHFS/skystore/internal/contextkeys"
)

// csp monta a política. Scripts só com nonce (htmx vem do unpkg), estilos do
// Pico via jsDelivr (o htmx injeta estilos inline), imagens locais do /storage.
func csp(nonce string) string {
	return strings.Join([]string{
		"default-src 'self'",
		"script-src 'self' 'nonce-" + nonce + "' https://unpkg.com",
		"style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net",
		"img-src 'self' data:",
		"font-src 'self'",
		"form-action 'self'",
		"base-uri 'self'",
		"frame-ancestors 'none'",
	}, "; ")
}

func SecurityHeaders(isProd bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce := generateNonce()

			h := w.Header()
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			h.Set("Content-Security-Policy", csp(nonce))
			if isProd {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			ctx := context.WithValue(r.Context(), contextkeys.NonceKey, nonce)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func generateNonce() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
