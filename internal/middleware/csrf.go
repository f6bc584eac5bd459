package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/PauloHFS/skystore/internal/contextkeys"
	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/justinas/nosurf"
)

// CSRF valida o token em todo POST e deixa o token da requisição no contexto
// para os formulários (campo csrf_token).
func CSRF(secure bool, next http.Handler) http.Handler {
	h := nosurf.New(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), contextkeys.CSRFTokenKey, nosurf.Token(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	}))
	h.SetBaseCookie(http.Cookie{
		HttpOnly: true,
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reason := "unknown"
		if err := nosurf.Reason(r); err != nil {
			reason = err.Error()
		}
		logging.AddToEvent(r.Context(), slog.String("csrf_failure", reason))
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
	}))
	return h
}
