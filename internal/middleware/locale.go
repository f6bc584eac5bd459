package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/PauloHFS/skystore/internal/contextkeys"
	"github.com/PauloHFS/skystore/internal/i18n"
)

// Locale escolhe o idioma pelo cookie "lang" e, na falta dele, pelo Accept-Language.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := i18n.Default
		if cookie, err := r.Cookie("lang"); err == nil && i18n.Supported(cookie.Value) {
			locale = cookie.Value
		} else {
			locale = fromAcceptLanguage(r.Header.Get("Accept-Language"))
		}

		ctx := context.WithValue(r.Context(), contextkeys.LocaleKey, locale)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func fromAcceptLanguage(header string) string {
	for part := range strings.SplitSeq(header, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		lang, _, _ := strings.Cut(strings.ToLower(tag), "-")
		if i18n.Supported(lang) {
			return lang
		}
	}
	return i18n.Default
}
