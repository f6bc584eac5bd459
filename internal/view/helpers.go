package view

import (
	"context"

	"github.com/PauloHFS/skystore/internal/contextkeys"
	"github.com/PauloHFS/skystore/internal/policies"
)

// CSRFToken retorna o token do contexto
func CSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(contextkeys.CSRFTokenKey).(string); ok {
		return token
	}
	return ""
}

func Nonce(ctx context.Context) string {
	nonce, _ := ctx.Value(contextkeys.NonceKey).(string)
	return nonce
}

func Locale(ctx context.Context) string {
	if locale, ok := ctx.Value(contextkeys.LocaleKey).(string); ok {
		return locale
	}
	return "pt"
}

// Subject devolve o sujeito da requisição; anônimo se não houver.
func Subject(ctx context.Context) policies.Subject {
	subj, _ := ctx.Value(contextkeys.SubjectKey).(policies.Subject)
	return subj
}
