package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/PauloHFS/skystore/internal/contextkeys"
	"github.com/PauloHFS/skystore/internal/db"
	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/PauloHFS/skystore/internal/policies"
	"github.com/PauloHFS/skystore/internal/routes"
	"github.com/alexedwards/scs/v2"
)

// SessionUserKey é a chave do id do usuário na sessão.
const SessionUserKey = "user_id"

type SubjectResolver interface {
	Subject(ctx context.Context, u db.User) (policies.Subject, error)
}

// LoadSubject coloca no contexto o usuário da sessão e o sujeito já resolvido.
// Sem sessão válida a requisição segue como anônima.
func LoadSubject(sm *scs.SessionManager, queries *db.Queries, resolver SubjectResolver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := sm.GetInt64(ctx, SessionUserKey)
		if userID == 0 {
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, contextkeys.SubjectKey, policies.Subject{})))
			return
		}

		user, err := queries.GetUserByID(ctx, userID)
		if err != nil || !user.IsActive {
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				logging.Get().Warn("failed to load session user", slog.Int64("user_id", userID), slog.Any("error", err))
			}
			_ = sm.Destroy(ctx)
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, contextkeys.SubjectKey, policies.Subject{})))
			return
		}

		subj, err := resolver.Subject(ctx, user)
		if err != nil {
			logging.Get().Error("failed to resolve subject", slog.Int64("user_id", userID), slog.Any("error", err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		logging.AddToEvent(ctx,
			slog.Int64("user_id", user.ID),
			slog.String("user_role", subj.Role().String()),
		)

		ctx = context.WithValue(ctx, contextkeys.UserContextKey, user)
		ctx = context.WithValue(ctx, contextkeys.SubjectKey, subj)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth redireciona para o login quando não há usuário autenticado.
// Deve rodar depois de LoadSubject.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetSubject(r.Context()).Authenticated {
			redirectLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func redirectLogin(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", routes.Login)
	} else {
		http.Redirect(w, r, routes.Login, http.StatusSeeOther)
	}
}

// GetUser recupera o usuário do contexto de forma segura
func GetUser(ctx context.Context) (db.User, bool) {
	user, ok := ctx.Value(contextkeys.UserContextKey).(db.User)
	return user, ok
}

// GetSubject devolve o sujeito da requisição; anônimo se não houver.
func GetSubject(ctx context.Context) policies.Subject {
	subj, _ := ctx.Value(contextkeys.SubjectKey).(policies.Subject)
	return subj
}
