package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PauloHFS/skystore/internal/db"
	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/PauloHFS/skystore/internal/middleware"
	"github.com/PauloHFS/skystore/internal/policies"
	"github.com/PauloHFS/skystore/internal/routes"
	"github.com/PauloHFS/skystore/internal/services"
	"github.com/PauloHFS/skystore/internal/token"
	"github.com/PauloHFS/skystore/internal/upload"
	"github.com/PauloHFS/skystore/internal/validator"
	"github.com/PauloHFS/skystore/internal/view/pages"
)

func emailDomain(email string) string {
	if _, domain, ok := strings.Cut(email, "@"); ok {
		return domain
	}
	return ""
}

// logIn troca o token da sessão antes de gravar o usuário, evitando fixação de sessão.
func logIn(deps HandlerDeps, r *http.Request, user db.User) error {
	if err := deps.SessionManager.RenewToken(r.Context()); err != nil {
		return fmt.Errorf("failed to renew session: %w", err)
	}
	deps.SessionManager.Put(r.Context(), middleware.SessionUserKey, user.ID)
	return nil
}

func handleLoginForm(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	render(w, r, http.StatusOK, pages.Login("", ""))
	return nil
}

func handleLogin(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	logging.AddToEvent(r.Context(),
		slog.String("operation", "login"),
		slog.String("email_domain", emailDomain(email)),
	)

	user, err := deps.Users.Authenticate(r.Context(), email, password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		logging.AddToEvent(r.Context(), slog.String("outcome", "error"), slog.String("error_reason", "invalid_credentials"))
		render(w, r, http.StatusUnauthorized, pages.Login(email, "Usuário ou senha inválidos"))
		return nil
	case errors.Is(err, services.ErrInactiveAccount):
		logging.AddToEvent(r.Context(), slog.String("outcome", "error"), slog.String("error_reason", "inactive_account"))
		render(w, r, http.StatusUnauthorized, pages.Login(email, "Confirme seu e-mail antes de entrar"))
		return nil
	case err != nil:
		return err
	}

	if err := logIn(deps, r, user); err != nil {
		return err
	}
	logging.AddToEvent(r.Context(), slog.String("outcome", "success"), slog.Int64("user_id", user.ID))
	http.Redirect(w, r, routes.Products, http.StatusSeeOther)
	return nil
}

func handleLogout(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	if err := deps.SessionManager.Destroy(r.Context()); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	http.Redirect(w, r, routes.Home, http.StatusSeeOther)
	return nil
}

func handleRegisterForm(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	render(w, r, http.StatusOK, pages.Register("", nil))
	return nil
}

func handleRegister(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	logging.AddToEvent(r.Context(),
		slog.String("operation", "register"),
		slog.String("email_domain", emailDomain(email)),
	)

	if _, err := deps.Users.Register(r.Context(), email, password); err != nil {
		if fe, ok := formError(err); ok {
			logging.AddToEvent(r.Context(), slog.String("outcome", "error"), slog.String("error_reason", "validation_failed"))
			render(w, r, http.StatusUnprocessableEntity, pages.Register(email, fe))
			return nil
		}
		return err
	}

	logging.AddToEvent(r.Context(), slog.String("outcome", "success"))
	http.Redirect(w, r, routes.ConfirmSent, http.StatusSeeOther)
	return nil
}

// handleConfirm ativa a conta e já inicia a sessão. Links inválidos ou
// expirados levam à página de falha e a conta continua inativa.
func handleConfirm(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	logging.AddToEvent(r.Context(), slog.String("operation", "confirm_email"))

	user, err := deps.Users.Confirm(r.Context(), r.PathValue("uid"), r.PathValue("token"))
	if err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			logging.AddToEvent(r.Context(), slog.String("outcome", "error"), slog.String("error_reason", "invalid_token"))
			http.Redirect(w, r, routes.ConfirmFailed, http.StatusSeeOther)
			return nil
		}
		return err
	}

	if err := logIn(deps, r, user); err != nil {
		return err
	}
	logging.AddToEvent(r.Context(), slog.String("outcome", "success"), slog.Int64("user_id", user.ID))
	http.Redirect(w, r, routes.ConfirmDone, http.StatusSeeOther)
	return nil
}

func handleProfile(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	user, _ := middleware.GetUser(r.Context())
	form := validator.ProfileForm{Phone: user.Phone.String, Country: user.Country.String}
	notice := ""
	if r.URL.Query().Get("saved") == "1" {
		notice = "Perfil atualizado"
	}
	render(w, r, http.StatusOK, pages.Profile(user, form, nil, notice))
	return nil
}

func handleProfileUpdate(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	logging.AddToEvent(r.Context(), slog.String("operation", "profile_update"))
	if err := parseForm(r); err != nil {
		return err
	}
	user, _ := middleware.GetUser(r.Context())
	form := validator.ProfileForm{
		Phone:   strings.TrimSpace(r.FormValue("phone")),
		Country: strings.TrimSpace(r.FormValue("country")),
	}

	avatarURL, fe, err := saveImage(deps, r, "avatar", upload.AvatarConfig)
	if err != nil {
		return err
	}
	if fe != nil {
		render(w, r, http.StatusUnprocessableEntity, pages.Profile(user, form, fe, ""))
		return nil
	}
	if avatarURL == "" {
		avatarURL = user.AvatarUrl.String
	}

	if err := deps.Users.UpdateProfile(r.Context(), middleware.GetSubject(r.Context()), form, avatarURL); err != nil {
		if fe, ok := formError(err); ok {
			render(w, r, http.StatusUnprocessableEntity, pages.Profile(user, form, fe, ""))
			return nil
		}
		return err
	}
	http.Redirect(w, r, routes.Profile+"?saved=1", http.StatusSeeOther)
	return nil
}

// handleNewPassword troca a senha e encerra a sessão; a nova senha chega por e-mail.
func handleNewPassword(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	logging.AddToEvent(r.Context(), slog.String("operation", "generate_new_password"))
	if err := deps.Users.GenerateNewPassword(r.Context(), middleware.GetSubject(r.Context())); err != nil {
		return err
	}
	if err := deps.SessionManager.Destroy(r.Context()); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	http.Redirect(w, r, routes.Login, http.StatusSeeOther)
	return nil
}

func handleRegenerateForm(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	render(w, r, http.StatusOK, pages.RegeneratePassword("", nil, ""))
	return nil
}

// handleRegenerate responde 404 para e-mail desconhecido.
func handleRegenerate(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	email := strings.TrimSpace(r.FormValue("email"))
	logging.AddToEvent(r.Context(),
		slog.String("operation", "regenerate_password"),
		slog.String("email_domain", emailDomain(email)),
	)

	if err := validator.ValidateEmail(email); err != nil {
		fe := &validator.FormError{}
		fe.Add("email", err.Error())
		render(w, r, http.StatusUnprocessableEntity, pages.RegeneratePassword(email, fe, ""))
		return nil
	}
	if err := deps.Users.RegeneratePassword(r.Context(), email); err != nil {
		return err
	}
	render(w, r, http.StatusOK, pages.RegeneratePassword("", nil, "Uma nova senha foi enviada para o seu e-mail"))
	return nil
}

func handleUserList(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	subj := middleware.GetSubject(r.Context())
	users, err := deps.Users.List(r.Context(), subj)
	if err != nil {
		return err
	}
	render(w, r, http.StatusOK, pages.UserList(users, subj))
	return nil
}

func handleUserToggle(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	logging.AddToEvent(r.Context(), slog.String("operation", "user_toggle"), slog.Int64("target_user_id", id))
	if _, err := deps.Users.ToggleActive(r.Context(), middleware.GetSubject(r.Context()), id); err != nil {
		return err
	}
	http.Redirect(w, r, routes.Users, http.StatusSeeOther)
	return nil
}

func handleModeratorForm(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	if err := policies.CanCreateModerator(middleware.GetSubject(r.Context())); err != nil {
		return err
	}
	render(w, r, http.StatusOK, pages.ModeratorForm("", nil, ""))
	return nil
}

func handleModeratorCreate(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	email := strings.TrimSpace(r.FormValue("email"))
	logging.AddToEvent(r.Context(), slog.String("operation", "create_moderator"))

	user, err := deps.Users.CreateModerator(r.Context(), middleware.GetSubject(r.Context()), email, r.FormValue("password"))
	if err != nil {
		if fe, ok := formError(err); ok {
			render(w, r, http.StatusUnprocessableEntity, pages.ModeratorForm(email, fe, ""))
			return nil
		}
		return err
	}
	logging.AddToEvent(r.Context(), slog.Int64("moderator_id", user.ID))
	render(w, r, http.StatusOK, pages.ModeratorForm("", nil, "Moderador "+user.Email+" criado"))
	return nil
}
