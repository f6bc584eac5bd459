package web

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/PauloHFS/skystore/internal/config"
	"github.com/PauloHFS/skystore/internal/db"
	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/PauloHFS/skystore/internal/middleware"
	"github.com/PauloHFS/skystore/internal/policies"
	"github.com/PauloHFS/skystore/internal/routes"
	"github.com/PauloHFS/skystore/internal/services"
	"github.com/PauloHFS/skystore/internal/upload"
	"github.com/PauloHFS/skystore/internal/validator"
	"github.com/PauloHFS/skystore/internal/view/pages"
	"github.com/a-h/templ"
	"github.com/alexedwards/scs/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxUploadMemory = 10 << 20

type HandlerDeps struct {
	DB             *sql.DB
	Queries        *db.Queries
	SessionManager *scs.SessionManager
	Config         *config.Config
	Logger         *slog.Logger

	Catalog *services.CatalogService
	Blog    *services.BlogService
	Users   *services.UserService
	Stats   *services.StatsService

	Uploads upload.Store
	// AuthLimiter protege os POSTs de login e cadastro. Opcional.
	AuthLimiter *middleware.RateLimiter
}

// AppHandler é um tipo customizado que permite retornar erros dos handlers
type AppHandler func(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error

// Handle envolve nosso AppHandler para conformidade com http.HandlerFunc.
// Erros de política viram 404/403; o resto é logado e vira 500.
func Handle(deps HandlerDeps, h AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(deps, w, r)
		if err == nil {
			return
		}

		switch {
		case errors.Is(err, policies.ErrNotFound), errors.Is(err, services.ErrUserNotFound):
			logging.AddToEvent(r.Context(), slog.String("outcome", "not_found"))
			render(w, r, http.StatusNotFound, pages.ErrorPage(http.StatusNotFound))
		case errors.Is(err, policies.ErrForbidden):
			logging.AddToEvent(r.Context(), slog.String("outcome", "forbidden"))
			render(w, r, http.StatusForbidden, pages.ErrorPage(http.StatusForbidden))
		default:
			logging.Get().Error("request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
			logging.AddToEvent(r.Context(), slog.String("outcome", "error"))
			render(w, r, http.StatusInternalServerError, pages.ErrorPage(http.StatusInternalServerError))
		}
	}
}

func RegisterRoutes(mux *http.ServeMux, deps HandlerDeps) {
	h := func(fn AppHandler) http.Handler { return Handle(deps, fn) }
	auth := func(fn AppHandler) http.Handler { return middleware.RequireAuth(Handle(deps, fn)) }
	limited := func(fn AppHandler) http.Handler {
		if deps.AuthLimiter == nil {
			return Handle(deps, fn)
		}
		return deps.AuthLimiter.Middleware(Handle(deps, fn))
	}

	mux.Handle("GET "+routes.Health, h(handleHealth))
	mux.Handle("GET "+routes.Metrics, promhttp.Handler())
	if deps.Uploads.Root != "" {
		mux.Handle("GET "+routes.Storage, http.StripPrefix(routes.Storage, http.FileServer(http.Dir(deps.Uploads.Root))))
	}

	// Main
	mux.Handle("GET /{$}", h(handleLanding))
	mux.Handle("GET "+routes.Contacts, h(handleContacts))
	mux.Handle("POST "+routes.Contacts, h(handleContactsSubmit))
	mux.Handle("/", h(handleNotFound))

	// Catalog
	mux.Handle("GET "+routes.Products, h(handleProductList))
	mux.Handle("GET "+routes.ProductsMine, auth(handleProductsMine))
	mux.Handle("GET "+routes.ProductNew, auth(handleProductNew))
	mux.Handle("POST "+routes.ProductNew, auth(handleProductCreate))
	mux.Handle("GET "+routes.Product, h(handleProductDetail))
	mux.Handle("GET "+routes.ProductEdit, auth(handleProductEdit))
	mux.Handle("POST "+routes.ProductEdit, auth(handleProductUpdate))
	mux.Handle("GET "+routes.ProductMod, auth(handleProductModerateForm))
	mux.Handle("POST "+routes.ProductMod, auth(handleProductModerate))
	mux.Handle("GET "+routes.ProductDelete, auth(handleProductDeleteConfirm))
	mux.Handle("POST "+routes.ProductDelete, auth(handleProductDelete))
	mux.Handle("POST "+routes.ProductToggle, auth(handleProductToggle))
	mux.Handle("POST "+routes.VersionSave, auth(handleVersionSave))
	mux.Handle("POST "+routes.VersionDelete, auth(handleVersionDelete))

	// Blog
	mux.Handle("GET "+routes.Posts, h(handlePostList))
	mux.Handle("GET "+routes.PostNew, auth(handlePostNew))
	mux.Handle("POST "+routes.PostNew, auth(handlePostCreate))
	mux.Handle("GET "+routes.Post, h(handlePostDetail))
	mux.Handle("GET "+routes.PostEdit, auth(handlePostEdit))
	mux.Handle("POST "+routes.PostEdit, auth(handlePostUpdate))
	mux.Handle("GET "+routes.PostDelete, auth(handlePostDeleteConfirm))
	mux.Handle("POST "+routes.PostDelete, auth(handlePostDelete))
	mux.Handle("POST "+routes.PostToggle, auth(handlePostToggle))

	// Users
	mux.Handle("GET "+routes.Login, h(handleLoginForm))
	mux.Handle("POST "+routes.Login, limited(handleLogin))
	mux.Handle("POST "+routes.Logout, h(handleLogout))
	mux.Handle("GET "+routes.Register, h(handleRegisterForm))
	mux.Handle("POST "+routes.Register, limited(handleRegister))
	mux.Handle("GET "+routes.Confirm, h(handleConfirm))
	mux.Handle("GET "+routes.ConfirmSent, h(staticPage(pages.ConfirmSent())))
	mux.Handle("GET "+routes.ConfirmDone, h(staticPage(pages.ConfirmDone())))
	mux.Handle("GET "+routes.ConfirmFailed, h(staticPage(pages.ConfirmFailed())))
	mux.Handle("GET "+routes.Profile, auth(handleProfile))
	mux.Handle("POST "+routes.Profile, auth(handleProfileUpdate))
	mux.Handle("POST "+routes.NewPassword, auth(handleNewPassword))
	mux.Handle("GET "+routes.RegeneratePassword, h(handleRegenerateForm))
	mux.Handle("POST "+routes.RegeneratePassword, limited(handleRegenerate))
	mux.Handle("GET "+routes.Users, auth(handleUserList))
	mux.Handle("POST "+routes.UserToggle, auth(handleUserToggle))
	mux.Handle("GET "+routes.ModeratorNew, auth(handleModeratorForm))
	mux.Handle("POST "+routes.ModeratorNew, auth(handleModeratorCreate))
}

// --- helpers ---

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	templ.Handler(c, templ.WithStatus(status)).ServeHTTP(w, r)
}

func staticPage(c templ.Component) AppHandler {
	return func(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
		render(w, r, http.StatusOK, c)
		return nil
	}
}

func handleNotFound(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	return policies.ErrNotFound
}

// pathID lê um id da rota; ids inválidos são tratados como inexistentes.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, policies.ErrNotFound
	}
	return id, nil
}

func pageParam(r *http.Request) int {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	return max(page, 1)
}

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return fmt.Errorf("failed to parse multipart form: %w", err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("failed to parse form: %w", err)
	}
	return nil
}

func formBool(r *http.Request, name string) bool {
	switch r.FormValue(name) {
	case "on", "true", "1":
		return true
	}
	return false
}

func formInt(r *http.Request, name string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(r.FormValue(name)), 10, 64)
	return n
}

// saveImage grava o arquivo do campo, se houver. Falhas de validação viram
// erro de formulário no próprio campo.
func saveImage(deps HandlerDeps, r *http.Request, field string, cfg upload.Config) (string, *validator.FormError, error) {
	res, err := deps.Uploads.Save(r, field, cfg)
	switch {
	case err == nil:
		logging.AddToEvent(r.Context(), slog.String("upload_url", res.URL), slog.Int64("upload_size", res.Size))
		return res.URL, nil, nil
	case errors.Is(err, upload.ErrNoFile):
		return "", nil, nil
	case upload.IsUploadError(err):
		var ue *upload.UploadError
		errors.As(err, &ue)
		fe := &validator.FormError{}
		fe.Add(field, ue.Message)
		return "", fe, nil
	default:
		return "", nil, err
	}
}

// formError separa erros de validação dos demais.
func formError(err error) (*validator.FormError, bool) {
	var fe *validator.FormError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func handleHealth(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	if err := deps.DB.PingContext(r.Context()); err != nil {
		logging.Get().Error("health check failed: db unreachable", slog.Any("error", err))
		w.WriteHeader(http.StatusServiceUnavailable)
		return nil
	}

	failed, _ := deps.Queries.CountJobsByStatus(r.Context(), "failed")
	pending, _ := deps.Queries.CountJobsByStatus(r.Context(), "pending")
	if failed > 50 || pending > 1000 {
		logging.Get().Warn("health check warning: job queue issues", slog.Int64("failed", failed), slog.Int64("pending", pending))
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
	return nil
}
