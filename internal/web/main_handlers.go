package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/PauloHFS/skystore/internal/services"
	"github.com/PauloHFS/skystore/internal/validator"
	"github.com/PauloHFS/skystore/internal/view/pages"
)

func handleLanding(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	stats, err := deps.Stats.Get(r.Context())
	if err != nil {
		return fmt.Errorf("failed to load statistics: %w", err)
	}
	render(w, r, http.StatusOK, pages.Landing(stats))
	return nil
}

func handleContacts(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	render(w, r, http.StatusOK, pages.Contacts(validator.ContactForm{}, nil, false))
	return nil
}

func handleContactsSubmit(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	logging.AddToEvent(r.Context(), slog.String("operation", "contact"))

	form := validator.ContactForm{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Phone:   strings.TrimSpace(r.FormValue("phone")),
		Message: strings.TrimSpace(r.FormValue("message")),
	}
	if err := services.SubmitContact(r.Context(), deps.Logger, form); err != nil {
		if fe, ok := formError(err); ok {
			render(w, r, http.StatusUnprocessableEntity, pages.Contacts(form, fe, false))
			return nil
		}
		return err
	}
	render(w, r, http.StatusOK, pages.Contacts(validator.ContactForm{}, nil, true))
	return nil
}
