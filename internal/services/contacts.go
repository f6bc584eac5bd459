package services

import (
	"context"
	"log/slog"

	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/PauloHFS/skystore/internal/validator"
)

// SubmitContact valida o formulário de contato e registra a mensagem no log.
func SubmitContact(ctx context.Context, logger *slog.Logger, form validator.ContactForm) error {
	if fe := validator.Check(form); fe != nil {
		return fe
	}
	logging.AddToEvent(ctx, slog.String("contact_name", form.Name))
	logger.InfoContext(ctx, "contact message received",
		slog.String("name", form.Name),
		slog.String("phone", form.Phone),
		slog.String("message", form.Message),
	)
	return nil
}
