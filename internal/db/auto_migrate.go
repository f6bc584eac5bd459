package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/PauloHFS/skystore/migrations"
	"github.com/pressly/goose/v3"
)

// RunMigrations aplica as migrações goose embutidas que ainda não rodaram.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, logging.Get())
}

// O logger global já carrega "version" (do binário); a migração usa outra chave.
func migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("falha ao preparar migrações: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("falha ao executar migrações: %w", err)
	}
	for _, r := range results {
		logger.Info("migration applied",
			slog.Int64("migration_version", r.Source.Version),
			slog.Int64("duration_ms", r.Duration.Milliseconds()),
		)
	}
	return nil
}
