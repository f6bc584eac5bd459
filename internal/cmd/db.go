package cmd

import (
	"context"
	"fmt"

	"github.com/PauloHFS/skystore/internal/config"
	"github.com/PauloHFS/skystore/internal/db"
	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/PauloHFS/skystore/internal/policies"
)

func initDB() (*config.Config, *db.DualPool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	pool, err := db.NewDualPool("sqlite3", cfg.DatabaseURL, db.WithReadPoolSize(1, 1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.RunMigrations(context.Background(), pool.Write); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return cfg, pool, nil
}

// RunSeed grava as categorias padrão, as concessões do arquivo de políticas
// e o superusuário inicial.
func RunSeed() {
	cfg, pool, err := initDB()
	if err != nil {
		fatal("failed to init database", err)
	}
	defer pool.Close()

	logger := logging.Get()

	file, err := policies.LoadFile(cfg.PolicyFile)
	if err != nil {
		fatal("failed to load policy file", err)
	}
	var grants []db.GroupPermission
	for _, g := range file.Grants() {
		grants = append(grants, db.GroupPermission{GroupName: g.Group, Permission: string(g.Permission)})
	}

	if err := db.Seed(context.Background(), pool.Write, grants); err != nil {
		logger.Error("failed to seed database", "error", err)
		return
	}
	logger.Info("seed finished", "grants", len(grants))
}

func RunMigrate() {
	_, pool, err := initDB()
	if err != nil {
		fatal("failed to run migrations", err)
	}
	defer pool.Close()
	logging.Get().Info("migrations executed successfully")
}
