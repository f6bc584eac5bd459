package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/PauloHFS/skystore/internal/logging"
	"golang.org/x/crypto/bcrypt"
)

var defaultCategories = []CreateCategoryParams{
	{Name: "Eletrônicos", Description: sql.NullString{String: "Smartphones, notebooks e acessórios", Valid: true}},
	{Name: "Casa", Description: sql.NullString{String: "Utensílios e decoração", Valid: true}},
	{Name: "Livros"},
}

// Seed cria as categorias padrão, as permissões de grupo e um superusuário
// (admin@admin.com / admin123). Pode rodar várias vezes.
func Seed(ctx context.Context, dbConn *sql.DB, grants []GroupPermission) error {
	queries := New(dbConn)

	categories, err := queries.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	if len(categories) == 0 {
		for _, c := range defaultCategories {
			if _, err := queries.CreateCategory(ctx, c); err != nil {
				return fmt.Errorf("failed to seed category %s: %w", c.Name, err)
			}
		}
	}

	for _, g := range grants {
		if err := queries.UpsertGroupPermission(ctx, g); err != nil {
			return fmt.Errorf("failed to seed permission %s/%s: %w", g.GroupName, g.Permission, err)
		}
	}

	if _, err := queries.GetUserByEmail(ctx, "admin@admin.com"); err == nil {
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if _, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        "admin@admin.com",
		PasswordHash: string(hash),
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	}); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	logging.Get().Info("database seeded successfully",
		slog.String("admin_email", "admin@admin.com"),
		slog.String("default_password", "admin123"),
	)
	return nil
}
