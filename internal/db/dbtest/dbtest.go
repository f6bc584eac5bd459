// Package dbtest abre bancos SQLite temporários e migrados para testes.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/PauloHFS/skystore/internal/db"
	_ "github.com/mattn/go-sqlite3"
)

func Open(t testing.TB) *db.DualPool {
	t.Helper()

	path := filepath.Join(t.TempDir(), "skystore_test.db")
	pool, err := db.NewDualPool("sqlite3", path, db.WithReadPoolSize(2, 1))
	if err != nil {
		t.Fatalf("failed to open test pool: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })

	if err := db.RunMigrations(context.Background(), pool.Write); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return pool
}

// Fixtures cria linhas mínimas reutilizadas pelos testes.
type Fixtures struct {
	Q *db.Queries
}

func (f Fixtures) User(t testing.TB, email string, params db.CreateUserParams) db.User {
	t.Helper()
	params.Email = email
	if params.PasswordHash == "" {
		params.PasswordHash = "x"
	}
	u, err := f.Q.CreateUser(context.Background(), params)
	if err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return u
}

func (f Fixtures) Category(t testing.TB, name string) db.Category {
	t.Helper()
	c, err := f.Q.CreateCategory(context.Background(), db.CreateCategoryParams{Name: name})
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	return c
}

func (f Fixtures) Product(t testing.TB, params db.CreateProductParams) db.Product {
	t.Helper()
	if params.Name == "" {
		params.Name = "Produto"
	}
	p, err := f.Q.CreateProduct(context.Background(), params)
	if err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return p
}

func (f Fixtures) Post(t testing.TB, params db.CreatePostParams) db.Post {
	t.Helper()
	if params.Title == "" {
		params.Title = "Post"
	}
	p, err := f.Q.CreatePost(context.Background(), params)
	if err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return p
}
