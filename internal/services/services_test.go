package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/PauloHFS/skystore/internal/db"
	"github.com/PauloHFS/skystore/internal/db/dbtest"
	"github.com/PauloHFS/skystore/internal/policies"
	"github.com/PauloHFS/skystore/internal/token"
	"github.com/PauloHFS/skystore/internal/validator"
	"github.com/stretchr/testify/require"
)

type env struct {
	pool    *db.DualPool
	fx      dbtest.Fixtures
	catalog *CatalogService
	blog    *BlogService
	users   *UserService
	cat     db.Category
}

func newEnv(t *testing.T) *env {
	t.Helper()
	pool := dbtest.Open(t)

	file, err := policies.LoadFile("")
	require.NoError(t, err)
	authz, err := policies.NewAuthorizerFromFile(file)
	require.NoError(t, err)

	fx := dbtest.Fixtures{Q: pool.QueriesWrite()}
	return &env{
		pool:    pool,
		fx:      fx,
		catalog: NewCatalogService(pool, validator.NewBlocklist(file.Blocklist)),
		blog:    NewBlogService(pool),
		users:   NewUserService(pool, token.NewIssuer("test-secret", time.Hour), authz, "http://localhost:8080/"),
		cat:     fx.Category(t, "Livros"),
	}
}

// subject cria um usuário ativo e devolve o sujeito já resolvido.
func (e *env) subject(t *testing.T, email string, opts AccountOptions) policies.Subject {
	t.Helper()
	u, err := e.users.CreateAccount(context.Background(), email, "password123", opts)
	require.NoError(t, err)
	s, err := e.users.Subject(context.Background(), u)
	require.NoError(t, err)
	return s
}

func (e *env) product(t *testing.T, owner policies.Subject, published bool) db.Product {
	t.Helper()
	return e.fx.Product(t, db.CreateProductParams{
		Name:        "Produto",
		Slug:        "produto",
		CategoryID:  e.cat.ID,
		PriceCents:  1000,
		IsPublished: published,
		OwnerID:     sql.NullInt64{Int64: owner.UserID, Valid: owner.UserID != 0},
	})
}

func (e *env) post(t *testing.T, owner policies.Subject, published bool) db.Post {
	t.Helper()
	return e.fx.Post(t, db.CreatePostParams{
		Title:       "Post",
		Slug:        "post",
		IsPublished: published,
		OwnerID:     sql.NullInt64{Int64: owner.UserID, Valid: owner.UserID != 0},
	})
}

func jobCount(t *testing.T, pool *db.DualPool) int64 {
	t.Helper()
	n, err := pool.Queries().CountJobsByStatus(context.Background(), "pending")
	require.NoError(t, err)
	return n
}
