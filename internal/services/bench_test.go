package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/PauloHFS/skystore/internal/db"
	"github.com/PauloHFS/skystore/internal/db/dbtest"
	"github.com/PauloHFS/skystore/internal/policies"
	"github.com/PauloHFS/skystore/internal/validator"
)

// seedCatalog cria n produtos alternando publicados e rascunhos, metade do owner.
func seedCatalog(b *testing.B, n int) (*CatalogService, policies.Subject) {
	b.Helper()
	pool := dbtest.Open(b)
	fx := dbtest.Fixtures{Q: pool.QueriesWrite()}
	cat := fx.Category(b, "Livros")
	owner := fx.User(b, "owner@bench.com", db.CreateUserParams{IsActive: true})

	for i := range n {
		var ownerID sql.NullInt64
		if i%2 == 0 {
			ownerID = sql.NullInt64{Int64: owner.ID, Valid: true}
		}
		fx.Product(b, db.CreateProductParams{
			Name:        fmt.Sprintf("Produto %d", i),
			Slug:        fmt.Sprintf("produto-%d", i),
			CategoryID:  cat.ID,
			PriceCents:  int64(100 * (i + 1)),
			IsPublished: i%3 != 0,
			OwnerID:     ownerID,
		})
	}

	subj := policies.Subject{UserID: owner.ID, Authenticated: true}
	return NewCatalogService(pool, validator.Blocklist{}), subj
}

func BenchmarkCatalogList(b *testing.B) {
	svc, member := seedCatalog(b, 500)
	staff := policies.Subject{UserID: 999, Authenticated: true, Staff: true}
	ctx := context.Background()

	for _, bc := range []struct {
		name string
		subj policies.Subject
	}{
		{"Anonymous", policies.Subject{}},
		{"Member", member},
		{"Staff", staff},
	} {
		b.Run(bc.name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := svc.List(ctx, bc.subj, 3); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

var matched int

func BenchmarkVisibleSetMatch(b *testing.B) {
	subj := policies.Subject{UserID: 7, Authenticated: true}
	f := policies.VisibleSet(subj, policies.KindProduct)
	entities := make([]policies.Entity, 1000)
	for i := range entities {
		entities[i] = policies.Entity{Kind: policies.KindProduct, ID: int64(i), OwnerID: int64(i % 10), Published: i%2 == 0}
	}

	b.ReportAllocs()
	for b.Loop() {
		n := 0
		for _, e := range entities {
			if f.Match(e) {
				n++
			}
		}
		matched = n
	}
}
