package services

import (
	"database/sql"
	"errors"

	"github.com/PauloHFS/skystore/internal/db"
	"github.com/PauloHFS/skystore/internal/policies"
)

const defaultPerPage = 12

// visibility traduz o filtro da política para a forma SQL.
func visibility(f policies.Filter) db.Visibility {
	return db.Visibility{
		All:        f.Unrestricted,
		ActiveOnly: f.RequireActive,
		OwnerID:    f.OwnerID,
		Descending: f.Descending,
	}
}

func ownerID(n sql.NullInt64) int64 {
	if !n.Valid {
		return 0
	}
	return n.Int64
}

func owner(s policies.Subject) sql.NullInt64 {
	return sql.NullInt64{Int64: s.UserID, Valid: s.UserID != 0}
}

func productEntity(p db.Product) policies.Entity {
	return policies.Entity{
		Kind:      policies.KindProduct,
		ID:        p.ID,
		OwnerID:   ownerID(p.OwnerID),
		Published: p.IsPublished,
	}
}

func postEntity(p db.Post) policies.Entity {
	return policies.Entity{
		Kind:      policies.KindPost,
		ID:        p.ID,
		OwnerID:   ownerID(p.OwnerID),
		Published: p.IsPublished,
		Active:    p.IsActive,
	}
}

// notFound converte sql.ErrNoRows no mesmo sinal usado para acesso negado.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return policies.ErrNotFound
	}
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
