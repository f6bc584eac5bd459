package db

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// Os toggles e o contador de visualizações precisam gravar uma única coluna.
func TestPartialUpdates(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	q := New(conn)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET is_published = ? WHERE id = ?")).
		WithArgs(true, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, q.SetProductPublished(ctx, SetPublishedParams{IsPublished: true, ID: 7}))

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE posts SET views_count = views_count + 1 WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"views_count"}).AddRow(int64(11)))
	views, err := q.IncrementPostViews(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, int64(11), views)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVisibility_Where(t *testing.T) {
	tests := []struct {
		name     string
		vis      Visibility
		alias    string
		wantSQL  string
		wantArgs int
	}{
		{"all", Visibility{All: true}, "p", "1 = 1", 0},
		{"published", Visibility{}, "p", "p.is_published = 1", 0},
		{"published active", Visibility{ActiveOnly: true}, "", "is_published = 1 AND is_active = 1", 0},
		{"published or owned", Visibility{OwnerID: 4}, "p", "((p.is_published = 1) OR p.owner_id = ?)", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.vis.where(tt.alias)
			require.Equal(t, tt.wantSQL, sql)
			require.Len(t, args, tt.wantArgs)
		})
	}

	require.Equal(t, "ORDER BY p.id DESC", Visibility{Descending: true}.orderBy("p"))
	require.Equal(t, "ORDER BY id ASC", Visibility{}.orderBy(""))
}

// Cada INSERT precisa ser um único comando que termina no RETURNING.
func TestInsertStatements(t *testing.T) {
	for name, query := range map[string]string{
		"createUser":    createUser,
		"createProduct": createProduct,
		"createPost":    createPost,
		"createJob":     createJob,
	} {
		t.Run(name, func(t *testing.T) {
			q := strings.TrimSpace(query)
			require.True(t, strings.HasSuffix(q, "RETURNING id"), q)
			require.Equal(t, 1, strings.Count(q, "-- name:"))
			require.NotContains(t, q, "func (")
		})
	}
}
