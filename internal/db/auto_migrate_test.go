package db

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_LogKeysDoNotCollide(t *testing.T) {
	conn, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer conn.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil)).With(slog.String("version", "dev"))

	require.NoError(t, migrate(context.Background(), conn, logger))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Equal(t, 1, strings.Count(line, `"version":`), line)

		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		assert.Equal(t, "dev", entry["version"])
		assert.Contains(t, entry, "migration_version")
	}
}
