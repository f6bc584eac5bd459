package migrations

import "embed"

// FS contém os arquivos de migração goose.
//
//go:embed *.sql
var FS embed.FS
