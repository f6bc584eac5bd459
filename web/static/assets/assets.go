package assets

import "embed"

// FS is the embedded filesystem for the stylesheets served under /assets/.
//
//go:embed *.css
var FS embed.FS
