// Package migrations embeds the SQL schema migrations shipped with babod.
package migrations

import "embed"

//go:embed sqlite
var FS embed.FS
