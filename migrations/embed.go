// Package migrations embeds the SQL schema so the binary can migrate
// without the files on disk.
package migrations

import "embed"

// FS holds every *.sql file in this directory, applied in name order.
//
//go:embed *.sql
var FS embed.FS
