// Package migrations bundles the versioned SQL schema of the payments database.
package migrations

import "embed"

// FS holds the golang-migrate up/down scripts.
//
//go:embed *.sql
var FS embed.FS
