// Package migrations ships the SQL schema migrations with the binary.
package migrations

import "embed"

// FS holds every *.up.sql and *.down.sql file in this directory
//
//go:embed *.sql
var FS embed.FS
