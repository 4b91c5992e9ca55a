// Package migrations embeds the SQLite schema.
package migrations

import "embed"

// FS holds the schema files applied at startup.
//
//go:embed *.sql
var FS embed.FS

// InitialSchema is the file name of the base schema.
const InitialSchema = "001_initial_schema.up.sql"
