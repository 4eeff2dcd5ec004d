// Package migrations embeds the SQL schema into the binary.
//
// Files are applied by database.DB.Migrate in filename order. Every
// statement is CREATE ... IF NOT EXISTS; existing tables and rows are
// never dropped or rewritten.
package migrations

import "embed"

// FS holds every *.up.sql file in this directory, rooted at ".".
//
//go:embed *.sql
var FS embed.FS
