// Package database provides SQLite connectivity for the study-aid core.
//
// This package manages:
//   - Opening the database file with foreign keys enforced
//   - Applying additive schema migrations from an fs.FS
//   - Lifecycle management (health check, close)
//
// Security Considerations:
//   - All queries use parameterised statements
//   - Database file permissions are set to 0600 (owner read/write only)
//
// The pool is pinned to a single connection. Every statement is serialised
// through the driver, so callers see writes in the order they were issued.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration Strategy:
//
// Migrations are additive-only. Files are named
// YYYYMMDD_HHMMSS_description.up.sql and every statement uses
// IF NOT EXISTS, so a migration that runs against a database created
// by an earlier build never drops or rewrites existing rows.
package database
