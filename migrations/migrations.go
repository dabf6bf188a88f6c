// Package migrations embeds the goose SQL migrations and applies them
// on startup. Every statement is CREATE IF NOT EXISTS, so running Up on
// an already-migrated database is a no-op.
package migrations

import (
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var fsys embed.FS

// Up brings the schema to the latest version. Safe to call on every startup.
func Up(db *sql.DB) error {
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
