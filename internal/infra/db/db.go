package db

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

// Open opens (creating if needed) the sqlite database at path.
// _time_format=sqlite keeps timestamps in the plain sqlite text form so
// TIMESTAMP columns scan back into time.Time.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path + "?_time_format=sqlite&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Single interactive writer; one connection keeps statement order serialized.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}
