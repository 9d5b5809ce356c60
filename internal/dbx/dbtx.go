// Package dbx holds the small database helpers shared by the bookstore
// repositories: the DBTX handle satisfied by *sql.DB and *sql.Tx, a
// transaction runner and the connection opener used by the server and CLI.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "INSERT INTO books ...")
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Open opens and pings a database for the given driver name.
//
// SQLite file paths get busy_timeout and foreign_keys pragmas appended and the
// pool is pinned to a single connection, so writers never race on the file lock.
// Postgres DSNs are handed to the pgx stdlib driver unchanged.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	var name string
	switch driver {
	case DriverSQLite:
		name = "sqlite"
		dsn = SQLiteDSN(dsn)
	case DriverPostgres:
		name = "pgx"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlOpen(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// SQLiteDSN turns a plain path into a modernc DSN with the pragmas the
// repositories rely on. DSNs that already carry a query string are kept as is.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}
