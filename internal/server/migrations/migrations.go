// Package migrations embeds the goose SQL migrations for every supported
// database dialect and applies them.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bookstore/internal/logging"
	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// gooseLogger sends goose output to a logging.Logger.
type gooseLogger struct {
	l logging.Logger
}

func (g *gooseLogger) Printf(format string, v ...any) {
	g.l.Info(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g *gooseLogger) Fatalf(format string, v ...any) {
	g.l.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// SetLogger makes goose report applied migrations through l. goose keeps a
// single global logger, so the last call wins.
func SetLogger(l logging.Logger) {
	goose.SetLogger(&gooseLogger{l: l.With("module", "migrations")})
}

// Apply runs every pending migration for driver ("sqlite" or "postgres").
func Apply(ctx context.Context, db *sql.DB, driver string) error {
	var dialect, dir string
	switch driver {
	case "sqlite":
		dialect, dir = "sqlite3", "sqlite"
	case "postgres":
		dialect, dir = "pgx", "postgres"
	default:
		return fmt.Errorf("migrations: unsupported driver %q", driver)
	}

	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}
