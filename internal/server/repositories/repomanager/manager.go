// Package repomanager vends the repository implementations for the
// configured database driver and runs its schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/bookstore/internal/dbx"
	"github.com/dmitrijs2005/bookstore/internal/server/migrations"
	"github.com/dmitrijs2005/bookstore/internal/server/repositories/books"
	"github.com/dmitrijs2005/bookstore/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Books(db dbx.DBTX) books.Repository
}

// applyMigrations is a seam for tests.
var applyMigrations = migrations.Apply

// New returns the manager for driver ("sqlite" or "postgres").
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case dbx.DriverSQLite:
		return NewSQLiteRepositoryManager(), nil
	case dbx.DriverPostgres:
		return NewPostgresRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("repomanager: unsupported driver %q", driver)
	}
}
