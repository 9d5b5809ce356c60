package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bookstore/internal/dbx"
	"github.com/dmitrijs2005/bookstore/internal/server/repositories/books"
	"github.com/dmitrijs2005/bookstore/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Books(db dbx.DBTX) books.Repository {
	return books.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return applyMigrations(ctx, db, dbx.DriverPostgres)
}
