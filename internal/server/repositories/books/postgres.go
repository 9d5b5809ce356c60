package books

import (
	"fmt"

	"github.com/dmitrijs2005/bookstore/internal/dbx"
)

type PostgresRepository struct {
	sqlRepository
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{sqlRepository{
		db:          db,
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	}}
}
