package books

import "github.com/dmitrijs2005/bookstore/internal/dbx"

type SQLiteRepository struct {
	sqlRepository
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{sqlRepository{
		db:          db,
		placeholder: func(int) string { return "?" },
	}}
}
