package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/bookstore/internal/dbx"
	"github.com/dmitrijs2005/bookstore/internal/server/models"
	"github.com/dmitrijs2005/bookstore/internal/server/repositories/repomanager"
)

// CatalogService reads books and imports seed data.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: m}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Book, error) {
	return s.repomanager.Books(s.db).List(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Book, error) {
	return s.repomanager.Books(s.db).GetByID(ctx, id)
}

// ResolveMany returns one book per requested id, in the requested order.
// Repeated ids yield repeated books; ids missing from the catalog are
// skipped. An empty request never touches storage.
func (s *CatalogService) ResolveMany(ctx context.Context, ids []int64) ([]models.Book, error) {
	if len(ids) == 0 {
		return []models.Book{}, nil
	}

	found, err := s.repomanager.Books(s.db).GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]models.Book, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}

	out := make([]models.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// Import inserts books in a single transaction; either all land or none.
func (s *CatalogService) Import(ctx context.Context, books []models.Book) (int, error) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Books(tx)
		for i := range books {
			if _, err := repo.Create(ctx, &books[i]); err != nil {
				return fmt.Errorf("book %d (%q): %w", i+1, books[i].Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(books), nil
}
