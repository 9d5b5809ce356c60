package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookstore/internal/common"
	"github.com/dmitrijs2005/bookstore/internal/dbx"
	"github.com/dmitrijs2005/bookstore/internal/server/models"
)

// sqlRepository holds the queries shared by both dialects; only the bind
// parameter syntax differs.
type sqlRepository struct {
	db          dbx.DBTX
	placeholder func(n int) string
}

func (r *sqlRepository) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	if book.Price < 0 {
		return nil, fmt.Errorf("%w: negative price", common.ErrValidation)
	}

	p := r.placeholder
	query := fmt.Sprintf(
		`INSERT INTO books (title, author, description, price, cover_image)
		 VALUES (%s, %s, %s, %s, %s)
		 RETURNING id`, p(1), p(2), p(3), p(4), p(5))

	err := r.db.QueryRowContext(ctx, query,
		book.Title, book.Author, book.Description, book.Price, book.CoverImage).Scan(&book.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return book, nil
}

func (r *sqlRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	query := selectBook + ` WHERE id = ` + r.placeholder(1)

	b, err := scanBook(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &b, nil
}

func (r *sqlRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Book, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []models.Book{}, nil
	}

	in, args := inClause(ids, r.placeholder)
	return r.query(ctx, selectBook+` WHERE id `+in+` ORDER BY id`, args...)
}

func (r *sqlRepository) List(ctx context.Context) ([]models.Book, error) {
	return r.query(ctx, selectBook+` ORDER BY id`)
}

func (r *sqlRepository) query(ctx context.Context, query string, args ...any) ([]models.Book, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
