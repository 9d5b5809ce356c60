// Package books is the read side of the catalog plus the insert path used by
// the seeding tool.
package books

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bookstore/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, book *models.Book) (*models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	// GetByIDs returns the books whose ids are in the set, in id order.
	// Unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []int64) ([]models.Book, error)
	List(ctx context.Context) ([]models.Book, error)
}

const selectBook = `SELECT id, title, author, description, price, cover_image FROM books`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (models.Book, error) {
	var b models.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Price, &b.CoverImage)
	return b, err
}

// inClause renders "IN (p1, p2, ...)" for ids and returns the bind args.
func inClause(ids []int64, placeholder func(n int) string) (string, []any) {
	marks := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		marks[i] = placeholder(i + 1)
		args[i] = id
	}
	return fmt.Sprintf("IN (%s)", strings.Join(marks, ", ")), args
}

// uniqueIDs drops repeated ids, keeping first occurrences.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
