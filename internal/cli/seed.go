package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/bookstore/internal/server/models"
)

// seed imports a JSON array of books:
//
//	[{"title": "...", "author": "...", "description": "...", "price": 1299, "cover_image": "..."}]
//
// Prices are in cents. The import is all-or-nothing.
func (a *App) seed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(a.out)
	path := fs.String("f", "", "JSON file with books")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if *path == "" {
		fmt.Fprintln(a.out, "Usage: seed -f books.json")
		return ErrUsage
	}

	books, err := readBooks(*path)
	if err != nil {
		return err
	}

	n, err := a.catalog.Import(ctx, books)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Imported %d books\n", n)
	return nil
}

func readBooks(path string) ([]models.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var books []models.Book
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&books); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range books {
		books[i].ID = 0
	}
	return books, nil
}
