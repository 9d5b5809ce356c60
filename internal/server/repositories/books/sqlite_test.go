package books

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/bookstore/internal/common"
	"github.com/dmitrijs2005/bookstore/internal/server/migrations"
	"github.com/dmitrijs2005/bookstore/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newSQLiteRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Apply(context.Background(), db, "sqlite"))
	return NewSQLiteRepository(db)
}

func seed(t *testing.T, r *SQLiteRepository, titles ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(titles))
	for i, title := range titles {
		b, err := r.Create(context.Background(), &models.Book{Title: title, Author: "Author", Price: int64(100 * (i + 1))})
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}
	return ids
}

func TestSQLiteListAndGet(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	empty, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	ids := seed(t, r, "Dune", "Emma", "Ulysses")

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Dune", "Emma", "Ulysses"}, []string{all[0].Title, all[1].Title, all[2].Title})

	b, err := r.GetByID(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, "Emma", b.Title)
	assert.EqualValues(t, 200, b.Price)

	_, err = r.GetByID(ctx, 424242)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLiteGetByIDs(t *testing.T) {
	r := newSQLiteRepo(t)
	ids := seed(t, r, "Dune", "Emma")

	got, err := r.GetByIDs(context.Background(), []int64{ids[1], 999, ids[0], ids[1]})
	require.NoError(t, err)
	require.Len(t, got, 2, "missing ids skipped, duplicates collapsed")

	got, err = r.GetByIDs(context.Background(), []int64{999})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteCreate_PriceCheck(t *testing.T) {
	r := newSQLiteRepo(t)

	_, err := r.Create(context.Background(), &models.Book{Title: "x", Author: "y", Price: -5})
	require.ErrorIs(t, err, common.ErrValidation)
}
