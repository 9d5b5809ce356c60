package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookstore/internal/cryptox"
	"github.com/dmitrijs2005/bookstore/internal/logging"
	"github.com/dmitrijs2005/bookstore/internal/server/models"
	"github.com/dmitrijs2005/bookstore/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bookstore/internal/server/session"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

type testEnv struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	auth    *AuthService
	catalog *CatalogService
	cart    *CartService
	profile *ProfileService
	storage *memStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	rm := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, rm.RunMigrations(context.Background(), db))

	hasher, err := cryptox.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	log := logging.Discard()
	storage := newMemStorage()
	auth := NewAuthService(db, rm, hasher, log)
	catalog := NewCatalogService(db, rm)

	return &testEnv{
		db:      db,
		rm:      rm,
		auth:    auth,
		catalog: catalog,
		cart:    NewCartService(catalog),
		profile: NewProfileService(db, rm, auth, storage, 1024, log),
		storage: storage,
	}
}

func (e *testEnv) seedBooks(t *testing.T, titles ...string) []int64 {
	t.Helper()
	books := make([]models.Book, len(titles))
	for i, title := range titles {
		books[i] = models.Book{Title: title, Author: "Author", Price: 500}
	}
	_, err := e.catalog.Import(context.Background(), books)
	require.NoError(t, err)

	ids := make([]int64, len(books))
	for i := range books {
		ids[i] = books[i].ID
	}
	return ids
}

func newState(t *testing.T) *session.State {
	t.Helper()
	st, err := session.NewState(time.Now(), time.Hour)
	require.NoError(t, err)
	return st
}

// pngData starts with the PNG signature, enough for content sniffing.
const pngData = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"

func pngPicture(name string) *Picture {
	return &Picture{Filename: name, ContentType: "image/png", Size: int64(len(pngData)), Body: strings.NewReader(pngData)}
}

// memStorage is an in-memory uploads.Storage.
type memStorage struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
	saveErr      error
	deleted      []string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *memStorage) Save(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	m.mu.Lock()
	m.objects[key] = buf.Bytes()
	m.contentTypes[key] = contentType
	m.mu.Unlock()
	return nil
}

func (m *memStorage) URL(_ context.Context, key string) (string, error) {
	return "/uploads/" + key, nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return errors.New("no such object")
	}
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memStorage) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

type sessionUser struct {
	st *session.State
	id int64
}
