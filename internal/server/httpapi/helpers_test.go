package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookstore/internal/cryptox"
	"github.com/dmitrijs2005/bookstore/internal/logging"
	"github.com/dmitrijs2005/bookstore/internal/server/models"
	"github.com/dmitrijs2005/bookstore/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bookstore/internal/server/services"
	"github.com/dmitrijs2005/bookstore/internal/server/session"
	"github.com/dmitrijs2005/bookstore/internal/server/uploads"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

type testServer struct {
	srv     *httptest.Server
	client  *http.Client
	store   *session.MemoryStore
	catalog *services.CatalogService
	dir     string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	rm := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, rm.RunMigrations(ctx, db))

	hasher, err := cryptox.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	dir := t.TempDir()
	storage, err := uploads.NewLocalStorage(dir, "/uploads/")
	require.NoError(t, err)

	log := logging.Discard()
	auth := services.NewAuthService(db, rm, hasher, log)
	catalog := services.NewCatalogService(db, rm)
	store := session.NewMemoryStore()

	handler := NewRouter(Deps{
		Auth:           auth,
		Catalog:        catalog,
		Cart:           services.NewCartService(catalog),
		Profile:        services.NewProfileService(db, rm, auth, storage, 1024, log),
		Sessions:       session.NewManager(store, time.Hour, session.CookieOptions{}),
		DB:             db,
		Logger:         log,
		RequestTimeout: 5 * time.Second,
		MaxUploadBytes: 1024,
		UploadDir:      storage.Dir(),
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		srv:     srv,
		client:  newClient(t),
		store:   store,
		catalog: catalog,
		dir:     dir,
	}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (s *testServer) seedBooks(t *testing.T, titles ...string) []int64 {
	t.Helper()
	books := make([]models.Book, len(titles))
	for i, title := range titles {
		books[i] = models.Book{Title: title, Author: "Author", Price: 1000}
	}
	_, err := s.catalog.Import(context.Background(), books)
	require.NoError(t, err)
	ids := make([]int64, len(books))
	for i := range books {
		ids[i] = books[i].ID
	}
	return ids
}

// pngData starts with the PNG signature, enough for content sniffing.
var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type testResponse struct {
	status  int
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Flashes []string        `json:"flashes"`
}

func (r testResponse) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, v))
}

func (s *testServer) do(t *testing.T, c *http.Client, method, path, contentType string, body io.Reader) testResponse {
	t.Helper()
	req, err := http.NewRequest(method, s.srv.URL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := testResponse{status: resp.StatusCode}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *testServer) get(t *testing.T, c *http.Client, path string) testResponse {
	t.Helper()
	return s.do(t, c, http.MethodGet, path, "", nil)
}

func (s *testServer) postJSON(t *testing.T, c *http.Client, path string, v any) testResponse {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return s.do(t, c, http.MethodPost, path, "application/json", bytes.NewReader(b))
}

func (s *testServer) register(t *testing.T, c *http.Client, username, password, email string) testResponse {
	t.Helper()
	return s.postJSON(t, c, "/register", map[string]string{"username": username, "password": password, "email": email})
}

func (s *testServer) login(t *testing.T, c *http.Client, username, password string) testResponse {
	t.Helper()
	return s.postJSON(t, c, "/login", map[string]string{"username": username, "password": password})
}

// multipartBody builds a form with the given fields and an optional file.
func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, content []byte) (string, io.Reader) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return mw.FormDataContentType(), &buf
}
