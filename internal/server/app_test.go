package server

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/bookstore/internal/server/config"
	"github.com/dmitrijs2005/bookstore/internal/server/session"
	"github.com/dmitrijs2005/bookstore/internal/server/uploads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	dir := t.TempDir()
	c.DatabaseDSN = filepath.Join(dir, "bookstore.db")
	c.UploadDir = filepath.Join(dir, "uploads")
	c.BcryptCost = 4
	c.HTTPAddr = "127.0.0.1:0"
	c.ShutdownTimeout = time.Second
	return c
}

func quietLogs(t *testing.T) {
	t.Helper()
	prev := logOutput
	logOutput = io.Discard
	t.Cleanup(func() { logOutput = prev })
}

func TestNewApp_SQLiteMemoryLocal(t *testing.T) {
	quietLogs(t)
	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(app.Close)

	_, ok := app.sessions.(*session.MemoryStore)
	assert.True(t, ok)

	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/books")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewApp_MigrationsLogStructured(t *testing.T) {
	var buf bytes.Buffer
	prev := logOutput
	logOutput = &buf
	t.Cleanup(func() { logOutput = prev })

	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(app.Close)

	assert.Contains(t, buf.String(), `"module":"migrations"`)
	assert.Contains(t, buf.String(), "00002_create_books.sql")
}

func TestNewApp_RedisSessions(t *testing.T) {
	quietLogs(t)
	mr := miniredis.RunT(t)

	c := testConfig(t)
	c.SessionBackend = "redis"
	c.RedisAddr = mr.Addr()

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	_, ok := app.sessions.(*session.RedisStore)
	assert.True(t, ok)
}

func TestNewApp_RedisUnavailable(t *testing.T) {
	quietLogs(t)
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	c := testConfig(t)
	c.SessionBackend = "redis"
	c.RedisAddr = addr

	_, err = NewApp(context.Background(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis init error")
}

func TestNewApp_S3Uploads(t *testing.T) {
	quietLogs(t)
	var got uploads.S3Config
	prev := newS3Storage
	newS3Storage = func(ctx context.Context, c uploads.S3Config) (*uploads.S3Storage, error) {
		got = c
		return &uploads.S3Storage{}, nil
	}
	t.Cleanup(func() { newS3Storage = prev })

	c := testConfig(t)
	c.UploadBackend = "s3"
	c.S3Bucket = "pics"

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	assert.Equal(t, "pics", got.Bucket)
	assert.Equal(t, "profile_pics/", got.Prefix)
}

func TestNewApp_Errors(t *testing.T) {
	quietLogs(t)

	prev := openDB
	openDB = func(ctx context.Context, driver, dsn string) (*sql.DB, error) {
		return nil, errors.New("boom")
	}
	_, err := NewApp(context.Background(), testConfig(t))
	openDB = prev
	require.ErrorContains(t, err, "db init error")

	c := testConfig(t)
	c.SessionBackend = "etcd"
	_, err = NewApp(context.Background(), c)
	require.ErrorContains(t, err, "unknown session backend")

	c = testConfig(t)
	c.UploadBackend = "ftp"
	_, err = NewApp(context.Background(), c)
	require.ErrorContains(t, err, "unknown upload backend")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	quietLogs(t)
	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.Error(t, app.db.Ping(), "database is closed after Run")
}
