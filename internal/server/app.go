// Package server wires the bookstore together: it opens the database, runs
// migrations, picks the session and upload backends from the configuration
// and serves the HTTP API until the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/bookstore/internal/cryptox"
	"github.com/dmitrijs2005/bookstore/internal/dbx"
	"github.com/dmitrijs2005/bookstore/internal/logging"
	"github.com/dmitrijs2005/bookstore/internal/server/config"
	"github.com/dmitrijs2005/bookstore/internal/server/httpapi"
	"github.com/dmitrijs2005/bookstore/internal/server/migrations"
	"github.com/dmitrijs2005/bookstore/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bookstore/internal/server/services"
	"github.com/dmitrijs2005/bookstore/internal/server/session"
	"github.com/dmitrijs2005/bookstore/internal/server/uploads"
	"github.com/redis/go-redis/v9"
)

// test seams
var (
	openDB       = dbx.Open
	newS3Storage = uploads.NewS3Storage
	logOutput    io.Writer = os.Stdout
)

const sweepInterval = time.Minute

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	sessions session.Store
	handler  http.Handler
	closers  []func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(logOutput, c.LogLevel)

	app := &App{config: c, logger: logger}

	db, err := openDB(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db
	app.closers = append(app.closers, db.Close)

	rm, err := repomanager.New(c.DatabaseDriver)
	if err != nil {
		app.Close()
		return nil, err
	}
	migrations.SetLogger(logger)
	if err := rm.RunMigrations(ctx, db); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	hasher, err := cryptox.NewHasher(c.BcryptCost)
	if err != nil {
		app.Close()
		return nil, err
	}

	store, err := app.newSessionStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.sessions = store

	storage, uploadDir, err := app.newUploadStorage(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	auth := services.NewAuthService(db, rm, hasher, logger)
	catalog := services.NewCatalogService(db, rm)

	app.handler = httpapi.NewRouter(httpapi.Deps{
		Auth:     auth,
		Catalog:  catalog,
		Cart:     services.NewCartService(catalog),
		Profile:  services.NewProfileService(db, rm, auth, storage, c.UploadMaxBytes, logger),
		Sessions: session.NewManager(store, c.SessionTTL, session.CookieOptions{Secure: c.CookieSecure}),
		DB:       db,
		Logger:   logger,

		RequestTimeout: c.RequestTimeout,
		CORSOrigins:    c.CORSAllowedOrigins,
		MaxUploadBytes: c.UploadMaxBytes,
		UploadDir:      uploadDir,
	})

	return app, nil
}

func (app *App) newSessionStore(ctx context.Context) (session.Store, error) {
	switch app.config.SessionBackend {
	case "memory":
		return session.NewMemoryStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     app.config.RedisAddr,
			Password: app.config.RedisPassword,
			DB:       app.config.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		app.closers = append(app.closers, client.Close)
		return session.NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", app.config.SessionBackend)
	}
}

// newUploadStorage returns the picture storage and, for the local backend,
// the directory the HTTP layer should serve.
func (app *App) newUploadStorage(ctx context.Context) (uploads.Storage, string, error) {
	c := app.config
	switch c.UploadBackend {
	case "local":
		s, err := uploads.NewLocalStorage(c.UploadDir, "/uploads/")
		if err != nil {
			return nil, "", fmt.Errorf("upload dir: %w", err)
		}
		return s, s.Dir(), nil
	case "s3":
		s, err := newS3Storage(ctx, uploads.S3Config{
			User:     c.S3RootUser,
			Password: c.S3RootPassword,
			Bucket:   c.S3Bucket,
			Region:   c.S3Region,
			Endpoint: c.S3BaseEndpoint,
			Prefix:   "profile_pics/",
		})
		if err != nil {
			return nil, "", err
		}
		return s, "", nil
	default:
		return nil, "", fmt.Errorf("unknown upload backend %q", c.UploadBackend)
	}
}

// Handler exposes the HTTP handler, mostly for tests.
func (app *App) Handler() http.Handler {
	return app.handler
}

// Close releases the database and session backend connections.
func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Error(context.Background(), "close failed", "error", err)
		}
	}
	app.closers = nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.HTTPAddr, app.handler, app.config.ShutdownTimeout, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// sweepSessions evicts expired in-memory sessions until ctx is done.
func (app *App) sweepSessions(ctx context.Context, m *session.MemoryStore) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				app.logger.Debug(ctx, "expired sessions removed", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if m, ok := app.sessions.(*session.MemoryStore); ok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.sweepSessions(ctx, m)
		}()
	}

	wg.Wait()

	app.Close()
	app.logger.Info(context.Background(), "App stopped")
}
