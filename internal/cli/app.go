package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/bookstore/internal/cryptox"
	"github.com/dmitrijs2005/bookstore/internal/dbx"
	"github.com/dmitrijs2005/bookstore/internal/logging"
	"github.com/dmitrijs2005/bookstore/internal/server/config"
	"github.com/dmitrijs2005/bookstore/internal/server/migrations"
	"github.com/dmitrijs2005/bookstore/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bookstore/internal/server/services"
)

// openDB is a test seam.
var openDB = dbx.Open

// ErrUsage is returned for an unknown command or bad command flags.
var ErrUsage = errors.New("usage error")

const usage = `Usage: bookstorectl [-c config.json] <command> [flags]

Commands:
  seed -f FILE               import books from a JSON array
  useradd -u NAME [-e EMAIL] [-random]
                             create a user, password read from the terminal
  books                      list the catalog
`

type App struct {
	config  *config.Config
	db      *sql.DB
	auth    *services.AuthService
	catalog *services.CatalogService
	reader  *bufio.Reader
	out     io.Writer
	logger  logging.Logger
}

// NewApp opens the configured database and brings its schema up to date.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error) {

	db, err := openDB(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	rm, err := repomanager.New(c.DatabaseDriver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	logger := logging.New(out, "warn")

	migrations.SetLogger(logger)
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	hasher, err := cryptox.NewHasher(c.BcryptCost)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:  c,
		db:      db,
		auth:    services.NewAuthService(db, rm, hasher, logger),
		catalog: services.NewCatalogService(db, rm),
		reader:  bufio.NewReader(in),
		out:     out,
		logger:  logger,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "seed":
		return a.seed(ctx, rest)
	case "useradd":
		return a.userAdd(ctx, rest)
	case "books":
		return a.books(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprintf(a.out, "Unknown command: %s\n\n%s", cmd, usage)
		return ErrUsage
	}
}

// CommandArgs strips the -c/-config option so only the command and its
// flags remain.
func CommandArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-c", "-config", "--config":
			i++
			continue
		}
		if name, _, found := strings.Cut(args[i], "="); found {
			switch name {
			case "-c", "-config", "--config":
				continue
			}
		}
		out = append(out, args[i])
	}
	return out
}
