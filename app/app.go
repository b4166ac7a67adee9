// Package app loads configuration and wires the client's object graph:
// local database, credential store, API client and session store.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkittipat/feedloop/api"
	"github.com/pkittipat/feedloop/session"
	"github.com/pkittipat/feedloop/store"
)

type App struct {
	Config  *Config
	Logger  *slog.Logger
	Client  *api.Client
	Session *session.Store
	Creds   store.CredentialStore

	db           *store.SQLiteDB
	cleanupFuncs []func(context.Context)
}

// New builds the application graph. The session is left in its
// bootstrapping state; callers decide when to run Bootstrap.
func New(ctx context.Context, config *Config) (*App, error) {
	app := &App{}

	if config == nil {
		var err error
		config, err = LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if err := config.Validate(); err != nil {
		if msg := FormatValidationErrors(err); msg != "" {
			return nil, fmt.Errorf("invalid config:\n%s", msg)
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	app.Config = config

	app.Logger = newLogger(config.Log.Level)

	if err := os.MkdirAll(config.Data.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	sqliteOptions := &store.SQLiteDBOption{
		Mode:        "rwc",
		Cache:       "shared",
		JournalMode: "WAL",
	}
	db, err := store.NewSQLiteDB(config.DBFile(), sqliteOptions)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	app.db = db
	app.AddCleanupFunc(func(ctx context.Context) {
		db.Close()
	})
	if err := db.Migrate(); err != nil {
		app.Cleanup(ctx)
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	app.Creds = store.NewSQLiteCredentialStore(db.DB)

	app.Client = api.New(config.API.BaseURL,
		api.WithTimeout(config.Timeout()),
		api.WithLogger(app.Logger),
	)
	app.Session = session.NewStore(app.Client, app.Creds, app.Logger)

	return app, nil
}

func (a *App) AddCleanupFunc(fn func(context.Context)) {
	a.cleanupFuncs = append(a.cleanupFuncs, fn)
}

// Cleanup runs registered cleanup functions in reverse order.
func (a *App) Cleanup(ctx context.Context) {
	for i := len(a.cleanupFuncs) - 1; i >= 0; i-- {
		a.cleanupFuncs[i](ctx)
	}
	a.cleanupFuncs = nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				source, _ := a.Value.Any().(*slog.Source)
				if source != nil {
					source.File = filepath.Base(source.File)
				}
			}
			return a
		},
	}))
}
