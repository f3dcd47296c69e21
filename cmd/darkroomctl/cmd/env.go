package cmd

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/templui/darkroom/internal/app"
	"github.com/templui/darkroom/internal/config"
	"github.com/templui/darkroom/internal/db"
	"github.com/templui/darkroom/internal/logger"
)

// openApp loads the environment the same way the server does and connects
// without running migrations.
func openApp() (*app.App, error) {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN, cfg.AppName)

	a, err := app.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open app: %w", err)
	}
	return a, nil
}

func closeApp(a *app.App) {
	err := a.Close()
	if err != nil {
		slog.Error("failed to close app", "error", err)
	}
}

type appDB struct {
	sql    *sql.DB
	driver string
}

// withDB runs fn against a bare connection. Schema commands must not go
// through app.Open, which expects storage to be reachable.
func withDB(fn func(appDB) error) error {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN, cfg.AppName)

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close(database)
		if closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	return fn(appDB{sql: database.DB, driver: cfg.DBDriver})
}
