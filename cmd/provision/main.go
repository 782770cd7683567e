// Command provision creates the initial superuser account from environment
// variables. It is safe to run on every deploy: existing accounts are left
// untouched, missing credentials skip provisioning, and failures are logged
// without failing the process so a broken bootstrap never blocks a rollout.
package main

import (
	"context"
	"log/slog"
	"os"

	sqliteadapter "github.com/cosplayangola/acervo/internal/adapter/driven/sqlite"
	"github.com/cosplayangola/acervo/internal/application"
	"github.com/cosplayangola/acervo/internal/config"
)

func main() {
	run()
	os.Exit(0)
}

func run() {
	logger := slog.Default()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "error", err)
		return
	}

	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		logger.Error("database open failed", "path", cfg.DBPath, "error", err)
		return
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		logger.Error("migrations failed", "error", err)
		return
	}

	outcome := application.ProvisionAdmin(context.Background(), sqliteadapter.NewAccountRepo(db), application.AdminCredentials{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, logger)

	logger.Info("admin provisioning finished", "outcome", outcome)
}
