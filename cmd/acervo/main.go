package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	sqliteadapter "github.com/cosplayangola/acervo/internal/adapter/driven/sqlite"
	httphandler "github.com/cosplayangola/acervo/internal/adapter/driving/http"
	"github.com/cosplayangola/acervo/internal/application"
	"github.com/cosplayangola/acervo/internal/config"
)

// tokenPurgeInterval controls how often expired entries are swept from the
// revoked token blacklist.
const tokenPurgeInterval = time.Hour

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		return errors.New("ACERVO_JWT_SECRET is required")
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"access_token_ttl", cfg.AccessTokenTTL,
		"refresh_token_ttl", cfg.RefreshTokenTTL,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	accountStore := sqliteadapter.NewAccountRepo(db)
	tokenStore := sqliteadapter.NewTokenRepo(db)
	categoryStore := sqliteadapter.NewCategoryRepo(db)
	eventStore := sqliteadapter.NewEventRepo(db)
	partnerStore := sqliteadapter.NewPartnerRepo(db)
	cosplayerStore := sqliteadapter.NewCosplayerRepo(db)
	collectionStore := sqliteadapter.NewCollectionRepo(db)
	mediaStore := sqliteadapter.NewMediaRepo(db)
	subscriberStore := sqliteadapter.NewSubscriberRepo(db)

	// 6. Provision the admin account. Failures are logged and never block
	// startup.
	outcome := application.ProvisionAdmin(ctx, accountStore, application.AdminCredentials{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, slog.Default())
	slog.Info("admin provisioning finished", "outcome", outcome)

	// 7. Create services.
	authSvc := application.NewAuthService(
		accountStore,
		tokenStore,
		cfg.JWTSecret,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		slog.Default(),
	)
	eventSvc := application.NewEventService(eventStore, categoryStore)

	// 7b. Sweep expired revoked tokens in the background.
	go func() {
		ticker := time.NewTicker(tokenPurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := authSvc.PurgeExpiredTokens(ctx); err != nil {
					slog.Error("token purge failed", "error", err)
				}
			}
		}
	}()

	// 8. Create HTTP handler and routes.
	apiHandler := httphandler.NewHandler(
		authSvc,
		eventSvc,
		categoryStore,
		partnerStore,
		cosplayerStore,
		collectionStore,
		mediaStore,
		subscriberStore,
		slog.Default(),
	)
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("acervo started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout for HTTP server drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
