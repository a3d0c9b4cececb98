// Command app runs the TapQuest persistence API.
//
// @title TapQuest API
// @version 1.0
// @description Persistence API for the TapQuest tap-to-earn mini-app.
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
//
//go:generate swag init -g cmd/app/main.go -d ../../ -o ../../docs
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

	"github.com/jonboulle/clockwork"

	"github.com/osse101/TapQuest_Go/internal/bootstrap"
	"github.com/osse101/TapQuest_Go/internal/config"
	"github.com/osse101/TapQuest_Go/internal/database"
	"github.com/osse101/TapQuest_Go/internal/server"
	"github.com/osse101/TapQuest_Go/migrations"
)

const (
	dbMaxConnIdleTime = 5 * time.Minute
	dbMaxConnLifetime = 30 * time.Minute
	dbConnectAttempts = 10
	shutdownTimeout   = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, database.PoolConfig{
		ConnString:      cfg.GetDBConnString(),
		MaxConns:        cfg.DBMaxConns,
		MaxConnIdleTime: dbMaxConnIdleTime,
		MaxConnLifetime: dbMaxConnLifetime,
		ConnectAttempts: dbConnectAttempts,
	})
	if err != nil {
		return err
	}

	if cfg.RunMigrations {
		if err := database.Migrate(ctx, pool, migrations.FS); err != nil {
			pool.Close()
			return err
		}
	}

	repos := bootstrap.InitializeRepositories(pool)
	services, err := bootstrap.InitializeServices(cfg, repos, clockwork.NewRealClock())
	if err != nil {
		pool.Close()
		return err
	}

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		SyncRatePerSec: cfg.SyncRatePerSec,
		SyncRateBurst:  cfg.SyncRateBurst,
	}, pool, services)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{Server: srv, DBPool: pool})

	return serveErr
}
