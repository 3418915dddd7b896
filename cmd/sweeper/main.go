package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ametelin/record-sweeper/internal/app"
	"github.com/ametelin/record-sweeper/internal/platform/config"
	"github.com/ametelin/record-sweeper/internal/platform/observability"
	db "github.com/ametelin/record-sweeper/internal/storage"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Evaluate the sweep without writing changes")
	skipMigrate := flag.Bool("skip-migrate", false, "Skip running database migrations on start")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if *dryRun {
		cfg.DryRun = true
	}

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poolOpts := db.PoolOptions{
		MaxConns:          cfg.DBMaxConnections,
		MaxConnIdleTime:   cfg.DBMaxConnIdleTime,
		HealthCheckPeriod: cfg.DBHealthCheckPeriod,
	}

	database, err := db.New(ctx, cfg.PostgresDSN, poolOpts, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if !*skipMigrate {
		if err := database.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Start health and metrics server in background
	go func() {
		srv := observability.NewServer(database, cfg.MetricsPort, &logger)
		if err := srv.Start(ctx); err != nil {
			logger.Error().Err(err).Msg("health check server error")
		}
	}()

	application := app.New(cfg, database, &logger)

	if err := application.RunOnce(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("sweep interrupted")
			return
		}

		logger.Fatal().Err(err).Msg("sweep failed")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
