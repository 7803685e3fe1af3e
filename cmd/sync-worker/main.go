// Package main is the entry point for the recurring payments synchronization worker.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/finance-tracker/recurring-payments/config"
	"github.com/finance-tracker/recurring-payments/internal/infra/db"
	"github.com/finance-tracker/recurring-payments/internal/infra/dependency"
	"github.com/finance-tracker/recurring-payments/internal/integration/worker"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, &cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	injector, err := dependency.NewInjector(cfg, store.Gorm(), store.Healthy)
	if err != nil {
		slog.Error("Failed to initialize dependencies", "error", err)
		os.Exit(1)
	}
	defer injector.Close()

	var accruer worker.Accruer
	if cfg.Worker.AccrueSavings {
		accruer = injector.AccrueSavings
	}

	w := worker.NewSyncWorker(injector.SynchronizeAll, accruer, worker.SyncWorkerConfig{
		Interval:      cfg.Worker.Interval,
		HorizonMonths: cfg.Scheduling.DefaultHorizonMonths,
		Concurrency:   cfg.Worker.Concurrency,
	})

	w.Start(ctx)
	slog.Info("Worker exited properly")
}
