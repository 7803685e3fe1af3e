// Package worker runs periodic background jobs over recurring payment definitions.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/finance-tracker/recurring-payments/internal/application/usecase/recurringpayment"
	"github.com/finance-tracker/recurring-payments/internal/application/usecase/saving"
)

// Synchronizer synchronizes every definition.
type Synchronizer interface {
	Execute(ctx context.Context, input recurringpayment.SynchronizeAllInput) (*recurringpayment.SynchronizeAllOutput, error)
}

// Accruer records monthly savings.
type Accruer interface {
	Execute(ctx context.Context, input saving.AccrueMonthlySavingsInput) (*saving.AccrueMonthlySavingsOutput, error)
}

// SyncWorker periodically synchronizes all definitions and accrues the current month's savings.
type SyncWorker struct {
	synchronizer  Synchronizer
	accruer       Accruer
	interval      time.Duration
	horizonMonths int
	concurrency   int
	now           func() time.Time
}

// SyncWorkerConfig holds configuration for the sync worker.
type SyncWorkerConfig struct {
	Interval      time.Duration
	HorizonMonths int
	Concurrency   int
}

// NewSyncWorker creates a new sync worker. A nil accruer disables savings accrual.
func NewSyncWorker(synchronizer Synchronizer, accruer Accruer, config SyncWorkerConfig) *SyncWorker {
	return &SyncWorker{
		synchronizer:  synchronizer,
		accruer:       accruer,
		interval:      config.Interval,
		horizonMonths: config.HorizonMonths,
		concurrency:   config.Concurrency,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *SyncWorker) Start(ctx context.Context) {
	slog.Info("Sync worker started",
		"interval", w.interval,
		"horizon_months", w.horizonMonths,
		"concurrency", w.concurrency,
		"accrue_savings", w.accruer != nil,
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run immediately on start, then on ticker
	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Sync worker shutting down")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single synchronization and accrual pass.
func (w *SyncWorker) RunOnce(ctx context.Context) {
	now := w.now()

	result, err := w.synchronizer.Execute(ctx, recurringpayment.SynchronizeAllInput{
		HorizonMonths: w.horizonMonths,
		ReferenceDate: &now,
		Concurrency:   w.concurrency,
	})
	if err != nil {
		slog.Error("Failed to synchronize definitions", "error", err)
		return
	}
	if len(result.Failures) > 0 {
		slog.Warn("Some definitions failed to synchronize",
			"failed", len(result.Failures),
			"succeeded", len(result.Summaries),
		)
	}

	if w.accruer == nil {
		return
	}

	accrued, err := w.accruer.Execute(ctx, saving.AccrueMonthlySavingsInput{
		Year:  now.Year(),
		Month: now.Month(),
	})
	if err != nil {
		slog.Error("Failed to accrue monthly savings",
			"year", now.Year(),
			"month", int(now.Month()),
			"error", err,
		)
		return
	}

	slog.Info("Monthly savings accrued",
		"year", now.Year(),
		"month", int(now.Month()),
		"recorded", accrued.Recorded,
		"skipped", accrued.Skipped,
	)
}
