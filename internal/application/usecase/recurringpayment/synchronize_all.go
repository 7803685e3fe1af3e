package recurringpayment

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
)

// SynchronizeAllInput represents the input for synchronizing every definition.
type SynchronizeAllInput struct {
	HorizonMonths int
	ReferenceDate *time.Time // Optional, defaults to now
	Concurrency   int        // Values below 1 mean sequential
}

// SynchronizeAllOutput represents the output of a bulk synchronization.
type SynchronizeAllOutput struct {
	Summaries []SynchronizationSummary
	Failures  map[uuid.UUID]error
}

// SynchronizeAllUseCase synchronizes every definition with bounded concurrency.
// Definitions are independent aggregates; a failure of one does not stop the others.
type SynchronizeAllUseCase struct {
	repo         adapter.RecurringPaymentRepository
	synchronizer *SynchronizeUseCase
}

// NewSynchronizeAllUseCase creates a new SynchronizeAllUseCase instance.
func NewSynchronizeAllUseCase(repo adapter.RecurringPaymentRepository, synchronizer *SynchronizeUseCase) *SynchronizeAllUseCase {
	return &SynchronizeAllUseCase{
		repo:         repo,
		synchronizer: synchronizer,
	}
}

// Execute runs the bulk synchronization.
func (uc *SynchronizeAllUseCase) Execute(ctx context.Context, input SynchronizeAllInput) (*SynchronizeAllOutput, error) {
	if err := checkHorizon(input.HorizonMonths); err != nil {
		return nil, err
	}

	definitions, err := uc.repo.FindDefinitions(ctx, adapter.DefinitionFilter{})
	if err != nil {
		return nil, domainerror.Wrap(err)
	}

	ref := referenceDateOr(input.ReferenceDate)
	limit := input.Concurrency
	if limit < 1 {
		limit = 1
	}

	var (
		mu     sync.Mutex
		output = &SynchronizeAllOutput{Failures: make(map[uuid.UUID]error)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, def := range definitions {
		definitionID := def.ID
		g.Go(func() error {
			result, err := uc.synchronizer.Execute(gctx, SynchronizeInput{
				DefinitionID:  definitionID,
				HorizonMonths: input.HorizonMonths,
				ReferenceDate: &ref,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Cancellation of the whole run is the only error that stops the group.
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				output.Failures[definitionID] = err
				slog.ErrorContext(gctx, "failed to synchronize definition",
					"definition_id", definitionID.String(),
					"error", err,
				)
				return nil
			}
			output.Summaries = append(output.Summaries, result.Summary)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "definitions synchronized",
		"definitions", len(definitions),
		"succeeded", len(output.Summaries),
		"failed", len(output.Failures),
	)

	return output, nil
}
