package recurringpayment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
)

// SynchronizationSummary reports what one synchronization changed.
type SynchronizationSummary struct {
	DefinitionID uuid.UUID
	SyncedAt     time.Time
	CreatedCount int
	UpdatedCount int
	RemovedCount int
}

// SynchronizeInput represents the input for occurrence synchronization.
type SynchronizeInput struct {
	DefinitionID  uuid.UUID
	HorizonMonths int
	ReferenceDate *time.Time // Optional, defaults to now
}

// SynchronizeOutput represents the output of occurrence synchronization.
type SynchronizeOutput struct {
	Summary     SynchronizationSummary
	Occurrences []*entity.PaymentOccurrence
}

// SynchronizeUseCase regenerates a definition's occurrences over a horizon.
type SynchronizeUseCase struct {
	repo      adapter.RecurringPaymentRepository
	locker    adapter.DefinitionLocker
	publisher adapter.EventPublisher
	scheduler *Scheduler
}

// NewSynchronizeUseCase creates a new SynchronizeUseCase instance.
func NewSynchronizeUseCase(
	repo adapter.RecurringPaymentRepository,
	locker adapter.DefinitionLocker,
	publisher adapter.EventPublisher,
	scheduler *Scheduler,
) *SynchronizeUseCase {
	return &SynchronizeUseCase{
		repo:      repo,
		locker:    locker,
		publisher: publisher,
		scheduler: scheduler,
	}
}

// Execute synchronizes the definition's occurrences while holding its lock.
func (uc *SynchronizeUseCase) Execute(ctx context.Context, input SynchronizeInput) (*SynchronizeOutput, error) {
	if err := checkHorizon(input.HorizonMonths); err != nil {
		return nil, err
	}

	unlock, err := lockDefinition(ctx, uc.locker, input.DefinitionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	output, err := uc.synchronizeLocked(ctx, input.DefinitionID, input.HorizonMonths, referenceDateOr(input.ReferenceDate))
	if err != nil {
		return nil, err
	}

	uc.publishSynchronized(ctx, output.Summary)
	return output, nil
}

// synchronizeLocked builds and commits the plan. The caller must hold the definition lock.
func (uc *SynchronizeUseCase) synchronizeLocked(ctx context.Context, definitionID uuid.UUID, horizonMonths int, referenceDate time.Time) (*SynchronizeOutput, error) {
	definition, err := uc.repo.FindDefinitionByID(ctx, definitionID)
	if err != nil {
		return nil, domainerror.Wrap(err)
	}
	if definition.RecurrenceIntervalMonths <= 0 {
		return nil, domainerror.NewInvalidRecurrenceError()
	}

	existing, err := uc.repo.FindOccurrencesByDefinition(ctx, definitionID)
	if err != nil {
		return nil, domainerror.Wrap(err)
	}

	plan, err := uc.scheduler.Plan(definition, existing, referenceDate, horizonMonths)
	if err != nil {
		return nil, err
	}

	summary := SynchronizationSummary{
		DefinitionID: definitionID,
		SyncedAt:     referenceDate,
		CreatedCount: len(plan.Created),
		UpdatedCount: len(plan.Updated),
		RemovedCount: len(plan.Removed),
	}
	if len(plan.Expected) == 0 {
		return &SynchronizeOutput{Summary: summary, Occurrences: plan.Occurrences}, nil
	}

	// Cancellation is honored up to the commit; the commit itself always runs to completion.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := uc.repo.ApplySynchronizationPlan(context.WithoutCancel(ctx), definitionID, plan.Changes(), referenceDate); err != nil {
		return nil, domainerror.Wrap(err)
	}

	slog.InfoContext(ctx, "occurrences synchronized",
		"definition_id", definitionID.String(),
		"created", summary.CreatedCount,
		"updated", summary.UpdatedCount,
		"removed", summary.RemovedCount,
		"occurrences", len(plan.Occurrences),
	)

	return &SynchronizeOutput{Summary: summary, Occurrences: plan.Occurrences}, nil
}

func (uc *SynchronizeUseCase) publishSynchronized(ctx context.Context, summary SynchronizationSummary) {
	event := adapter.SynchronizationEvent{
		DefinitionID: summary.DefinitionID,
		SyncedAt:     summary.SyncedAt,
		Created:      summary.CreatedCount,
		Updated:      summary.UpdatedCount,
		Removed:      summary.RemovedCount,
	}
	if err := uc.publisher.PublishSynchronized(context.WithoutCancel(ctx), event); err != nil {
		slog.WarnContext(ctx, "failed to publish synchronization event",
			"definition_id", summary.DefinitionID.String(),
			"error", err,
		)
	}
}
