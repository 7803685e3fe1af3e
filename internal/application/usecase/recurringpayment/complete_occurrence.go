package recurringpayment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
)

// CompleteOccurrenceInput represents the input for marking an occurrence as paid.
type CompleteOccurrenceInput struct {
	OccurrenceID        uuid.UUID
	ActualDate          time.Time
	ActualAmount        decimal.Decimal
	LinkedTransactionID *uuid.UUID // Optional
	HorizonMonths       int
	ReferenceDate       *time.Time // Optional, defaults to now
}

// CompleteOccurrenceOutput represents the output of occurrence completion.
type CompleteOccurrenceOutput struct {
	Occurrence *entity.PaymentOccurrence
	Balance    *entity.SavingBalance
	Summary    *SynchronizationSummary
}

// CompleteOccurrenceUseCase marks an occurrence completed and re-synchronizes its definition.
type CompleteOccurrenceUseCase struct {
	repo         adapter.RecurringPaymentRepository
	transactions adapter.TransactionStore
	locker       adapter.DefinitionLocker
	publisher    adapter.EventPublisher
	synchronizer *SynchronizeUseCase
}

// NewCompleteOccurrenceUseCase creates a new CompleteOccurrenceUseCase instance.
func NewCompleteOccurrenceUseCase(
	repo adapter.RecurringPaymentRepository,
	transactions adapter.TransactionStore,
	locker adapter.DefinitionLocker,
	publisher adapter.EventPublisher,
	synchronizer *SynchronizeUseCase,
) *CompleteOccurrenceUseCase {
	return &CompleteOccurrenceUseCase{
		repo:         repo,
		transactions: transactions,
		locker:       locker,
		publisher:    publisher,
		synchronizer: synchronizer,
	}
}

// Execute completes the occurrence. The returned summary is never nil on success.
func (uc *CompleteOccurrenceUseCase) Execute(ctx context.Context, input CompleteOccurrenceInput) (*CompleteOccurrenceOutput, error) {
	if err := checkHorizon(input.HorizonMonths); err != nil {
		return nil, err
	}

	found, err := uc.repo.FindOccurrenceByID(ctx, input.OccurrenceID)
	if err != nil {
		return nil, domainerror.Wrap(err)
	}

	unlock, err := lockDefinition(ctx, uc.locker, found.DefinitionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Re-read under the lock; the occurrence may have changed while waiting.
	occurrence, err := uc.repo.FindOccurrenceByID(ctx, input.OccurrenceID)
	if err != nil {
		return nil, domainerror.Wrap(err)
	}

	if input.LinkedTransactionID != nil {
		if err := validateTransactionLink(ctx, uc.repo, uc.transactions, occurrence.ID, *input.LinkedTransactionID); err != nil {
			return nil, err
		}
	}

	previousPaid := occurrence.PaidAmount()
	previousLink := occurrence.LinkedTransactionID

	occurrence.Complete(input.ActualDate, input.ActualAmount, input.LinkedTransactionID)
	if reasons := occurrence.ValidateCompletion(); len(reasons) > 0 {
		return nil, domainerror.NewValidationError(reasons...)
	}

	balance, err := loadBalance(ctx, uc.repo, occurrence.DefinitionID)
	if err != nil {
		return nil, err
	}
	if balance != nil {
		balance.ApplyPaidDelta(occurrence.PaidAmount().Sub(previousPaid))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	commitCtx := context.WithoutCancel(ctx)
	if err := uc.repo.SaveOccurrence(commitCtx, occurrence, balance); err != nil {
		return nil, domainerror.Wrap(err)
	}
	mirrorTransactionLink(commitCtx, uc.transactions, occurrence.ID, previousLink, occurrence.LinkedTransactionID)

	slog.InfoContext(ctx, "occurrence completed",
		"occurrence_id", occurrence.ID.String(),
		"definition_id", occurrence.DefinitionID.String(),
		"actual_amount", occurrence.ActualAmount.String(),
	)

	// Completion can expose new horizon periods.
	synced, err := uc.synchronizer.synchronizeLocked(commitCtx, occurrence.DefinitionID, input.HorizonMonths, referenceDateOr(input.ReferenceDate))
	if err != nil {
		return nil, err
	}

	publishCompleted(commitCtx, uc.publisher, occurrence)
	uc.synchronizer.publishSynchronized(commitCtx, synced.Summary)

	return &CompleteOccurrenceOutput{
		Occurrence: occurrence,
		Balance:    balance,
		Summary:    &synced.Summary,
	}, nil
}

// loadBalance returns the definition's balance, or nil when it has none.
func loadBalance(ctx context.Context, repo adapter.RecurringPaymentRepository, definitionID uuid.UUID) (*entity.SavingBalance, error) {
	balance, err := repo.FindBalanceByDefinition(ctx, definitionID)
	if err != nil {
		if domainerror.IsNotFound(err) {
			return nil, nil
		}
		return nil, domainerror.Wrap(err)
	}
	return balance, nil
}

func publishCompleted(ctx context.Context, publisher adapter.EventPublisher, occurrence *entity.PaymentOccurrence) {
	if occurrence.ActualDate == nil || occurrence.ActualAmount == nil {
		return
	}
	event := adapter.OccurrenceCompletedEvent{
		OccurrenceID:        occurrence.ID,
		DefinitionID:        occurrence.DefinitionID,
		ScheduledDate:       occurrence.ScheduledDate,
		ActualDate:          *occurrence.ActualDate,
		ActualAmount:        *occurrence.ActualAmount,
		LinkedTransactionID: occurrence.LinkedTransactionID,
	}
	if err := publisher.PublishOccurrenceCompleted(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish occurrence completed event",
			"occurrence_id", occurrence.ID.String(),
			"error", err,
		)
	}
}
