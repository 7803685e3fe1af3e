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
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// UpdateOccurrenceInput represents the input for an occurrence edit.
// Actuals and the linked transaction replace the stored values; nil clears them.
type UpdateOccurrenceInput struct {
	OccurrenceID        uuid.UUID
	Status              entity.OccurrenceStatus
	ActualDate          *time.Time
	ActualAmount        *decimal.Decimal
	LinkedTransactionID *uuid.UUID
	HorizonMonths       int
	ReferenceDate       *time.Time // Optional, defaults to now
}

// UpdateOccurrenceOutput represents the output of an occurrence edit.
// Summary is nil when the edit did not change the completion state.
type UpdateOccurrenceOutput struct {
	Occurrence *entity.PaymentOccurrence
	Balance    *entity.SavingBalance
	Summary    *SynchronizationSummary
}

// UpdateOccurrenceUseCase edits an occurrence's status and actuals.
type UpdateOccurrenceUseCase struct {
	repo         adapter.RecurringPaymentRepository
	transactions adapter.TransactionStore
	locker       adapter.DefinitionLocker
	publisher    adapter.EventPublisher
	synchronizer *SynchronizeUseCase
}

// NewUpdateOccurrenceUseCase creates a new UpdateOccurrenceUseCase instance.
func NewUpdateOccurrenceUseCase(
	repo adapter.RecurringPaymentRepository,
	transactions adapter.TransactionStore,
	locker adapter.DefinitionLocker,
	publisher adapter.EventPublisher,
	synchronizer *SynchronizeUseCase,
) *UpdateOccurrenceUseCase {
	return &UpdateOccurrenceUseCase{
		repo:         repo,
		transactions: transactions,
		locker:       locker,
		publisher:    publisher,
		synchronizer: synchronizer,
	}
}

// Execute applies the edit and re-synchronizes only when the completion state flips.
func (uc *UpdateOccurrenceUseCase) Execute(ctx context.Context, input UpdateOccurrenceInput) (*UpdateOccurrenceOutput, error) {
	if err := checkHorizon(input.HorizonMonths); err != nil {
		return nil, err
	}
	if !input.Status.IsValid() {
		return nil, domainerror.NewValidationError("status is invalid")
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

	occurrence, err := uc.repo.FindOccurrenceByID(ctx, input.OccurrenceID)
	if err != nil {
		return nil, domainerror.Wrap(err)
	}

	if input.LinkedTransactionID != nil {
		if err := validateTransactionLink(ctx, uc.repo, uc.transactions, occurrence.ID, *input.LinkedTransactionID); err != nil {
			return nil, err
		}
	}

	wasCompleted := occurrence.IsCompleted()
	previousPaid := occurrence.PaidAmount()
	previousLink := occurrence.LinkedTransactionID

	occurrence.Status = input.Status
	occurrence.ActualDate = nil
	if input.ActualDate != nil {
		date := valueobject.DateOf(*input.ActualDate)
		occurrence.ActualDate = &date
	}
	occurrence.ActualAmount = input.ActualAmount
	occurrence.LinkedTransactionID = input.LinkedTransactionID
	occurrence.UpdatedAt = time.Now().UTC()

	var reasons []string
	if occurrence.IsCompleted() {
		reasons = occurrence.ValidateCompletion()
	} else if occurrence.ActualAmount != nil && !occurrence.ActualAmount.IsPositive() {
		reasons = append(reasons, "actual amount must be greater than zero")
	}
	if len(reasons) > 0 {
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

	slog.InfoContext(ctx, "occurrence updated",
		"occurrence_id", occurrence.ID.String(),
		"definition_id", occurrence.DefinitionID.String(),
		"status", string(occurrence.Status),
	)

	output := &UpdateOccurrenceOutput{
		Occurrence: occurrence,
		Balance:    balance,
	}
	if wasCompleted == occurrence.IsCompleted() {
		return output, nil
	}

	synced, err := uc.synchronizer.synchronizeLocked(commitCtx, occurrence.DefinitionID, input.HorizonMonths, referenceDateOr(input.ReferenceDate))
	if err != nil {
		return nil, err
	}
	if occurrence.IsCompleted() {
		publishCompleted(commitCtx, uc.publisher, occurrence)
	}
	uc.synchronizer.publishSynchronized(commitCtx, synced.Summary)

	output.Summary = &synced.Summary
	return output, nil
}
