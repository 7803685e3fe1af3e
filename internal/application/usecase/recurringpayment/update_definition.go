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

// UpdateDefinitionInput represents the input for payment definition update.
// Nil fields are left unchanged; Clear* flags remove optional values.
type UpdateDefinitionInput struct {
	DefinitionID              uuid.UUID
	Name                      *string
	Notes                     *string
	Amount                    *decimal.Decimal
	RecurrenceIntervalMonths  *int
	FirstOccurrenceDate       *time.Time
	EndDate                   *time.Time
	ClearEndDate              bool
	LeadTimeMonths            *int
	CategoryID                *uuid.UUID
	ClearCategory             bool
	SavingStrategy            *valueobject.SavingStrategy
	CustomMonthlySavingAmount *decimal.Decimal
	DateAdjustmentPolicy      *valueobject.DateAdjustmentPolicy
	DayPattern                *valueobject.DayOfMonthPattern
	ClearDayPattern           bool
	HorizonMonths             int
	ReferenceDate             *time.Time // Optional, defaults to now
}

// UpdateDefinitionOutput represents the output of payment definition update.
type UpdateDefinitionOutput struct {
	Definition  *entity.PaymentDefinition
	Occurrences []*entity.PaymentOccurrence
	Summary     SynchronizationSummary
}

// UpdateDefinitionUseCase handles payment definition update logic.
type UpdateDefinitionUseCase struct {
	repo         adapter.RecurringPaymentRepository
	categoryRepo adapter.CategoryRepository
	locker       adapter.DefinitionLocker
	synchronizer *SynchronizeUseCase
}

// NewUpdateDefinitionUseCase creates a new UpdateDefinitionUseCase instance.
func NewUpdateDefinitionUseCase(
	repo adapter.RecurringPaymentRepository,
	categoryRepo adapter.CategoryRepository,
	locker adapter.DefinitionLocker,
	synchronizer *SynchronizeUseCase,
) *UpdateDefinitionUseCase {
	return &UpdateDefinitionUseCase{
		repo:         repo,
		categoryRepo: categoryRepo,
		locker:       locker,
		synchronizer: synchronizer,
	}
}

// Execute applies the edit and re-synchronizes so the change reaches non-locked occurrences.
func (uc *UpdateDefinitionUseCase) Execute(ctx context.Context, input UpdateDefinitionInput) (*UpdateDefinitionOutput, error) {
	if err := checkHorizon(input.HorizonMonths); err != nil {
		return nil, err
	}

	unlock, err := lockDefinition(ctx, uc.locker, input.DefinitionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	definition, err := uc.repo.FindDefinitionByID(ctx, input.DefinitionID)
	if err != nil {
		return nil, domainerror.Wrap(err)
	}

	attrs := input.apply(definition.Attributes())
	if reasons := attrs.Validate(); len(reasons) > 0 {
		return nil, domainerror.NewValidationError(reasons...)
	}
	if input.CategoryID != nil {
		if err := checkCategory(ctx, uc.categoryRepo, input.CategoryID); err != nil {
			return nil, err
		}
	}

	definition.Apply(attrs)
	definition.UpdatedAt = time.Now().UTC()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	commitCtx := context.WithoutCancel(ctx)
	if err := uc.repo.UpdateDefinition(commitCtx, definition); err != nil {
		return nil, domainerror.Wrap(err)
	}

	slog.InfoContext(ctx, "payment definition updated", "definition_id", definition.ID.String())

	synced, err := uc.synchronizer.synchronizeLocked(commitCtx, definition.ID, input.HorizonMonths, referenceDateOr(input.ReferenceDate))
	if err != nil {
		return nil, err
	}
	uc.synchronizer.publishSynchronized(commitCtx, synced.Summary)

	return &UpdateDefinitionOutput{
		Definition:  definition,
		Occurrences: synced.Occurrences,
		Summary:     synced.Summary,
	}, nil
}

func (input UpdateDefinitionInput) apply(attrs entity.PaymentDefinitionAttributes) entity.PaymentDefinitionAttributes {
	if input.Name != nil {
		attrs.Name = *input.Name
	}
	if input.Notes != nil {
		attrs.Notes = *input.Notes
	}
	if input.Amount != nil {
		attrs.Amount = *input.Amount
	}
	if input.RecurrenceIntervalMonths != nil {
		attrs.RecurrenceIntervalMonths = *input.RecurrenceIntervalMonths
	}
	if input.FirstOccurrenceDate != nil {
		attrs.FirstOccurrenceDate = *input.FirstOccurrenceDate
	}
	if input.ClearEndDate {
		attrs.EndDate = nil
	} else if input.EndDate != nil {
		attrs.EndDate = input.EndDate
	}
	if input.LeadTimeMonths != nil {
		attrs.LeadTimeMonths = *input.LeadTimeMonths
	}
	if input.ClearCategory {
		attrs.CategoryID = nil
	} else if input.CategoryID != nil {
		attrs.CategoryID = input.CategoryID
	}
	if input.SavingStrategy != nil {
		attrs.SavingStrategy = *input.SavingStrategy
		if !attrs.SavingStrategy.RequiresCustomAmount() && input.CustomMonthlySavingAmount == nil {
			attrs.CustomMonthlySavingAmount = nil
		}
	}
	if input.CustomMonthlySavingAmount != nil {
		attrs.CustomMonthlySavingAmount = input.CustomMonthlySavingAmount
	}
	if input.DateAdjustmentPolicy != nil {
		attrs.DateAdjustmentPolicy = *input.DateAdjustmentPolicy
	}
	if input.ClearDayPattern {
		attrs.DayPattern = nil
	} else if input.DayPattern != nil {
		attrs.DayPattern = input.DayPattern
	}
	return attrs
}
