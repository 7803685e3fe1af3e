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

// CreateDefinitionInput represents the input for payment definition creation.
type CreateDefinitionInput struct {
	Attributes    entity.PaymentDefinitionAttributes
	HorizonMonths int
	ReferenceDate *time.Time // Optional, defaults to now
}

// CreateDefinitionOutput represents the output of payment definition creation.
type CreateDefinitionOutput struct {
	Definition  *entity.PaymentDefinition
	Balance     *entity.SavingBalance
	Occurrences []*entity.PaymentOccurrence
	Summary     SynchronizationSummary
}

// CreateDefinitionUseCase handles payment definition creation logic.
type CreateDefinitionUseCase struct {
	repo         adapter.RecurringPaymentRepository
	categoryRepo adapter.CategoryRepository
	synchronizer *SynchronizeUseCase
}

// NewCreateDefinitionUseCase creates a new CreateDefinitionUseCase instance.
func NewCreateDefinitionUseCase(
	repo adapter.RecurringPaymentRepository,
	categoryRepo adapter.CategoryRepository,
	synchronizer *SynchronizeUseCase,
) *CreateDefinitionUseCase {
	return &CreateDefinitionUseCase{
		repo:         repo,
		categoryRepo: categoryRepo,
		synchronizer: synchronizer,
	}
}

// Execute validates and stores the definition with an empty balance, then generates its occurrences.
func (uc *CreateDefinitionUseCase) Execute(ctx context.Context, input CreateDefinitionInput) (*CreateDefinitionOutput, error) {
	if err := checkHorizon(input.HorizonMonths); err != nil {
		return nil, err
	}
	if reasons := input.Attributes.Validate(); len(reasons) > 0 {
		return nil, domainerror.NewValidationError(reasons...)
	}
	if err := checkCategory(ctx, uc.categoryRepo, input.Attributes.CategoryID); err != nil {
		return nil, err
	}

	definition := entity.NewPaymentDefinition(input.Attributes)
	balance := entity.NewSavingBalance(definition.ID)

	if err := uc.repo.CreateDefinition(ctx, definition, balance); err != nil {
		return nil, domainerror.Wrap(err)
	}

	slog.InfoContext(ctx, "payment definition created",
		"definition_id", definition.ID.String(),
		"interval_months", definition.RecurrenceIntervalMonths,
	)

	synced, err := uc.synchronizer.Execute(ctx, SynchronizeInput{
		DefinitionID:  definition.ID,
		HorizonMonths: input.HorizonMonths,
		ReferenceDate: input.ReferenceDate,
	})
	if err != nil {
		return nil, err
	}

	return &CreateDefinitionOutput{
		Definition:  definition,
		Balance:     balance,
		Occurrences: synced.Occurrences,
		Summary:     synced.Summary,
	}, nil
}

// checkCategory verifies an optional category reference.
func checkCategory(ctx context.Context, categoryRepo adapter.CategoryRepository, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	if _, err := categoryRepo.FindByID(ctx, *categoryID); err != nil {
		return domainerror.Wrap(err)
	}
	return nil
}
