package recurringpayment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
)

// GetDefinitionInput represents the input for fetching one definition.
type GetDefinitionInput struct {
	DefinitionID  uuid.UUID
	ReferenceDate *time.Time // Optional, defaults to now; used for the next occurrence
}

// GetDefinitionOutput represents the output of fetching one definition.
type GetDefinitionOutput struct {
	Definition     *entity.PaymentDefinition
	Balance        *entity.SavingBalance
	Occurrences    []*entity.PaymentOccurrence
	NextOccurrence *entity.PaymentOccurrence
}

// GetDefinitionUseCase loads a definition with its occurrences and balance.
type GetDefinitionUseCase struct {
	repo adapter.RecurringPaymentRepository
}

// NewGetDefinitionUseCase creates a new GetDefinitionUseCase instance.
func NewGetDefinitionUseCase(repo adapter.RecurringPaymentRepository) *GetDefinitionUseCase {
	return &GetDefinitionUseCase{
		repo: repo,
	}
}

// Execute fetches the definition.
func (uc *GetDefinitionUseCase) Execute(ctx context.Context, input GetDefinitionInput) (*GetDefinitionOutput, error) {
	definition, err := uc.repo.FindDefinitionByID(ctx, input.DefinitionID)
	if err != nil {
		return nil, domainerror.Wrap(err)
	}

	occurrences, err := uc.repo.FindOccurrencesByDefinition(ctx, definition.ID)
	if err != nil {
		return nil, domainerror.Wrap(err)
	}

	balance, err := loadBalance(ctx, uc.repo, definition.ID)
	if err != nil {
		return nil, err
	}

	return &GetDefinitionOutput{
		Definition:     definition,
		Balance:        balance,
		Occurrences:    occurrences,
		NextOccurrence: nextOccurrence(occurrences, referenceDateOr(input.ReferenceDate)),
	}, nil
}
