package recurringpayment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// ListDefinitionsInput represents the input for listing definitions.
type ListDefinitionsInput struct {
	IDs           []uuid.UUID
	SearchText    string
	CategoryIDs   []uuid.UUID
	ReferenceDate *time.Time // Optional, defaults to now; used for next occurrences
}

// ListDefinitionsOutput represents the output of listing definitions.
type ListDefinitionsOutput struct {
	Definitions []*entity.PaymentDefinitionWithDetails
}

// ListDefinitionsUseCase lists definitions with their balance and next occurrence.
type ListDefinitionsUseCase struct {
	repo adapter.RecurringPaymentRepository
}

// NewListDefinitionsUseCase creates a new ListDefinitionsUseCase instance.
func NewListDefinitionsUseCase(repo adapter.RecurringPaymentRepository) *ListDefinitionsUseCase {
	return &ListDefinitionsUseCase{
		repo: repo,
	}
}

// Execute lists the definitions matching the filter.
func (uc *ListDefinitionsUseCase) Execute(ctx context.Context, input ListDefinitionsInput) (*ListDefinitionsOutput, error) {
	definitions, err := uc.repo.FindDefinitions(ctx, adapter.DefinitionFilter{
		IDs:         input.IDs,
		SearchText:  input.SearchText,
		CategoryIDs: input.CategoryIDs,
	})
	if err != nil {
		return nil, domainerror.Wrap(err)
	}
	if len(definitions) == 0 {
		return &ListDefinitionsOutput{Definitions: []*entity.PaymentDefinitionWithDetails{}}, nil
	}

	ids := make([]uuid.UUID, len(definitions))
	for i, d := range definitions {
		ids[i] = d.ID
	}

	balances, err := uc.repo.FindBalances(ctx, adapter.BalanceQuery{DefinitionIDs: ids})
	if err != nil {
		return nil, domainerror.Wrap(err)
	}
	balanceByDefinition := make(map[uuid.UUID]*entity.SavingBalance, len(balances))
	for _, b := range balances {
		balanceByDefinition[b.DefinitionID] = b
	}

	ref := valueobject.DateOf(referenceDateOr(input.ReferenceDate))
	upcoming, err := uc.repo.FindOccurrences(ctx, adapter.OccurrenceQuery{
		DefinitionIDs: ids,
		Statuses:      []entity.OccurrenceStatus{entity.OccurrenceStatusPlanned, entity.OccurrenceStatusSaving},
	})
	if err != nil {
		return nil, domainerror.Wrap(err)
	}
	nextByDefinition := make(map[uuid.UUID]*entity.PaymentOccurrence, len(definitions))
	for _, occ := range upcoming {
		if occ.ScheduledDate.Before(ref) {
			continue
		}
		if _, ok := nextByDefinition[occ.DefinitionID]; !ok {
			nextByDefinition[occ.DefinitionID] = occ
		}
	}

	result := make([]*entity.PaymentDefinitionWithDetails, len(definitions))
	for i, d := range definitions {
		result[i] = &entity.PaymentDefinitionWithDetails{
			Definition:     d,
			Balance:        balanceByDefinition[d.ID],
			NextOccurrence: nextByDefinition[d.ID],
		}
	}

	return &ListDefinitionsOutput{Definitions: result}, nil
}
