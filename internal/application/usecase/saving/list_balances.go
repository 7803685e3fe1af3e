// Package saving contains saving accrual and balance use cases.
package saving

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
)

// ListBalancesInput represents the input for listing saving balances.
type ListBalancesInput struct {
	DefinitionIDs []uuid.UUID
}

// ListBalancesOutput represents the output of listing saving balances.
type ListBalancesOutput struct {
	Balances []*entity.SavingBalance
}

// ListBalancesUseCase lists saving balances.
type ListBalancesUseCase struct {
	repo adapter.RecurringPaymentRepository
}

// NewListBalancesUseCase creates a new ListBalancesUseCase instance.
func NewListBalancesUseCase(repo adapter.RecurringPaymentRepository) *ListBalancesUseCase {
	return &ListBalancesUseCase{
		repo: repo,
	}
}

// Execute lists the balances.
func (uc *ListBalancesUseCase) Execute(ctx context.Context, input ListBalancesInput) (*ListBalancesOutput, error) {
	balances, err := uc.repo.FindBalances(ctx, adapter.BalanceQuery{DefinitionIDs: input.DefinitionIDs})
	if err != nil {
		return nil, domainerror.Wrap(err)
	}
	if balances == nil {
		balances = []*entity.SavingBalance{}
	}
	return &ListBalancesOutput{Balances: balances}, nil
}
