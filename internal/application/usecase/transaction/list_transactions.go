package transaction

import (
	"context"
	"time"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// ListTransactionsInput represents the date range to list.
type ListTransactionsInput struct {
	StartDate time.Time
	EndDate   time.Time
}

// ListTransactionsOutput represents the transactions in the range, ordered by date.
type ListTransactionsOutput struct {
	Transactions []*entity.Transaction
}

// ListTransactionsUseCase lists transactions within a date range.
type ListTransactionsUseCase struct {
	transactionStore adapter.TransactionStore
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(transactionStore adapter.TransactionStore) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionStore: transactionStore,
	}
}

// Execute performs the listing.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	start := valueobject.DateOf(input.StartDate)
	end := valueobject.DateOf(input.EndDate)
	if end.Before(start) {
		return nil, domainerror.NewValidationError("end date must not be before start date")
	}

	transactions, err := uc.transactionStore.FindInRange(ctx, adapter.DateRange{Start: start, End: end})
	if err != nil {
		return nil, domainerror.Wrap(err)
	}
	if transactions == nil {
		transactions = []*entity.Transaction{}
	}

	return &ListTransactionsOutput{
		Transactions: transactions,
	}, nil
}
