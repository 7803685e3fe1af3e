// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// MaxDescriptionLength is the maximum allowed length for transaction descriptions.
const MaxDescriptionLength = 255

// CreateTransactionInput represents the input for transaction creation.
type CreateTransactionInput struct {
	Date                   time.Time
	Description            string
	Amount                 decimal.Decimal
	Type                   entity.TransactionType
	CategoryID             *uuid.UUID
	ExcludeFromCalculation bool
}

// CreateTransactionOutput represents the output of transaction creation.
type CreateTransactionOutput struct {
	Transaction *entity.Transaction
}

// CreateTransactionUseCase records an account transaction that occurrences can be reconciled against.
type CreateTransactionUseCase struct {
	transactionStore adapter.TransactionStore
	categoryRepo     adapter.CategoryRepository
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(
	transactionStore adapter.TransactionStore,
	categoryRepo adapter.CategoryRepository,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		transactionStore: transactionStore,
		categoryRepo:     categoryRepo,
	}
}

// Execute performs the transaction creation.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	var reasons []string
	description := strings.TrimSpace(input.Description)
	if description == "" {
		reasons = append(reasons, "description is required")
	}
	if len(description) > MaxDescriptionLength {
		reasons = append(reasons, fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength))
	}
	if input.Type != entity.TransactionTypeExpense && input.Type != entity.TransactionTypeIncome {
		reasons = append(reasons, "transaction type must be 'expense' or 'income'")
	}
	if input.Amount.IsZero() {
		reasons = append(reasons, "amount must not be zero")
	}
	if input.Date.IsZero() {
		reasons = append(reasons, "date is required")
	}
	if len(reasons) > 0 {
		return nil, domainerror.NewValidationError(reasons...)
	}

	if input.CategoryID != nil {
		if _, err := uc.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			return nil, domainerror.Wrap(err)
		}
	}

	// Expenses are stored negative, income positive.
	amount := input.Amount.Abs()
	if input.Type == entity.TransactionTypeExpense {
		amount = amount.Neg()
	}

	transaction := entity.NewTransaction(
		valueobject.DateOf(input.Date),
		description,
		amount,
		input.Type,
		input.CategoryID,
	)
	transaction.ExcludeFromCalculation = input.ExcludeFromCalculation

	if err := uc.transactionStore.Create(ctx, transaction); err != nil {
		return nil, domainerror.Wrap(err)
	}

	slog.InfoContext(ctx, "transaction created",
		"transaction_id", transaction.ID.String(),
		"type", string(transaction.Type),
	)

	return &CreateTransactionOutput{
		Transaction: transaction,
	}, nil
}
