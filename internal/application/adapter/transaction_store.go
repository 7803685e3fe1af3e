package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
)

// TransactionStore supplies account transactions and accepts occurrence links.
type TransactionStore interface {
	// Create stores a new transaction.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// FindByID retrieves a transaction by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindInRange retrieves transactions dated within the range, ordered by date.
	FindInRange(ctx context.Context, dateRange DateRange) ([]*entity.Transaction, error)

	// LinkTransaction records that the transaction settles the occurrence.
	LinkTransaction(ctx context.Context, transactionID, occurrenceID uuid.UUID) error

	// UnlinkTransaction clears the transaction's occurrence link.
	UnlinkTransaction(ctx context.Context, transactionID uuid.UUID) error
}
