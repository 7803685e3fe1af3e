package reconciliation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
)

// LinkTransactionInput represents the input for linking a transaction to an occurrence.
type LinkTransactionInput struct {
	OccurrenceID  uuid.UUID
	TransactionID uuid.UUID
}

// LinkTransactionOutput represents the linked occurrence.
type LinkTransactionOutput struct {
	Occurrence  *entity.PaymentOccurrence
	Transaction *entity.Transaction
}

// LinkTransactionUseCase records that a transaction settles an occurrence.
type LinkTransactionUseCase struct {
	repo         adapter.RecurringPaymentRepository
	transactions adapter.TransactionStore
	locker       adapter.DefinitionLocker
}

// NewLinkTransactionUseCase creates a new LinkTransactionUseCase instance.
func NewLinkTransactionUseCase(
	repo adapter.RecurringPaymentRepository,
	transactions adapter.TransactionStore,
	locker adapter.DefinitionLocker,
) *LinkTransactionUseCase {
	return &LinkTransactionUseCase{
		repo:         repo,
		transactions: transactions,
		locker:       locker,
	}
}

// Execute links the transaction, replacing any previous link of the occurrence.
func (uc *LinkTransactionUseCase) Execute(ctx context.Context, input LinkTransactionInput) (*LinkTransactionOutput, error) {
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

	transaction, err := uc.transactions.FindByID(ctx, input.TransactionID)
	if err != nil {
		return nil, domainerror.Wrap(err)
	}
	if !transaction.IsExpense() {
		return nil, domainerror.NewValidationError("only expense transactions can settle an occurrence")
	}

	lookup, err := linkedOccurrences(ctx, uc.repo, []uuid.UUID{transaction.ID})
	if err != nil {
		return nil, err
	}
	if owner, linked := lookup[transaction.ID]; linked && owner != occurrence.ID {
		return nil, domainerror.NewValidationError("transaction is already linked to another occurrence")
	}

	previous := occurrence.LinkedTransactionID
	if previous != nil && *previous == transaction.ID {
		return &LinkTransactionOutput{Occurrence: occurrence, Transaction: transaction}, nil
	}

	id := transaction.ID
	occurrence.LinkedTransactionID = &id
	occurrence.UpdatedAt = time.Now().UTC()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	commitCtx := context.WithoutCancel(ctx)
	if err := uc.repo.SaveOccurrence(commitCtx, occurrence, nil); err != nil {
		return nil, domainerror.Wrap(err)
	}

	if previous != nil {
		if err := uc.transactions.UnlinkTransaction(commitCtx, *previous); err != nil {
			slog.WarnContext(ctx, "failed to unlink transaction",
				"transaction_id", previous.String(),
				"occurrence_id", occurrence.ID.String(),
				"error", err,
			)
		}
	}
	if err := uc.transactions.LinkTransaction(commitCtx, transaction.ID, occurrence.ID); err != nil {
		slog.WarnContext(ctx, "failed to link transaction",
			"transaction_id", transaction.ID.String(),
			"occurrence_id", occurrence.ID.String(),
			"error", err,
		)
	} else {
		transaction.OccurrenceID = &occurrence.ID
	}

	slog.InfoContext(ctx, "transaction linked",
		"occurrence_id", occurrence.ID.String(),
		"transaction_id", transaction.ID.String(),
	)

	return &LinkTransactionOutput{
		Occurrence:  occurrence,
		Transaction: transaction,
	}, nil
}
