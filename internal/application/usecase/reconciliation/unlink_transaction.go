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

// UnlinkTransactionInput represents the input for clearing an occurrence's transaction link.
type UnlinkTransactionInput struct {
	OccurrenceID uuid.UUID
}

// UnlinkTransactionOutput represents the result of an unlink.
type UnlinkTransactionOutput struct {
	Occurrence            *entity.PaymentOccurrence
	UnlinkedTransactionID *uuid.UUID // nil when the occurrence had no link
}

// UnlinkTransactionUseCase clears the transaction linked to an occurrence.
type UnlinkTransactionUseCase struct {
	repo         adapter.RecurringPaymentRepository
	transactions adapter.TransactionStore
	locker       adapter.DefinitionLocker
}

// NewUnlinkTransactionUseCase creates a new UnlinkTransactionUseCase instance.
func NewUnlinkTransactionUseCase(
	repo adapter.RecurringPaymentRepository,
	transactions adapter.TransactionStore,
	locker adapter.DefinitionLocker,
) *UnlinkTransactionUseCase {
	return &UnlinkTransactionUseCase{
		repo:         repo,
		transactions: transactions,
		locker:       locker,
	}
}

// Execute removes the link. Unlinking an occurrence without a link is a no-op.
func (uc *UnlinkTransactionUseCase) Execute(ctx context.Context, input UnlinkTransactionInput) (*UnlinkTransactionOutput, error) {
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

	previous := occurrence.LinkedTransactionID
	if previous == nil {
		return &UnlinkTransactionOutput{Occurrence: occurrence}, nil
	}

	occurrence.LinkedTransactionID = nil
	occurrence.UpdatedAt = time.Now().UTC()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	commitCtx := context.WithoutCancel(ctx)
	if err := uc.repo.SaveOccurrence(commitCtx, occurrence, nil); err != nil {
		return nil, domainerror.Wrap(err)
	}
	if err := uc.transactions.UnlinkTransaction(commitCtx, *previous); err != nil {
		slog.WarnContext(ctx, "failed to unlink transaction",
			"transaction_id", previous.String(),
			"occurrence_id", occurrence.ID.String(),
			"error", err,
		)
	}

	slog.InfoContext(ctx, "transaction unlinked",
		"occurrence_id", occurrence.ID.String(),
		"transaction_id", previous.String(),
	)

	return &UnlinkTransactionOutput{
		Occurrence:            occurrence,
		UnlinkedTransactionID: previous,
	}, nil
}
