package recurringpayment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// referenceDateOr returns *ref, or the current time when ref is nil.
func referenceDateOr(ref *time.Time) time.Time {
	if ref == nil {
		return time.Now().UTC()
	}
	return *ref
}

// checkHorizon validates a horizon before any persistence access.
func checkHorizon(horizonMonths int) error {
	if horizonMonths < 0 {
		return domainerror.NewInvalidHorizonError()
	}
	return nil
}

// lockDefinition acquires the definition lock, mapping failures to domain errors.
func lockDefinition(ctx context.Context, locker adapter.DefinitionLocker, definitionID uuid.UUID) (func(), error) {
	unlock, err := locker.Lock(ctx, definitionID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, domainerror.NewPersistenceError(err)
	}
	return unlock, nil
}

// validateTransactionLink checks that transactionID exists and is not linked to another occurrence.
func validateTransactionLink(
	ctx context.Context,
	repo adapter.RecurringPaymentRepository,
	transactions adapter.TransactionStore,
	occurrenceID uuid.UUID,
	transactionID uuid.UUID,
) error {
	if _, err := transactions.FindByID(ctx, transactionID); err != nil {
		return domainerror.Wrap(err)
	}

	linked, err := repo.FindOccurrences(ctx, adapter.OccurrenceQuery{
		LinkedTransactionIDs: []uuid.UUID{transactionID},
	})
	if err != nil {
		return domainerror.Wrap(err)
	}
	for _, occ := range linked {
		if occ.ID != occurrenceID {
			return domainerror.NewValidationError("transaction is already linked to another occurrence")
		}
	}
	return nil
}

// mirrorTransactionLink propagates an occurrence's link change to the transaction store.
// Failures are logged; the occurrence remains the source of truth for links.
func mirrorTransactionLink(
	ctx context.Context,
	transactions adapter.TransactionStore,
	occurrenceID uuid.UUID,
	previous, current *uuid.UUID,
) {
	if sameLink(previous, current) {
		return
	}
	if previous != nil {
		if err := transactions.UnlinkTransaction(ctx, *previous); err != nil {
			slog.WarnContext(ctx, "failed to unlink transaction",
				"transaction_id", previous.String(),
				"occurrence_id", occurrenceID.String(),
				"error", err,
			)
		}
	}
	if current != nil {
		if err := transactions.LinkTransaction(ctx, *current, occurrenceID); err != nil {
			slog.WarnContext(ctx, "failed to link transaction",
				"transaction_id", current.String(),
				"occurrence_id", occurrenceID.String(),
				"error", err,
			)
		}
	}
}

func sameLink(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// nextOccurrence returns the first non-locked occurrence scheduled on or after date.
func nextOccurrence(occurrences []*entity.PaymentOccurrence, date time.Time) *entity.PaymentOccurrence {
	day := valueobject.DateOf(date)
	for _, occ := range occurrences {
		if !occ.IsSchedulingLocked() && !occ.ScheduledDate.Before(day) {
			return occ
		}
	}
	return nil
}
