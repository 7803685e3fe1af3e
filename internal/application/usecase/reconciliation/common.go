package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
)

// linkedOccurrences maps each of the given transactions to the occurrence it is linked to.
func linkedOccurrences(ctx context.Context, repo adapter.RecurringPaymentRepository, transactionIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	lookup := make(map[uuid.UUID]uuid.UUID)
	if len(transactionIDs) == 0 {
		return lookup, nil
	}

	occurrences, err := repo.FindOccurrences(ctx, adapter.OccurrenceQuery{LinkedTransactionIDs: transactionIDs})
	if err != nil {
		return nil, domainerror.Wrap(err)
	}
	for _, occ := range occurrences {
		if occ.LinkedTransactionID != nil {
			lookup[*occ.LinkedTransactionID] = occ.ID
		}
	}
	return lookup, nil
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
