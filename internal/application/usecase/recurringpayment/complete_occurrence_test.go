package recurringpayment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
)

func (h *testHarness) completeUseCase() *CompleteOccurrenceUseCase {
	return NewCompleteOccurrenceUseCase(h.repo, h.transactions, h.locker, h.publisher, h.synchronizer)
}

func (h *testHarness) seedDefinition(t *testing.T) (*entity.PaymentDefinition, []*entity.PaymentOccurrence) {
	t.Helper()
	def := monthlyDefinition(date(2025, time.January, 15), 1000)
	h.storeDefinition(t, def)
	h.synchronize(t, def.ID, date(2025, time.January, 1), 3)
	return def, h.repo.storedOccurrences(def.ID)
}

func TestCompleteOccurrenceUseCase_Execute(t *testing.T) {
	ref := date(2025, time.January, 1)

	t.Run("completes, pays from the balance and re-synchronizes", func(t *testing.T) {
		h := newTestHarness()
		def, occurrences := h.seedDefinition(t)
		target := occurrences[0]

		out, err := h.completeUseCase().Execute(context.Background(), CompleteOccurrenceInput{
			OccurrenceID:  target.ID,
			ActualDate:    date(2025, time.January, 17),
			ActualAmount:  decimal.NewFromInt(1100),
			HorizonMonths: 3,
			ReferenceDate: &ref,
		})
		require.NoError(t, err)
		require.NotNil(t, out.Summary)
		assert.Equal(t, def.ID, out.Summary.DefinitionID)

		stored, err := h.repo.FindOccurrenceByID(context.Background(), target.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.OccurrenceStatusCompleted, stored.Status)
		assert.True(t, stored.IsSchedulingLocked())

		balance, err := h.repo.FindBalanceByDefinition(context.Background(), def.ID)
		require.NoError(t, err)
		assert.True(t, balance.TotalPaidAmount.Equal(decimal.NewFromInt(1100)))

		assert.Len(t, h.publisher.completed, 1)
		assert.Len(t, h.repo.storedOccurrences(def.ID), 3)
	})

	t.Run("re-completing applies only the difference", func(t *testing.T) {
		h := newTestHarness()
		def, occurrences := h.seedDefinition(t)
		uc := h.completeUseCase()

		for _, amount := range []int64{1000, 1200} {
			_, err := uc.Execute(context.Background(), CompleteOccurrenceInput{
				OccurrenceID:  occurrences[0].ID,
				ActualDate:    occurrences[0].ScheduledDate,
				ActualAmount:  decimal.NewFromInt(amount),
				HorizonMonths: 3,
				ReferenceDate: &ref,
			})
			require.NoError(t, err)
		}

		balance, err := h.repo.FindBalanceByDefinition(context.Background(), def.ID)
		require.NoError(t, err)
		assert.True(t, balance.TotalPaidAmount.Equal(decimal.NewFromInt(1200)))
	})

	t.Run("actual date too far from schedule", func(t *testing.T) {
		h := newTestHarness()
		_, occurrences := h.seedDefinition(t)

		_, err := h.completeUseCase().Execute(context.Background(), CompleteOccurrenceInput{
			OccurrenceID:  occurrences[0].ID,
			ActualDate:    occurrences[0].ScheduledDate.AddDate(0, 0, 120),
			ActualAmount:  decimal.NewFromInt(1000),
			HorizonMonths: 3,
		})
		assert.True(t, errors.Is(err, domainerror.ErrValidationFailed))

		stored, err := h.repo.FindOccurrenceByID(context.Background(), occurrences[0].ID)
		require.NoError(t, err)
		assert.Equal(t, entity.OccurrenceStatusPlanned, stored.Status)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		h := newTestHarness()
		_, occurrences := h.seedDefinition(t)

		_, err := h.completeUseCase().Execute(context.Background(), CompleteOccurrenceInput{
			OccurrenceID:  occurrences[0].ID,
			ActualDate:    occurrences[0].ScheduledDate,
			ActualAmount:  decimal.Zero,
			HorizonMonths: 3,
		})
		assert.True(t, errors.Is(err, domainerror.ErrValidationFailed))
	})

	t.Run("links the transaction", func(t *testing.T) {
		h := newTestHarness()
		_, occurrences := h.seedDefinition(t)
		tx := entity.NewTransaction(date(2025, time.January, 15), "Insurance", decimal.NewFromInt(-1000), entity.TransactionTypeExpense, nil)
		require.NoError(t, h.transactions.Create(context.Background(), tx))

		out, err := h.completeUseCase().Execute(context.Background(), CompleteOccurrenceInput{
			OccurrenceID:        occurrences[0].ID,
			ActualDate:          tx.Date,
			ActualAmount:        decimal.NewFromInt(1000),
			LinkedTransactionID: &tx.ID,
			HorizonMonths:       3,
			ReferenceDate:       &ref,
		})
		require.NoError(t, err)
		require.NotNil(t, out.Occurrence.LinkedTransactionID)
		assert.Equal(t, tx.ID, *out.Occurrence.LinkedTransactionID)

		stored, err := h.transactions.FindByID(context.Background(), tx.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsLinkedTo(occurrences[0].ID))
	})

	t.Run("transaction linked elsewhere is rejected", func(t *testing.T) {
		h := newTestHarness()
		_, occurrences := h.seedDefinition(t)
		tx := entity.NewTransaction(date(2025, time.January, 15), "Insurance", decimal.NewFromInt(-1000), entity.TransactionTypeExpense, nil)
		require.NoError(t, h.transactions.Create(context.Background(), tx))

		other := occurrences[1]
		other.LinkedTransactionID = &tx.ID
		require.NoError(t, h.repo.SaveOccurrence(context.Background(), other, nil))

		_, err := h.completeUseCase().Execute(context.Background(), CompleteOccurrenceInput{
			OccurrenceID:        occurrences[0].ID,
			ActualDate:          tx.Date,
			ActualAmount:        decimal.NewFromInt(1000),
			LinkedTransactionID: &tx.ID,
			HorizonMonths:       3,
		})
		assert.True(t, errors.Is(err, domainerror.ErrValidationFailed))
	})

	t.Run("unknown occurrence", func(t *testing.T) {
		h := newTestHarness()

		_, err := h.completeUseCase().Execute(context.Background(), CompleteOccurrenceInput{
			OccurrenceID:  uuid.New(),
			ActualDate:    ref,
			ActualAmount:  decimal.NewFromInt(1),
			HorizonMonths: 3,
		})
		assert.True(t, errors.Is(err, domainerror.ErrOccurrenceNotFound))
	})
}
