package recurringpayment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
)

func TestUpdateOccurrenceUseCase_Execute(t *testing.T) {
	ref := date(2025, time.January, 1)

	newUseCase := func(h *testHarness) *UpdateOccurrenceUseCase {
		return NewUpdateOccurrenceUseCase(h.repo, h.transactions, h.locker, h.publisher, h.synchronizer)
	}

	t.Run("status change without completion flip does not re-synchronize", func(t *testing.T) {
		h := newTestHarness()
		_, occurrences := h.seedDefinition(t)
		applied := h.repo.applyCalls

		out, err := newUseCase(h).Execute(context.Background(), UpdateOccurrenceInput{
			OccurrenceID:  occurrences[0].ID,
			Status:        entity.OccurrenceStatusSaving,
			HorizonMonths: 3,
			ReferenceDate: &ref,
		})
		require.NoError(t, err)
		assert.Nil(t, out.Summary)
		assert.Equal(t, entity.OccurrenceStatusSaving, out.Occurrence.Status)
		assert.Equal(t, applied, h.repo.applyCalls)
	})

	t.Run("cancelling is not a completion flip", func(t *testing.T) {
		h := newTestHarness()
		_, occurrences := h.seedDefinition(t)

		out, err := newUseCase(h).Execute(context.Background(), UpdateOccurrenceInput{
			OccurrenceID:  occurrences[0].ID,
			Status:        entity.OccurrenceStatusCancelled,
			HorizonMonths: 3,
		})
		require.NoError(t, err)
		assert.Nil(t, out.Summary)
		assert.True(t, out.Occurrence.IsSchedulingLocked())
	})

	t.Run("completing and reopening both re-synchronize", func(t *testing.T) {
		h := newTestHarness()
		def, occurrences := h.seedDefinition(t)
		actualDate := occurrences[0].ScheduledDate
		actualAmount := decimal.NewFromInt(900)
		uc := newUseCase(h)

		completed, err := uc.Execute(context.Background(), UpdateOccurrenceInput{
			OccurrenceID:  occurrences[0].ID,
			Status:        entity.OccurrenceStatusCompleted,
			ActualDate:    &actualDate,
			ActualAmount:  &actualAmount,
			HorizonMonths: 3,
			ReferenceDate: &ref,
		})
		require.NoError(t, err)
		require.NotNil(t, completed.Summary)
		assert.Len(t, h.publisher.completed, 1)

		balance, err := h.repo.FindBalanceByDefinition(context.Background(), def.ID)
		require.NoError(t, err)
		assert.True(t, balance.TotalPaidAmount.Equal(decimal.NewFromInt(900)))

		reopened, err := uc.Execute(context.Background(), UpdateOccurrenceInput{
			OccurrenceID:  occurrences[0].ID,
			Status:        entity.OccurrenceStatusPlanned,
			HorizonMonths: 3,
			ReferenceDate: &ref,
		})
		require.NoError(t, err)
		require.NotNil(t, reopened.Summary)
		assert.Nil(t, reopened.Occurrence.ActualAmount)

		balance, err = h.repo.FindBalanceByDefinition(context.Background(), def.ID)
		require.NoError(t, err)
		assert.True(t, balance.TotalPaidAmount.IsZero())
	})

	t.Run("completion requires actuals", func(t *testing.T) {
		h := newTestHarness()
		_, occurrences := h.seedDefinition(t)

		_, err := newUseCase(h).Execute(context.Background(), UpdateOccurrenceInput{
			OccurrenceID:  occurrences[0].ID,
			Status:        entity.OccurrenceStatusCompleted,
			HorizonMonths: 3,
		})
		var rpErr *domainerror.RecurringPaymentError
		require.True(t, errors.As(err, &rpErr))
		assert.Len(t, rpErr.Reasons, 2)
	})

	t.Run("unknown status", func(t *testing.T) {
		h := newTestHarness()
		_, occurrences := h.seedDefinition(t)

		_, err := newUseCase(h).Execute(context.Background(), UpdateOccurrenceInput{
			OccurrenceID:  occurrences[0].ID,
			Status:        "paid",
			HorizonMonths: 3,
		})
		assert.True(t, errors.Is(err, domainerror.ErrValidationFailed))
	})
}
