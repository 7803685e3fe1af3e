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
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

type testHarness struct {
	repo         *memoryRepository
	transactions *memoryTransactions
	categories   *memoryCategories
	locker       *mutexLocker
	publisher    *recordingPublisher
	synchronizer *SynchronizeUseCase
}

func newTestHarness() *testHarness {
	h := &testHarness{
		repo:         newMemoryRepository(),
		transactions: newMemoryTransactions(),
		categories:   &memoryCategories{},
		locker:       &mutexLocker{},
		publisher:    &recordingPublisher{},
	}
	scheduler := NewScheduler(valueobject.NewBusinessDayResolver(nil), true)
	h.synchronizer = NewSynchronizeUseCase(h.repo, h.locker, h.publisher, scheduler)
	return h
}

func (h *testHarness) storeDefinition(t *testing.T, def *entity.PaymentDefinition) {
	t.Helper()
	require.NoError(t, h.repo.CreateDefinition(context.Background(), def, entity.NewSavingBalance(def.ID)))
}

func (h *testHarness) synchronize(t *testing.T, definitionID uuid.UUID, ref time.Time, horizon int) SynchronizationSummary {
	t.Helper()
	out, err := h.synchronizer.Execute(context.Background(), SynchronizeInput{
		DefinitionID:  definitionID,
		HorizonMonths: horizon,
		ReferenceDate: &ref,
	})
	require.NoError(t, err)
	return out.Summary
}

func TestSynchronizeUseCase_Execute(t *testing.T) {
	ref := date(2025, time.January, 1)

	t.Run("second run with the same inputs changes nothing", func(t *testing.T) {
		h := newTestHarness()
		def := monthlyDefinition(date(2025, time.January, 15), 1000)
		h.storeDefinition(t, def)

		first := h.synchronize(t, def.ID, ref, 12)
		assert.Equal(t, 12, first.CreatedCount)
		assert.Equal(t, ref, first.SyncedAt)

		second := h.synchronize(t, def.ID, ref, 12)
		assert.Equal(t, 0, second.CreatedCount)
		assert.Equal(t, 0, second.UpdatedCount)
		assert.Equal(t, 0, second.RemovedCount)

		assert.Len(t, h.repo.storedOccurrences(def.ID), 12)
		assert.Len(t, h.publisher.synchronized, 2)

		stored, err := h.repo.FindDefinitionByID(context.Background(), def.ID)
		require.NoError(t, err)
		assert.Equal(t, ref, stored.UpdatedAt)
	})

	t.Run("completed occurrences survive an amount change", func(t *testing.T) {
		h := newTestHarness()
		def := monthlyDefinition(date(2025, time.January, 15), 1000)
		h.storeDefinition(t, def)
		h.synchronize(t, def.ID, ref, 3)

		occurrences := h.repo.storedOccurrences(def.ID)
		paid := occurrences[0]
		paid.Complete(paid.ScheduledDate, decimal.NewFromInt(1000), nil)
		require.NoError(t, h.repo.SaveOccurrence(context.Background(), paid, nil))

		def.Amount = decimal.NewFromInt(2000)
		require.NoError(t, h.repo.UpdateDefinition(context.Background(), def))

		summary := h.synchronize(t, def.ID, ref, 3)
		assert.Equal(t, 2, summary.UpdatedCount)
		assert.Equal(t, 0, summary.RemovedCount)

		stored, err := h.repo.FindOccurrenceByID(context.Background(), paid.ID)
		require.NoError(t, err)
		assert.True(t, stored.ExpectedAmount.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("negative horizon is rejected before locking", func(t *testing.T) {
		h := newTestHarness()

		_, err := h.synchronizer.Execute(context.Background(), SynchronizeInput{DefinitionID: uuid.New(), HorizonMonths: -1})
		assert.True(t, errors.Is(err, domainerror.ErrInvalidHorizon))
		assert.Equal(t, 0, h.locker.locks)
	})

	t.Run("unknown definition", func(t *testing.T) {
		h := newTestHarness()

		_, err := h.synchronizer.Execute(context.Background(), SynchronizeInput{DefinitionID: uuid.New(), HorizonMonths: 12})
		var rpErr *domainerror.RecurringPaymentError
		require.True(t, errors.As(err, &rpErr))
		assert.Equal(t, domainerror.ErrCodeDefinitionNotFound, rpErr.Code)
	})

	t.Run("invalid recurrence is checked before any write", func(t *testing.T) {
		h := newTestHarness()
		def := monthlyDefinition(date(2025, time.January, 15), 1000)
		def.RecurrenceIntervalMonths = 0
		h.storeDefinition(t, def)

		_, err := h.synchronizer.Execute(context.Background(), SynchronizeInput{DefinitionID: def.ID, HorizonMonths: 12, ReferenceDate: &ref})
		assert.True(t, errors.Is(err, domainerror.ErrInvalidRecurrence))
		assert.Equal(t, 0, h.repo.applyCalls)
	})

	t.Run("cancelled context commits nothing", func(t *testing.T) {
		h := newTestHarness()
		def := monthlyDefinition(date(2025, time.January, 15), 1000)
		h.storeDefinition(t, def)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := h.synchronizer.Execute(ctx, SynchronizeInput{DefinitionID: def.ID, HorizonMonths: 12, ReferenceDate: &ref})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, h.repo.applyCalls)
		assert.Empty(t, h.repo.storedOccurrences(def.ID))
	})

	t.Run("storage failure is reported verbatim", func(t *testing.T) {
		h := newTestHarness()
		def := monthlyDefinition(date(2025, time.January, 15), 1000)
		h.storeDefinition(t, def)
		h.repo.failApply = errors.New("disk full")

		_, err := h.synchronizer.Execute(context.Background(), SynchronizeInput{DefinitionID: def.ID, HorizonMonths: 12, ReferenceDate: &ref})
		var rpErr *domainerror.RecurringPaymentError
		require.True(t, errors.As(err, &rpErr))
		assert.Equal(t, domainerror.ErrCodePersistenceFailed, rpErr.Code)
		assert.Equal(t, []string{"disk full"}, rpErr.Messages())
		assert.Empty(t, h.publisher.synchronized)
	})
}

func TestSynchronizeAllUseCase_Execute(t *testing.T) {
	h := newTestHarness()
	ref := date(2025, time.January, 1)

	good := monthlyDefinition(date(2025, time.January, 15), 1000)
	other := monthlyDefinition(date(2025, time.February, 1), 500)
	broken := monthlyDefinition(date(2025, time.January, 15), 1000)
	broken.RecurrenceIntervalMonths = 0
	for _, def := range []*entity.PaymentDefinition{good, other, broken} {
		h.storeDefinition(t, def)
	}

	uc := NewSynchronizeAllUseCase(h.repo, h.synchronizer)
	out, err := uc.Execute(context.Background(), SynchronizeAllInput{HorizonMonths: 12, ReferenceDate: &ref, Concurrency: 2})
	require.NoError(t, err)

	assert.Len(t, out.Summaries, 2)
	require.Len(t, out.Failures, 1)
	assert.True(t, errors.Is(out.Failures[broken.ID], domainerror.ErrInvalidRecurrence))
	assert.Len(t, h.repo.storedOccurrences(good.ID), 12)
	assert.Len(t, h.repo.storedOccurrences(other.ID), 12)
}
