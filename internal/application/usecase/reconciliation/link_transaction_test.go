package reconciliation

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

type linkFixture struct {
	repo       *occurrenceRepository
	store      *transactionStore
	definition *entity.PaymentDefinition
	january    *entity.PaymentOccurrence
	february   *entity.PaymentOccurrence
	payment    *entity.Transaction
	other      *entity.Transaction
}

func newLinkFixture() *linkFixture {
	f := &linkFixture{
		repo:       newOccurrenceRepository(),
		definition: streamingDefinition(),
		payment:    expense(date(2025, time.January, 16), "Netflix", 100),
		other:      expense(date(2025, time.January, 14), "Card payment", 98),
	}
	f.january = entity.NewPaymentOccurrence(f.definition.ID, date(2025, time.January, 15), decimal.NewFromInt(100))
	f.february = entity.NewPaymentOccurrence(f.definition.ID, date(2025, time.February, 15), decimal.NewFromInt(100))
	f.repo.add(f.definition, f.january, f.february)
	f.store = newTransactionStore(f.payment, f.other)
	return f
}

func (f *linkFixture) link(t *testing.T, occurrenceID, transactionID uuid.UUID) (*LinkTransactionOutput, error) {
	t.Helper()
	uc := NewLinkTransactionUseCase(f.repo, f.store, noopLocker{})
	return uc.Execute(context.Background(), LinkTransactionInput{OccurrenceID: occurrenceID, TransactionID: transactionID})
}

func TestLinkTransactionUseCase_Execute(t *testing.T) {
	t.Run("links and mirrors to the transaction store", func(t *testing.T) {
		f := newLinkFixture()

		out, err := f.link(t, f.january.ID, f.payment.ID)
		require.NoError(t, err)

		require.NotNil(t, out.Occurrence.LinkedTransactionID)
		assert.Equal(t, f.payment.ID, *out.Occurrence.LinkedTransactionID)
		assert.Equal(t, f.payment.ID, *f.repo.stored(f.january.ID).LinkedTransactionID)
		require.NotNil(t, f.store.linkOf(f.payment.ID))
		assert.Equal(t, f.january.ID, *f.store.linkOf(f.payment.ID))
		// Linking does not complete the occurrence.
		assert.Equal(t, entity.OccurrenceStatusPlanned, f.repo.stored(f.january.ID).Status)
	})

	t.Run("replaces the previous link", func(t *testing.T) {
		f := newLinkFixture()
		_, err := f.link(t, f.january.ID, f.other.ID)
		require.NoError(t, err)

		_, err = f.link(t, f.january.ID, f.payment.ID)
		require.NoError(t, err)

		assert.Nil(t, f.store.linkOf(f.other.ID))
		assert.Equal(t, f.payment.ID, *f.repo.stored(f.january.ID).LinkedTransactionID)
	})

	t.Run("relinking the same transaction is a no-op", func(t *testing.T) {
		f := newLinkFixture()
		_, err := f.link(t, f.january.ID, f.payment.ID)
		require.NoError(t, err)

		_, err = f.link(t, f.january.ID, f.payment.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, f.repo.saves)
	})

	t.Run("rejects a transaction linked to another occurrence", func(t *testing.T) {
		f := newLinkFixture()
		_, err := f.link(t, f.january.ID, f.payment.ID)
		require.NoError(t, err)

		_, err = f.link(t, f.february.ID, f.payment.ID)
		assert.True(t, errors.Is(err, domainerror.ErrValidationFailed))
		assert.Nil(t, f.repo.stored(f.february.ID).LinkedTransactionID)
	})

	t.Run("rejects income transactions", func(t *testing.T) {
		f := newLinkFixture()
		refund := entity.NewTransaction(date(2025, time.January, 15), "Refund", decimal.NewFromInt(100), entity.TransactionTypeIncome, nil)
		require.NoError(t, f.store.Create(context.Background(), refund))

		_, err := f.link(t, f.january.ID, refund.ID)
		assert.True(t, errors.Is(err, domainerror.ErrValidationFailed))
	})

	t.Run("unknown transaction", func(t *testing.T) {
		f := newLinkFixture()

		_, err := f.link(t, f.january.ID, uuid.New())
		assert.True(t, errors.Is(err, domainerror.ErrTransactionNotFound))
	})

	t.Run("unknown occurrence", func(t *testing.T) {
		f := newLinkFixture()

		_, err := f.link(t, uuid.New(), f.payment.ID)
		assert.True(t, errors.Is(err, domainerror.ErrOccurrenceNotFound))
	})
}

func TestUnlinkTransactionUseCase_Execute(t *testing.T) {
	t.Run("clears the link", func(t *testing.T) {
		f := newLinkFixture()
		_, err := f.link(t, f.january.ID, f.payment.ID)
		require.NoError(t, err)

		uc := NewUnlinkTransactionUseCase(f.repo, f.store, noopLocker{})
		out, err := uc.Execute(context.Background(), UnlinkTransactionInput{OccurrenceID: f.january.ID})
		require.NoError(t, err)

		require.NotNil(t, out.UnlinkedTransactionID)
		assert.Equal(t, f.payment.ID, *out.UnlinkedTransactionID)
		assert.Nil(t, f.repo.stored(f.january.ID).LinkedTransactionID)
		assert.Nil(t, f.store.linkOf(f.payment.ID))
	})

	t.Run("no link is a no-op", func(t *testing.T) {
		f := newLinkFixture()

		uc := NewUnlinkTransactionUseCase(f.repo, f.store, noopLocker{})
		out, err := uc.Execute(context.Background(), UnlinkTransactionInput{OccurrenceID: f.january.ID})
		require.NoError(t, err)
		assert.Nil(t, out.UnlinkedTransactionID)
		assert.Equal(t, 0, f.repo.saves)
	})
}

func TestGetCandidatesUseCase_Execute(t *testing.T) {
	t.Run("excludes transactions linked elsewhere", func(t *testing.T) {
		f := newLinkFixture()
		_, err := f.link(t, f.february.ID, f.other.ID)
		require.NoError(t, err)

		current := date(2025, time.January, 31)
		uc := NewGetCandidatesUseCase(f.repo, f.store, valueobject.DefaultMatchingConfig())
		out, err := uc.Execute(context.Background(), GetCandidatesInput{OccurrenceID: f.january.ID, CurrentDate: &current})
		require.NoError(t, err)

		assert.Equal(t, 14, out.WindowDays)
		assert.Equal(t, []uuid.UUID{f.payment.ID}, transactionIDs(out.Candidates))
	})

	t.Run("flags the current link", func(t *testing.T) {
		f := newLinkFixture()
		_, err := f.link(t, f.january.ID, f.payment.ID)
		require.NoError(t, err)

		current := date(2025, time.January, 31)
		uc := NewGetCandidatesUseCase(f.repo, f.store, valueobject.DefaultMatchingConfig())
		out, err := uc.Execute(context.Background(), GetCandidatesInput{OccurrenceID: f.january.ID, CurrentDate: &current})
		require.NoError(t, err)

		require.Len(t, out.Candidates, 2)
		assert.Equal(t, f.payment.ID, out.Candidates[0].TransactionID)
		assert.True(t, out.Candidates[0].IsCurrentLink)
		assert.False(t, out.Candidates[1].IsCurrentLink)
	})

	t.Run("rejects a negative window", func(t *testing.T) {
		f := newLinkFixture()

		uc := NewGetCandidatesUseCase(f.repo, f.store, valueobject.DefaultMatchingConfig())
		_, err := uc.Execute(context.Background(), GetCandidatesInput{OccurrenceID: f.january.ID, WindowDays: -1})
		assert.True(t, errors.Is(err, domainerror.ErrValidationFailed))
	})
}
