package saving

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// balanceRepository implements the parts of RecurringPaymentRepository the saving use cases need.
type balanceRepository struct {
	adapter.RecurringPaymentRepository
	mu          sync.Mutex
	definitions []*entity.PaymentDefinition
	occurrences map[uuid.UUID][]*entity.PaymentOccurrence
	balances    map[uuid.UUID]*entity.SavingBalance
}

func (r *balanceRepository) FindOccurrencesByDefinition(_ context.Context, definitionID uuid.UUID) ([]*entity.PaymentOccurrence, error) {
	return r.occurrences[definitionID], nil
}

func (r *balanceRepository) FindDefinitions(_ context.Context, filter adapter.DefinitionFilter) ([]*entity.PaymentDefinition, error) {
	if len(filter.IDs) == 0 {
		return r.definitions, nil
	}
	var result []*entity.PaymentDefinition
	for _, d := range r.definitions {
		for _, id := range filter.IDs {
			if d.ID == id {
				result = append(result, d)
			}
		}
	}
	return result, nil
}

func (r *balanceRepository) FindBalanceByDefinition(_ context.Context, definitionID uuid.UUID) (*entity.SavingBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.balances[definitionID]
	if !ok {
		return nil, domainerror.ErrBalanceNotFound
	}
	c := *b
	return &c, nil
}

func (r *balanceRepository) FindBalances(_ context.Context, _ adapter.BalanceQuery) ([]*entity.SavingBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.SavingBalance
	for _, b := range r.balances {
		result = append(result, b)
	}
	return result, nil
}

func (r *balanceRepository) SaveBalance(_ context.Context, balance *entity.SavingBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *balance
	r.balances[c.DefinitionID] = &c
	return nil
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, uuid.UUID) (func(), error) { return func() {}, nil }

func newDefinition(strategy valueobject.SavingStrategy, first time.Time, leadTimeMonths int) *entity.PaymentDefinition {
	return entity.NewPaymentDefinition(entity.PaymentDefinitionAttributes{
		Name:                     "Insurance",
		Amount:                   decimal.NewFromInt(60000),
		RecurrenceIntervalMonths: 12,
		FirstOccurrenceDate:      first,
		LeadTimeMonths:           leadTimeMonths,
		SavingStrategy:           strategy,
	})
}

// newRepository stores each definition with a balance and its first two yearly occurrences.
func newRepository(definitions ...*entity.PaymentDefinition) *balanceRepository {
	repo := &balanceRepository{
		definitions: definitions,
		occurrences: make(map[uuid.UUID][]*entity.PaymentOccurrence),
		balances:    make(map[uuid.UUID]*entity.SavingBalance),
	}
	for _, d := range definitions {
		repo.balances[d.ID] = entity.NewSavingBalance(d.ID)
		repo.occurrences[d.ID] = []*entity.PaymentOccurrence{
			entity.NewPaymentOccurrence(d.ID, d.FirstOccurrenceDate, d.Amount),
			entity.NewPaymentOccurrence(d.ID, valueobject.AddMonthsClamped(d.FirstOccurrenceDate, 12), d.Amount),
		}
	}
	return repo
}

func TestAccrueMonthlySavingsUseCase_Execute(t *testing.T) {
	t.Run("records once per month", func(t *testing.T) {
		def := newDefinition(valueobject.SavingStrategyEvenlyDistributed, valueobject.NewDate(2025, time.June, 1), 12)
		repo := newRepository(def)
		uc := NewAccrueMonthlySavingsUseCase(repo, noopLocker{})

		out, err := uc.Execute(context.Background(), AccrueMonthlySavingsInput{Year: 2025, Month: time.January})
		require.NoError(t, err)
		assert.Equal(t, 1, out.Recorded)

		again, err := uc.Execute(context.Background(), AccrueMonthlySavingsInput{Year: 2025, Month: time.January})
		require.NoError(t, err)
		assert.Equal(t, 0, again.Recorded)
		assert.Equal(t, 1, again.Skipped)

		balance, err := repo.FindBalanceByDefinition(context.Background(), def.ID)
		require.NoError(t, err)
		assert.True(t, balance.TotalSavedAmount.Equal(decimal.NewFromInt(5000)))
		assert.Equal(t, 2025, balance.LastUpdatedYear)
		assert.Equal(t, 1, balance.LastUpdatedMonth)
	})

	t.Run("skips disabled, ended and not yet started definitions", func(t *testing.T) {
		disabled := newDefinition(valueobject.SavingStrategyDisabled, valueobject.NewDate(2025, time.June, 1), 12)
		ended := newDefinition(valueobject.SavingStrategyEvenlyDistributed, valueobject.NewDate(2023, time.June, 1), 12)
		end := valueobject.NewDate(2024, time.June, 1)
		ended.EndDate = &end
		future := newDefinition(valueobject.SavingStrategyEvenlyDistributed, valueobject.NewDate(2030, time.June, 1), 12)

		uc := NewAccrueMonthlySavingsUseCase(newRepository(disabled, ended, future), noopLocker{})
		out, err := uc.Execute(context.Background(), AccrueMonthlySavingsInput{Year: 2025, Month: time.March})
		require.NoError(t, err)
		assert.Equal(t, 0, out.Recorded)
		assert.Equal(t, 3, out.Skipped)
	})

	t.Run("lead time decides when saving starts", func(t *testing.T) {
		first := valueobject.NewDate(2026, time.March, 1)
		noLead := newDefinition(valueobject.SavingStrategyEvenlyDistributed, first, 0)
		shortLead := newDefinition(valueobject.SavingStrategyEvenlyDistributed, first, 2)
		yearLead := newDefinition(valueobject.SavingStrategyEvenlyDistributed, first, 12)
		repo := newRepository(noLead, shortLead, yearLead)
		uc := NewAccrueMonthlySavingsUseCase(repo, noopLocker{})

		april, err := uc.Execute(context.Background(), AccrueMonthlySavingsInput{Year: 2025, Month: time.April})
		require.NoError(t, err)
		assert.Equal(t, 1, april.Recorded)
		assert.Equal(t, 2, april.Skipped)
		require.Len(t, april.Balances, 1)
		assert.Equal(t, yearLead.ID, april.Balances[0].DefinitionID)

		january, err := uc.Execute(context.Background(), AccrueMonthlySavingsInput{Year: 2026, Month: time.January})
		require.NoError(t, err)
		assert.Equal(t, 2, january.Recorded)
		assert.Equal(t, 1, january.Skipped)

		march, err := uc.Execute(context.Background(), AccrueMonthlySavingsInput{Year: 2026, Month: time.March})
		require.NoError(t, err)
		assert.Equal(t, 3, march.Recorded)
	})

	t.Run("cancelled occurrences are not saved for", func(t *testing.T) {
		def := newDefinition(valueobject.SavingStrategyEvenlyDistributed, valueobject.NewDate(2025, time.June, 1), 3)
		repo := newRepository(def)
		repo.occurrences[def.ID][0].Status = entity.OccurrenceStatusCancelled
		uc := NewAccrueMonthlySavingsUseCase(repo, noopLocker{})

		out, err := uc.Execute(context.Background(), AccrueMonthlySavingsInput{Year: 2025, Month: time.April})
		require.NoError(t, err)
		assert.Equal(t, 0, out.Recorded)
		assert.Equal(t, 1, out.Skipped)
	})

	t.Run("rejects an invalid month", func(t *testing.T) {
		uc := NewAccrueMonthlySavingsUseCase(newRepository(), noopLocker{})

		_, err := uc.Execute(context.Background(), AccrueMonthlySavingsInput{Year: 2025, Month: 0})
		assert.True(t, errors.Is(err, domainerror.ErrValidationFailed))
	})
}

func TestListBalancesUseCase_Execute(t *testing.T) {
	def := newDefinition(valueobject.SavingStrategyEvenlyDistributed, valueobject.NewDate(2025, time.June, 1), 12)
	out, err := NewListBalancesUseCase(newRepository(def)).Execute(context.Background(), ListBalancesInput{})
	require.NoError(t, err)
	require.Len(t, out.Balances, 1)
	assert.Equal(t, def.ID, out.Balances[0].DefinitionID)

	empty, err := NewListBalancesUseCase(newRepository()).Execute(context.Background(), ListBalancesInput{})
	require.NoError(t, err)
	assert.NotNil(t, empty.Balances)
	assert.Empty(t, empty.Balances)
}
