package reconciliation

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
)

// occurrenceRepository implements the occurrence and definition reads and SaveOccurrence.
type occurrenceRepository struct {
	adapter.RecurringPaymentRepository
	mu          sync.Mutex
	definitions map[uuid.UUID]*entity.PaymentDefinition
	occurrences map[uuid.UUID]*entity.PaymentOccurrence
	saves       int
}

func newOccurrenceRepository() *occurrenceRepository {
	return &occurrenceRepository{
		definitions: make(map[uuid.UUID]*entity.PaymentDefinition),
		occurrences: make(map[uuid.UUID]*entity.PaymentOccurrence),
	}
}

func (r *occurrenceRepository) add(definition *entity.PaymentDefinition, occurrences ...*entity.PaymentOccurrence) {
	r.definitions[definition.ID] = definition
	for _, occ := range occurrences {
		r.occurrences[occ.ID] = occ.Clone()
	}
}

func (r *occurrenceRepository) FindDefinitionByID(_ context.Context, id uuid.UUID) (*entity.PaymentDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.definitions[id]
	if !ok {
		return nil, domainerror.ErrDefinitionNotFound
	}
	return d, nil
}

func (r *occurrenceRepository) FindOccurrenceByID(_ context.Context, id uuid.UUID) (*entity.PaymentOccurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	occ, ok := r.occurrences[id]
	if !ok {
		return nil, domainerror.ErrOccurrenceNotFound
	}
	return occ.Clone(), nil
}

func (r *occurrenceRepository) FindOccurrences(_ context.Context, query adapter.OccurrenceQuery) ([]*entity.PaymentOccurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.PaymentOccurrence
	for _, occ := range r.occurrences {
		if occ.LinkedTransactionID == nil {
			continue
		}
		for _, id := range query.LinkedTransactionIDs {
			if *occ.LinkedTransactionID == id {
				result = append(result, occ.Clone())
			}
		}
	}
	return result, nil
}

func (r *occurrenceRepository) SaveOccurrence(_ context.Context, occurrence *entity.PaymentOccurrence, _ *entity.SavingBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.occurrences[occurrence.ID] = occurrence.Clone()
	return nil
}

func (r *occurrenceRepository) stored(id uuid.UUID) *entity.PaymentOccurrence {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.occurrences[id].Clone()
}

// transactionStore is an in-memory TransactionStore.
type transactionStore struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]*entity.Transaction
}

func newTransactionStore(transactions ...*entity.Transaction) *transactionStore {
	s := &transactionStore{transactions: make(map[uuid.UUID]*entity.Transaction)}
	for _, tx := range transactions {
		c := *tx
		s.transactions[tx.ID] = &c
	}
	return s
}

func (s *transactionStore) Create(_ context.Context, transaction *entity.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[transaction.ID] = transaction
	return nil
}

func (s *transactionStore) FindByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok {
		return nil, domainerror.ErrTransactionNotFound
	}
	c := *tx
	return &c, nil
}

func (s *transactionStore) FindInRange(_ context.Context, dateRange adapter.DateRange) ([]*entity.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*entity.Transaction
	for _, tx := range s.transactions {
		if dateRange.Contains(tx.Date) {
			c := *tx
			result = append(result, &c)
		}
	}
	return result, nil
}

func (s *transactionStore) LinkTransaction(_ context.Context, transactionID, occurrenceID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[transactionID]
	if !ok {
		return domainerror.ErrTransactionNotFound
	}
	id := occurrenceID
	tx.OccurrenceID = &id
	return nil
}

func (s *transactionStore) UnlinkTransaction(_ context.Context, transactionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx, ok := s.transactions[transactionID]; ok {
		tx.OccurrenceID = nil
	}
	return nil
}

func (s *transactionStore) linkOf(transactionID uuid.UUID) *uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions[transactionID].OccurrenceID
}

type noopLocker struct{}

func (noopLocker) Lock(ctx context.Context, _ uuid.UUID) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return func() {}, nil
}
