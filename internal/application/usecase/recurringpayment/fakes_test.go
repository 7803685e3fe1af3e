package recurringpayment

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
)

// memoryRepository is an in-memory RecurringPaymentRepository for use case tests.
type memoryRepository struct {
	mu          sync.Mutex
	definitions map[uuid.UUID]*entity.PaymentDefinition
	occurrences map[uuid.UUID]*entity.PaymentOccurrence
	balances    map[uuid.UUID]*entity.SavingBalance // keyed by definition
	applyCalls  int
	failApply   error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		definitions: make(map[uuid.UUID]*entity.PaymentDefinition),
		occurrences: make(map[uuid.UUID]*entity.PaymentOccurrence),
		balances:    make(map[uuid.UUID]*entity.SavingBalance),
	}
}

func (r *memoryRepository) CreateDefinition(_ context.Context, definition *entity.PaymentDefinition, balance *entity.SavingBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := *definition
	r.definitions[d.ID] = &d
	if balance != nil {
		b := *balance
		r.balances[d.ID] = &b
	}
	return nil
}

func (r *memoryRepository) UpdateDefinition(_ context.Context, definition *entity.PaymentDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.definitions[definition.ID]; !ok {
		return domainerror.ErrDefinitionNotFound
	}
	d := *definition
	r.definitions[d.ID] = &d
	return nil
}

func (r *memoryRepository) DeleteDefinition(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.definitions, id)
	delete(r.balances, id)
	for occID, occ := range r.occurrences {
		if occ.DefinitionID == id {
			delete(r.occurrences, occID)
		}
	}
	return nil
}

func (r *memoryRepository) FindDefinitionByID(_ context.Context, id uuid.UUID) (*entity.PaymentDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.definitions[id]
	if !ok {
		return nil, domainerror.ErrDefinitionNotFound
	}
	c := *d
	return &c, nil
}

func (r *memoryRepository) FindDefinitions(_ context.Context, filter adapter.DefinitionFilter) ([]*entity.PaymentDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.PaymentDefinition
	for _, d := range r.definitions {
		if len(filter.IDs) > 0 && !containsID(filter.IDs, d.ID) {
			continue
		}
		if filter.SearchText != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.SearchText)) {
			continue
		}
		if len(filter.CategoryIDs) > 0 && (d.CategoryID == nil || !containsID(filter.CategoryIDs, *d.CategoryID)) {
			continue
		}
		c := *d
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *memoryRepository) FindOccurrenceByID(_ context.Context, id uuid.UUID) (*entity.PaymentOccurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	occ, ok := r.occurrences[id]
	if !ok {
		return nil, domainerror.ErrOccurrenceNotFound
	}
	return occ.Clone(), nil
}

func (r *memoryRepository) FindOccurrencesByDefinition(ctx context.Context, definitionID uuid.UUID) ([]*entity.PaymentOccurrence, error) {
	return r.FindOccurrences(ctx, adapter.OccurrenceQuery{DefinitionIDs: []uuid.UUID{definitionID}})
}

func (r *memoryRepository) FindOccurrences(_ context.Context, query adapter.OccurrenceQuery) ([]*entity.PaymentOccurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.PaymentOccurrence
	for _, occ := range r.occurrences {
		if len(query.DefinitionIDs) > 0 && !containsID(query.DefinitionIDs, occ.DefinitionID) {
			continue
		}
		if query.DateRange != nil && !query.DateRange.Contains(occ.ScheduledDate) {
			continue
		}
		if len(query.Statuses) > 0 && !containsStatus(query.Statuses, occ.Status) {
			continue
		}
		if len(query.LinkedTransactionIDs) > 0 &&
			(occ.LinkedTransactionID == nil || !containsID(query.LinkedTransactionIDs, *occ.LinkedTransactionID)) {
			continue
		}
		result = append(result, occ.Clone())
	}
	sortOccurrences(result)
	return result, nil
}

func (r *memoryRepository) ApplySynchronizationPlan(_ context.Context, definitionID uuid.UUID, changes adapter.SynchronizationChanges, syncedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applyCalls++
	if r.failApply != nil {
		return r.failApply
	}
	for _, occ := range changes.Removed {
		delete(r.occurrences, occ.ID)
	}
	for _, occ := range changes.Created {
		r.occurrences[occ.ID] = occ.Clone()
	}
	for _, occ := range changes.Updated {
		r.occurrences[occ.ID] = occ.Clone()
	}
	if d, ok := r.definitions[definitionID]; ok {
		d.UpdatedAt = syncedAt
	}
	return nil
}

func (r *memoryRepository) SaveOccurrence(_ context.Context, occurrence *entity.PaymentOccurrence, balance *entity.SavingBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.occurrences[occurrence.ID]; !ok {
		return domainerror.ErrOccurrenceNotFound
	}
	r.occurrences[occurrence.ID] = occurrence.Clone()
	if balance != nil {
		b := *balance
		r.balances[b.DefinitionID] = &b
	}
	return nil
}

func (r *memoryRepository) FindBalanceByDefinition(_ context.Context, definitionID uuid.UUID) (*entity.SavingBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.balances[definitionID]
	if !ok {
		return nil, domainerror.ErrBalanceNotFound
	}
	c := *b
	return &c, nil
}

func (r *memoryRepository) FindBalances(_ context.Context, query adapter.BalanceQuery) ([]*entity.SavingBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.SavingBalance
	for defID, b := range r.balances {
		if len(query.DefinitionIDs) > 0 && !containsID(query.DefinitionIDs, defID) {
			continue
		}
		c := *b
		result = append(result, &c)
	}
	return result, nil
}

func (r *memoryRepository) SaveBalance(_ context.Context, balance *entity.SavingBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := *balance
	r.balances[b.DefinitionID] = &b
	return nil
}

func (r *memoryRepository) storedOccurrences(definitionID uuid.UUID) []*entity.PaymentOccurrence {
	result, _ := r.FindOccurrencesByDefinition(context.Background(), definitionID)
	return result
}

// memoryTransactions is an in-memory TransactionStore.
type memoryTransactions struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]*entity.Transaction
}

func newMemoryTransactions(transactions ...*entity.Transaction) *memoryTransactions {
	store := &memoryTransactions{transactions: make(map[uuid.UUID]*entity.Transaction)}
	for _, tx := range transactions {
		store.transactions[tx.ID] = tx
	}
	return store
}

func (s *memoryTransactions) Create(_ context.Context, transaction *entity.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[transaction.ID] = transaction
	return nil
}

func (s *memoryTransactions) FindByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok {
		return nil, domainerror.ErrTransactionNotFound
	}
	c := *tx
	return &c, nil
}

func (s *memoryTransactions) FindInRange(_ context.Context, dateRange adapter.DateRange) ([]*entity.Transaction, error) {
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

func (s *memoryTransactions) LinkTransaction(_ context.Context, transactionID, occurrenceID uuid.UUID) error {
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

func (s *memoryTransactions) UnlinkTransaction(_ context.Context, transactionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx, ok := s.transactions[transactionID]; ok {
		tx.OccurrenceID = nil
	}
	return nil
}

// memoryCategories is an in-memory CategoryRepository.
type memoryCategories struct {
	categories map[uuid.UUID]*entity.Category
}

func (c *memoryCategories) Create(_ context.Context, category *entity.Category) error {
	if c.categories == nil {
		c.categories = make(map[uuid.UUID]*entity.Category)
	}
	c.categories[category.ID] = category
	return nil
}

func (c *memoryCategories) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	if cat, ok := c.categories[id]; ok {
		return cat, nil
	}
	return nil, domainerror.ErrCategoryNotFound
}

// mutexLocker is a single global lock; enough to exercise the locking paths.
type mutexLocker struct {
	mu    sync.Mutex
	locks int
}

func (l *mutexLocker) Lock(ctx context.Context, _ uuid.UUID) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.locks++
	var once sync.Once
	return func() { once.Do(l.mu.Unlock) }, nil
}

// recordingPublisher collects published events.
type recordingPublisher struct {
	mu           sync.Mutex
	synchronized []adapter.SynchronizationEvent
	completed    []adapter.OccurrenceCompletedEvent
}

func (p *recordingPublisher) PublishSynchronized(_ context.Context, event adapter.SynchronizationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.synchronized = append(p.synchronized, event)
	return nil
}

func (p *recordingPublisher) PublishOccurrenceCompleted(_ context.Context, event adapter.OccurrenceCompletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed = append(p.completed, event)
	return nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func containsStatus(statuses []entity.OccurrenceStatus, status entity.OccurrenceStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
