// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
)

// DateRange represents an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether date lies within the range.
func (r DateRange) Contains(date time.Time) bool {
	return !date.Before(r.Start) && !date.After(r.End)
}

// DefinitionFilter narrows a definition query. Empty fields do not filter.
type DefinitionFilter struct {
	IDs         []uuid.UUID
	SearchText  string
	CategoryIDs []uuid.UUID
}

// OccurrenceQuery narrows an occurrence query. Empty fields do not filter.
type OccurrenceQuery struct {
	DateRange            *DateRange
	Statuses             []entity.OccurrenceStatus
	DefinitionIDs        []uuid.UUID
	LinkedTransactionIDs []uuid.UUID
}

// BalanceQuery narrows a balance query. Empty fields do not filter.
type BalanceQuery struct {
	DefinitionIDs []uuid.UUID
}

// SynchronizationChanges is the write set of one synchronization plan.
type SynchronizationChanges struct {
	Created []*entity.PaymentOccurrence
	Updated []*entity.PaymentOccurrence
	Removed []*entity.PaymentOccurrence
}

// IsEmpty reports whether the plan changes nothing.
func (c SynchronizationChanges) IsEmpty() bool {
	return len(c.Created) == 0 && len(c.Updated) == 0 && len(c.Removed) == 0
}

// RecurringPaymentRepository is the persistence gateway for the
// definition, occurrence and saving balance aggregate.
type RecurringPaymentRepository interface {
	// CreateDefinition stores a new definition together with its saving balance.
	CreateDefinition(ctx context.Context, definition *entity.PaymentDefinition, balance *entity.SavingBalance) error

	// UpdateDefinition updates an existing definition.
	UpdateDefinition(ctx context.Context, definition *entity.PaymentDefinition) error

	// DeleteDefinition removes a definition with its occurrences and balance.
	DeleteDefinition(ctx context.Context, id uuid.UUID) error

	// FindDefinitionByID retrieves a definition by its ID.
	FindDefinitionByID(ctx context.Context, id uuid.UUID) (*entity.PaymentDefinition, error)

	// FindDefinitions retrieves definitions matching the filter, ordered by name.
	FindDefinitions(ctx context.Context, filter DefinitionFilter) ([]*entity.PaymentDefinition, error)

	// FindOccurrenceByID retrieves an occurrence by its ID.
	FindOccurrenceByID(ctx context.Context, id uuid.UUID) (*entity.PaymentOccurrence, error)

	// FindOccurrencesByDefinition retrieves a definition's occurrences sorted by scheduled date.
	FindOccurrencesByDefinition(ctx context.Context, definitionID uuid.UUID) ([]*entity.PaymentOccurrence, error)

	// FindOccurrences retrieves occurrences matching the query sorted by scheduled date.
	FindOccurrences(ctx context.Context, query OccurrenceQuery) ([]*entity.PaymentOccurrence, error)

	// ApplySynchronizationPlan commits created, updated and removed occurrences atomically
	// and stamps the definition's UpdatedAt with syncedAt.
	ApplySynchronizationPlan(ctx context.Context, definitionID uuid.UUID, changes SynchronizationChanges, syncedAt time.Time) error

	// SaveOccurrence updates an occurrence and, when balance is not nil, the balance in one transaction.
	SaveOccurrence(ctx context.Context, occurrence *entity.PaymentOccurrence, balance *entity.SavingBalance) error

	// FindBalanceByDefinition retrieves the saving balance of a definition.
	FindBalanceByDefinition(ctx context.Context, definitionID uuid.UUID) (*entity.SavingBalance, error)

	// FindBalances retrieves balances matching the query.
	FindBalances(ctx context.Context, query BalanceQuery) ([]*entity.SavingBalance, error)

	// SaveBalance updates an existing saving balance.
	SaveBalance(ctx context.Context, balance *entity.SavingBalance) error
}
