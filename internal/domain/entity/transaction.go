package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction (expense or income).
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// Transaction represents an account transaction that can settle a payment occurrence.
type Transaction struct {
	ID                     uuid.UUID
	Date                   time.Time
	Description            string
	Amount                 decimal.Decimal // Negative for expenses, positive for income
	Type                   TransactionType
	CategoryID             *uuid.UUID
	ExcludeFromCalculation bool
	OccurrenceID           *uuid.UUID // Occurrence this transaction settles, if linked
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// NewTransaction creates a new Transaction entity.
func NewTransaction(
	date time.Time,
	description string,
	amount decimal.Decimal,
	transactionType TransactionType,
	categoryID *uuid.UUID,
) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:          uuid.New(),
		Date:        date,
		Description: description,
		Amount:      amount,
		Type:        transactionType,
		CategoryID:  categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsExpense reports whether the transaction is an expense.
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// IsCalculationEligible reports whether the transaction counts toward totals and matching.
func (t *Transaction) IsCalculationEligible() bool {
	return !t.ExcludeFromCalculation
}

// IsLinkedTo reports whether the transaction settles the given occurrence.
func (t *Transaction) IsLinkedTo(occurrenceID uuid.UUID) bool {
	return t.OccurrenceID != nil && *t.OccurrenceID == occurrenceID
}
