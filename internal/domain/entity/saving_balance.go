package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// SavingBalance tracks the money put aside for a definition and what was paid from it.
type SavingBalance struct {
	ID               uuid.UUID
	DefinitionID     uuid.UUID
	TotalSavedAmount decimal.Decimal
	TotalPaidAmount  decimal.Decimal
	LastUpdatedYear  int // 0 until the first accrual
	LastUpdatedMonth int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewSavingBalance creates an empty balance for a definition.
func NewSavingBalance(definitionID uuid.UUID) *SavingBalance {
	now := time.Now().UTC()

	return &SavingBalance{
		ID:               uuid.New(),
		DefinitionID:     definitionID,
		TotalSavedAmount: decimal.Zero,
		TotalPaidAmount:  decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Balance returns saved minus paid. It may be negative.
func (b *SavingBalance) Balance() decimal.Decimal {
	return b.TotalSavedAmount.Sub(b.TotalPaidAmount)
}

// IsBalanceInsufficient reports whether more was paid than saved.
func (b *SavingBalance) IsBalanceInsufficient() bool {
	return b.Balance().IsNegative()
}

// HasRecordedMonth reports whether savings were already recorded for year/month or a later month.
func (b *SavingBalance) HasRecordedMonth(year int, month time.Month) bool {
	if b.LastUpdatedYear == 0 {
		return false
	}
	return valueobject.MonthIndex(b.LastUpdatedYear, time.Month(b.LastUpdatedMonth)) >= valueobject.MonthIndex(year, month)
}

// RecordMonthlySavings adds amount to the saved total and advances the last updated month.
// Months earlier than the last recorded one are rejected.
func (b *SavingBalance) RecordMonthlySavings(year int, month time.Month, amount decimal.Decimal) error {
	var reasons []string
	if year < 1 {
		reasons = append(reasons, "year must be positive")
	}
	if month < time.January || month > time.December {
		reasons = append(reasons, "month must be between 1 and 12")
	}
	if amount.IsNegative() {
		reasons = append(reasons, "saving amount must not be negative")
	}
	if len(reasons) == 0 && b.LastUpdatedYear != 0 &&
		valueobject.MonthIndex(year, month) < valueobject.MonthIndex(b.LastUpdatedYear, time.Month(b.LastUpdatedMonth)) {
		reasons = append(reasons, fmt.Sprintf("savings already recorded up to %04d-%02d", b.LastUpdatedYear, b.LastUpdatedMonth))
	}
	if len(reasons) > 0 {
		return domainerror.NewValidationError(reasons...)
	}

	b.TotalSavedAmount = b.TotalSavedAmount.Add(amount)
	b.LastUpdatedYear = year
	b.LastUpdatedMonth = int(month)
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// RecordPayment adds a completed occurrence's paid amount to the paid total.
func (b *SavingBalance) RecordPayment(occurrence *PaymentOccurrence) {
	b.ApplyPaidDelta(occurrence.PaidAmount())
}

// ApplyPaidDelta moves the paid total by delta, never below zero.
func (b *SavingBalance) ApplyPaidDelta(delta decimal.Decimal) {
	if delta.IsZero() {
		return
	}
	paid := b.TotalPaidAmount.Add(delta)
	if paid.IsNegative() {
		paid = decimal.Zero
	}
	b.TotalPaidAmount = paid
	b.UpdatedAt = time.Now().UTC()
}
