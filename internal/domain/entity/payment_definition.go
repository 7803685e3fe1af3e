// Package entity defines the core business entities for the domain layer.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// PaymentDefinition is the template of a recurring or irregular payment.
type PaymentDefinition struct {
	ID                        uuid.UUID
	Name                      string
	Notes                     string
	Amount                    decimal.Decimal
	RecurrenceIntervalMonths  int
	FirstOccurrenceDate       time.Time
	EndDate                   *time.Time
	LeadTimeMonths            int
	CategoryID                *uuid.UUID
	SavingStrategy            valueobject.SavingStrategy
	CustomMonthlySavingAmount *decimal.Decimal
	DateAdjustmentPolicy      valueobject.DateAdjustmentPolicy
	DayPattern                *valueobject.DayOfMonthPattern
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// PaymentDefinitionAttributes holds the user-editable fields of a PaymentDefinition.
type PaymentDefinitionAttributes struct {
	Name                      string
	Notes                     string
	Amount                    decimal.Decimal
	RecurrenceIntervalMonths  int
	FirstOccurrenceDate       time.Time
	EndDate                   *time.Time
	LeadTimeMonths            int
	CategoryID                *uuid.UUID
	SavingStrategy            valueobject.SavingStrategy
	CustomMonthlySavingAmount *decimal.Decimal
	DateAdjustmentPolicy      valueobject.DateAdjustmentPolicy
	DayPattern                *valueobject.DayOfMonthPattern
}

// NewPaymentDefinition creates a new PaymentDefinition entity.
// Attributes should be validated with Validate before calling this constructor.
func NewPaymentDefinition(attrs PaymentDefinitionAttributes) *PaymentDefinition {
	now := time.Now().UTC()

	def := &PaymentDefinition{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	def.Apply(attrs)
	return def
}

// Apply overwrites the editable fields of the definition, normalizing dates and defaults.
func (d *PaymentDefinition) Apply(attrs PaymentDefinitionAttributes) {
	d.Name = strings.TrimSpace(attrs.Name)
	d.Notes = attrs.Notes
	d.Amount = attrs.Amount
	d.RecurrenceIntervalMonths = attrs.RecurrenceIntervalMonths
	d.FirstOccurrenceDate = valueobject.DateOf(attrs.FirstOccurrenceDate)
	d.EndDate = nil
	if attrs.EndDate != nil {
		end := valueobject.DateOf(*attrs.EndDate)
		d.EndDate = &end
	}
	d.LeadTimeMonths = attrs.LeadTimeMonths
	d.CategoryID = attrs.CategoryID
	d.SavingStrategy = attrs.SavingStrategy
	if d.SavingStrategy == "" {
		d.SavingStrategy = valueobject.SavingStrategyDisabled
	}
	d.CustomMonthlySavingAmount = attrs.CustomMonthlySavingAmount
	d.DateAdjustmentPolicy = attrs.DateAdjustmentPolicy
	if d.DateAdjustmentPolicy == "" {
		d.DateAdjustmentPolicy = valueobject.AdjustmentNone
	}
	d.DayPattern = attrs.DayPattern
}

// Attributes returns the editable fields of the definition.
func (d *PaymentDefinition) Attributes() PaymentDefinitionAttributes {
	return PaymentDefinitionAttributes{
		Name:                      d.Name,
		Notes:                     d.Notes,
		Amount:                    d.Amount,
		RecurrenceIntervalMonths:  d.RecurrenceIntervalMonths,
		FirstOccurrenceDate:       d.FirstOccurrenceDate,
		EndDate:                   d.EndDate,
		LeadTimeMonths:            d.LeadTimeMonths,
		CategoryID:                d.CategoryID,
		SavingStrategy:            d.SavingStrategy,
		CustomMonthlySavingAmount: d.CustomMonthlySavingAmount,
		DateAdjustmentPolicy:      d.DateAdjustmentPolicy,
		DayPattern:                d.DayPattern,
	}
}

// Validate returns every business rule the attributes violate. An empty result means valid.
func (a PaymentDefinitionAttributes) Validate() []string {
	var reasons []string

	if strings.TrimSpace(a.Name) == "" {
		reasons = append(reasons, "name must not be empty")
	}
	if !a.Amount.IsPositive() {
		reasons = append(reasons, "amount must be greater than zero")
	}
	if a.RecurrenceIntervalMonths < 1 {
		reasons = append(reasons, "recurrence interval must be at least one month")
	}
	if a.FirstOccurrenceDate.IsZero() {
		reasons = append(reasons, "first occurrence date is required")
	}
	if a.EndDate != nil && !a.FirstOccurrenceDate.IsZero() &&
		valueobject.DateOf(*a.EndDate).Before(valueobject.DateOf(a.FirstOccurrenceDate)) {
		reasons = append(reasons, "end date must not be before the first occurrence date")
	}
	if a.LeadTimeMonths < 0 {
		reasons = append(reasons, "lead time must not be negative")
	}

	strategy := a.SavingStrategy
	if strategy == "" {
		strategy = valueobject.SavingStrategyDisabled
	}
	switch {
	case !strategy.IsValid():
		reasons = append(reasons, "saving strategy is invalid")
	case strategy.RequiresCustomAmount():
		if a.CustomMonthlySavingAmount == nil {
			reasons = append(reasons, "custom monthly saving amount is required for the custom monthly strategy")
		} else if !a.CustomMonthlySavingAmount.IsPositive() {
			reasons = append(reasons, "custom monthly saving amount must be greater than zero")
		}
	case a.CustomMonthlySavingAmount != nil:
		reasons = append(reasons, "custom monthly saving amount is only allowed for the custom monthly strategy")
	}

	if a.DateAdjustmentPolicy != "" && !a.DateAdjustmentPolicy.IsValid() {
		reasons = append(reasons, "date adjustment policy is invalid")
	}
	if a.DayPattern != nil {
		reasons = append(reasons, a.DayPattern.Validate()...)
	}

	return reasons
}

// MonthlySavingAmount returns the monthly accrual derived from the saving strategy.
func (d *PaymentDefinition) MonthlySavingAmount() decimal.Decimal {
	switch d.SavingStrategy {
	case valueobject.SavingStrategyEvenlyDistributed:
		if d.RecurrenceIntervalMonths < 1 {
			return decimal.Zero
		}
		return d.Amount.Div(decimal.NewFromInt(int64(d.RecurrenceIntervalMonths)))
	case valueobject.SavingStrategyCustomMonthly:
		if d.CustomMonthlySavingAmount == nil {
			return decimal.Zero
		}
		return *d.CustomMonthlySavingAmount
	default:
		return decimal.Zero
	}
}

// IsSavingEnabled reports whether the definition accrues savings.
func (d *PaymentDefinition) IsSavingEnabled() bool {
	return d.SavingStrategy == valueobject.SavingStrategyEvenlyDistributed ||
		d.SavingStrategy == valueobject.SavingStrategyCustomMonthly
}

// IsActiveOn reports whether date falls before the end of the definition.
func (d *PaymentDefinition) IsActiveOn(date time.Time) bool {
	return d.EndDate == nil || !valueobject.DateOf(date).After(*d.EndDate)
}

// PaymentDefinitionWithDetails represents a definition with its balance and next occurrence.
type PaymentDefinitionWithDetails struct {
	Definition     *PaymentDefinition
	Balance        *SavingBalance
	NextOccurrence *PaymentOccurrence
}
