package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// MaxActualDateDeviationDays is how far an actual payment date may be from the scheduled date.
const MaxActualDateDeviationDays = 90

// OccurrenceStatus represents the lifecycle status of a payment occurrence.
type OccurrenceStatus string

const (
	OccurrenceStatusPlanned   OccurrenceStatus = "planned"
	OccurrenceStatusSaving    OccurrenceStatus = "saving"
	OccurrenceStatusCompleted OccurrenceStatus = "completed"
	OccurrenceStatusCancelled OccurrenceStatus = "cancelled"
)

// IsValid reports whether the status is known.
func (s OccurrenceStatus) IsValid() bool {
	switch s {
	case OccurrenceStatusPlanned, OccurrenceStatusSaving, OccurrenceStatusCompleted, OccurrenceStatusCancelled:
		return true
	}
	return false
}

// IsLocked reports whether occurrences in this status are immune to regeneration.
func (s OccurrenceStatus) IsLocked() bool {
	return s == OccurrenceStatusCompleted || s == OccurrenceStatusCancelled
}

// PaymentOccurrence is one concrete scheduled instance of a PaymentDefinition.
type PaymentOccurrence struct {
	ID                  uuid.UUID
	DefinitionID        uuid.UUID
	ScheduledDate       time.Time
	ExpectedAmount      decimal.Decimal
	Status              OccurrenceStatus
	ActualDate          *time.Time
	ActualAmount        *decimal.Decimal
	LinkedTransactionID *uuid.UUID
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewPaymentOccurrence creates a planned occurrence.
func NewPaymentOccurrence(definitionID uuid.UUID, scheduledDate time.Time, expectedAmount decimal.Decimal) *PaymentOccurrence {
	now := time.Now().UTC()

	return &PaymentOccurrence{
		ID:             uuid.New(),
		DefinitionID:   definitionID,
		ScheduledDate:  valueobject.DateOf(scheduledDate),
		ExpectedAmount: expectedAmount,
		Status:         OccurrenceStatusPlanned,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsSchedulingLocked reports whether synchronization must leave the occurrence untouched.
func (o *PaymentOccurrence) IsSchedulingLocked() bool {
	return o.Status.IsLocked()
}

// IsCompleted reports whether the occurrence has been paid.
func (o *PaymentOccurrence) IsCompleted() bool {
	return o.Status == OccurrenceStatusCompleted
}

// RemainingAmount returns what is left to pay.
func (o *PaymentOccurrence) RemainingAmount() decimal.Decimal {
	if o.ActualAmount == nil {
		return o.ExpectedAmount
	}
	remaining := o.ExpectedAmount.Sub(*o.ActualAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// PaidAmount returns the amount this occurrence contributes to the paid total.
func (o *PaymentOccurrence) PaidAmount() decimal.Decimal {
	if !o.IsCompleted() {
		return decimal.Zero
	}
	if o.ActualAmount != nil {
		return *o.ActualAmount
	}
	return o.ExpectedAmount
}

// SavingStartDate returns the date saving should start given the lead time.
func (o *PaymentOccurrence) SavingStartDate(leadTimeMonths int) time.Time {
	if leadTimeMonths <= 0 {
		return o.ScheduledDate
	}
	return valueobject.AddMonthsClamped(o.ScheduledDate, -leadTimeMonths)
}

// IsInSavingWindow reports whether date is within [SavingStartDate, ScheduledDate].
func (o *PaymentOccurrence) IsInSavingWindow(date time.Time, leadTimeMonths int) bool {
	d := valueobject.DateOf(date)
	return !d.Before(o.SavingStartDate(leadTimeMonths)) && !d.After(o.ScheduledDate)
}

// BeginSaving moves a planned occurrence to saving once date enters its saving window.
// It reports whether the status changed.
func (o *PaymentOccurrence) BeginSaving(date time.Time, leadTimeMonths int) bool {
	if o.Status != OccurrenceStatusPlanned || !o.IsInSavingWindow(date, leadTimeMonths) {
		return false
	}
	o.Status = OccurrenceStatusSaving
	o.UpdatedAt = time.Now().UTC()
	return true
}

// SavingOverlaps reports whether the saving window touches the inclusive range [start, end].
func (o *PaymentOccurrence) SavingOverlaps(start, end time.Time, leadTimeMonths int) bool {
	return !o.SavingStartDate(leadTimeMonths).After(valueobject.DateOf(end)) &&
		!o.ScheduledDate.Before(valueobject.DateOf(start))
}

// ValidateCompletion returns the rules a completed occurrence violates.
func (o *PaymentOccurrence) ValidateCompletion() []string {
	var reasons []string
	if o.ActualDate == nil {
		reasons = append(reasons, "actual date is required to complete an occurrence")
	} else {
		deviation := valueobject.DaysBetween(o.ScheduledDate, *o.ActualDate)
		if deviation < 0 {
			deviation = -deviation
		}
		if deviation > MaxActualDateDeviationDays {
			reasons = append(reasons, "actual date must be within 90 days of the scheduled date")
		}
	}
	if o.ActualAmount == nil {
		reasons = append(reasons, "actual amount is required to complete an occurrence")
	} else if !o.ActualAmount.IsPositive() {
		reasons = append(reasons, "actual amount must be greater than zero")
	}
	return reasons
}

// Complete marks the occurrence as paid with the given actuals.
func (o *PaymentOccurrence) Complete(actualDate time.Time, actualAmount decimal.Decimal, linkedTransactionID *uuid.UUID) {
	date := valueobject.DateOf(actualDate)
	amount := actualAmount
	o.Status = OccurrenceStatusCompleted
	o.ActualDate = &date
	o.ActualAmount = &amount
	if linkedTransactionID != nil {
		o.LinkedTransactionID = linkedTransactionID
	}
	o.UpdatedAt = time.Now().UTC()
}

// Clone returns a copy that shares no pointers with o.
func (o *PaymentOccurrence) Clone() *PaymentOccurrence {
	c := *o
	if o.ActualDate != nil {
		d := *o.ActualDate
		c.ActualDate = &d
	}
	if o.ActualAmount != nil {
		a := *o.ActualAmount
		c.ActualAmount = &a
	}
	if o.LinkedTransactionID != nil {
		id := *o.LinkedTransactionID
		c.LinkedTransactionID = &id
	}
	return &c
}
