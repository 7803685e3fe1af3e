package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/usecase/recurringpayment"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// CreateRecurringPaymentRequest represents the request body for definition creation.
// Amounts are decimal strings and dates are YYYY-MM-DD.
type CreateRecurringPaymentRequest struct {
	Name                      string  `json:"name"`
	Notes                     string  `json:"notes"`
	Amount                    string  `json:"amount"`
	RecurrenceIntervalMonths  int     `json:"recurrence_interval_months"`
	FirstOccurrenceDate       string  `json:"first_occurrence_date"`
	EndDate                   *string `json:"end_date,omitempty"`
	LeadTimeMonths            int     `json:"lead_time_months"`
	CategoryID                *string `json:"category_id,omitempty" binding:"omitempty,uuid"`
	SavingStrategy            string  `json:"saving_strategy" binding:"omitempty,oneof=disabled evenly_distributed custom_monthly"`
	CustomMonthlySavingAmount *string `json:"custom_monthly_saving_amount,omitempty"`
	DateAdjustmentPolicy      string  `json:"date_adjustment_policy" binding:"omitempty,oneof=none previous next"`
	DayPattern                *string `json:"day_pattern,omitempty"`
	HorizonMonths             *int    `json:"horizon_months,omitempty"`
	ReferenceDate             *string `json:"reference_date,omitempty"`
}

// ToInput converts the request into use case input.
func (r CreateRecurringPaymentRequest) ToInput(defaultHorizonMonths int) (recurringpayment.CreateDefinitionInput, error) {
	var p fieldParser
	attrs := entity.PaymentDefinitionAttributes{
		Name:                      r.Name,
		Notes:                     r.Notes,
		Amount:                    p.amount("amount", r.Amount),
		RecurrenceIntervalMonths:  r.RecurrenceIntervalMonths,
		FirstOccurrenceDate:       p.date("first_occurrence_date", r.FirstOccurrenceDate),
		EndDate:                   p.optionalDate("end_date", r.EndDate),
		LeadTimeMonths:            r.LeadTimeMonths,
		CategoryID:                p.optionalID("category_id", r.CategoryID),
		SavingStrategy:            valueobject.SavingStrategy(r.SavingStrategy),
		CustomMonthlySavingAmount: p.optionalAmount("custom_monthly_saving_amount", r.CustomMonthlySavingAmount),
		DateAdjustmentPolicy:      valueobject.DateAdjustmentPolicy(r.DateAdjustmentPolicy),
		DayPattern:                p.pattern("day_pattern", r.DayPattern),
	}
	input := recurringpayment.CreateDefinitionInput{
		Attributes:    attrs,
		HorizonMonths: horizonOr(r.HorizonMonths, defaultHorizonMonths),
		ReferenceDate: p.optionalDate("reference_date", r.ReferenceDate),
	}
	return input, p.err()
}

// UpdateRecurringPaymentRequest represents the request body for a partial definition update.
// The clear_* flags remove optional fields.
type UpdateRecurringPaymentRequest struct {
	Name                      *string `json:"name,omitempty"`
	Notes                     *string `json:"notes,omitempty"`
	Amount                    *string `json:"amount,omitempty"`
	RecurrenceIntervalMonths  *int    `json:"recurrence_interval_months,omitempty"`
	FirstOccurrenceDate       *string `json:"first_occurrence_date,omitempty"`
	EndDate                   *string `json:"end_date,omitempty"`
	ClearEndDate              bool    `json:"clear_end_date"`
	LeadTimeMonths            *int    `json:"lead_time_months,omitempty"`
	CategoryID                *string `json:"category_id,omitempty" binding:"omitempty,uuid"`
	ClearCategory             bool    `json:"clear_category"`
	SavingStrategy            *string `json:"saving_strategy,omitempty" binding:"omitempty,oneof=disabled evenly_distributed custom_monthly"`
	CustomMonthlySavingAmount *string `json:"custom_monthly_saving_amount,omitempty"`
	DateAdjustmentPolicy      *string `json:"date_adjustment_policy,omitempty" binding:"omitempty,oneof=none previous next"`
	DayPattern                *string `json:"day_pattern,omitempty"`
	ClearDayPattern           bool    `json:"clear_day_pattern"`
	HorizonMonths             *int    `json:"horizon_months,omitempty"`
	ReferenceDate             *string `json:"reference_date,omitempty"`
}

// ToInput converts the request into use case input for the given definition.
func (r UpdateRecurringPaymentRequest) ToInput(id uuid.UUID, defaultHorizonMonths int) (recurringpayment.UpdateDefinitionInput, error) {
	var p fieldParser
	input := recurringpayment.UpdateDefinitionInput{
		DefinitionID:              id,
		Name:                      r.Name,
		Notes:                     r.Notes,
		Amount:                    p.optionalAmount("amount", r.Amount),
		RecurrenceIntervalMonths:  r.RecurrenceIntervalMonths,
		FirstOccurrenceDate:       p.optionalDate("first_occurrence_date", r.FirstOccurrenceDate),
		EndDate:                   p.optionalDate("end_date", r.EndDate),
		ClearEndDate:              r.ClearEndDate,
		LeadTimeMonths:            r.LeadTimeMonths,
		CategoryID:                p.optionalID("category_id", r.CategoryID),
		ClearCategory:             r.ClearCategory,
		CustomMonthlySavingAmount: p.optionalAmount("custom_monthly_saving_amount", r.CustomMonthlySavingAmount),
		DayPattern:                p.pattern("day_pattern", r.DayPattern),
		ClearDayPattern:           r.ClearDayPattern,
		HorizonMonths:             horizonOr(r.HorizonMonths, defaultHorizonMonths),
		ReferenceDate:             p.optionalDate("reference_date", r.ReferenceDate),
	}
	if r.SavingStrategy != nil {
		strategy := valueobject.SavingStrategy(*r.SavingStrategy)
		input.SavingStrategy = &strategy
	}
	if r.DateAdjustmentPolicy != nil {
		policy := valueobject.DateAdjustmentPolicy(*r.DateAdjustmentPolicy)
		input.DateAdjustmentPolicy = &policy
	}
	return input, p.err()
}

// SynchronizeRequest represents the optional request body for a manual synchronization.
type SynchronizeRequest struct {
	HorizonMonths *int    `json:"horizon_months,omitempty"`
	ReferenceDate *string `json:"reference_date,omitempty"`
}

// ToInput converts the request into use case input for the given definition.
func (r SynchronizeRequest) ToInput(id uuid.UUID, defaultHorizonMonths int) (recurringpayment.SynchronizeInput, error) {
	var p fieldParser
	input := recurringpayment.SynchronizeInput{
		DefinitionID:  id,
		HorizonMonths: horizonOr(r.HorizonMonths, defaultHorizonMonths),
		ReferenceDate: p.optionalDate("reference_date", r.ReferenceDate),
	}
	return input, p.err()
}

// RecurringPaymentResponse represents a payment definition in API responses.
type RecurringPaymentResponse struct {
	ID                        string    `json:"id"`
	Name                      string    `json:"name"`
	Notes                     string    `json:"notes"`
	Amount                    string    `json:"amount"`
	RecurrenceIntervalMonths  int       `json:"recurrence_interval_months"`
	FirstOccurrenceDate       string    `json:"first_occurrence_date"`
	EndDate                   *string   `json:"end_date,omitempty"`
	LeadTimeMonths            int       `json:"lead_time_months"`
	CategoryID                *string   `json:"category_id,omitempty"`
	SavingStrategy            string    `json:"saving_strategy"`
	CustomMonthlySavingAmount *string   `json:"custom_monthly_saving_amount,omitempty"`
	MonthlySavingAmount       string    `json:"monthly_saving_amount"`
	DateAdjustmentPolicy      string    `json:"date_adjustment_policy"`
	DayPattern                *string   `json:"day_pattern,omitempty"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// SynchronizationSummaryResponse represents the counts of a synchronization.
type SynchronizationSummaryResponse struct {
	DefinitionID string    `json:"definition_id"`
	SyncedAt     time.Time `json:"synced_at"`
	Created      int       `json:"created"`
	Updated      int       `json:"updated"`
	Removed      int       `json:"removed"`
}

// RecurringPaymentDetailsResponse represents a definition with its balance and occurrences.
type RecurringPaymentDetailsResponse struct {
	Definition     RecurringPaymentResponse        `json:"definition"`
	Balance        *SavingBalanceResponse          `json:"balance,omitempty"`
	NextOccurrence *OccurrenceResponse             `json:"next_occurrence,omitempty"`
	Occurrences    []OccurrenceResponse            `json:"occurrences,omitempty"`
	Summary        *SynchronizationSummaryResponse `json:"summary,omitempty"`
}

// RecurringPaymentListResponse represents the response for listing definitions.
type RecurringPaymentListResponse struct {
	RecurringPayments []RecurringPaymentDetailsResponse `json:"recurring_payments"`
}

// SynchronizeResponse represents the result of a synchronization.
type SynchronizeResponse struct {
	Summary     SynchronizationSummaryResponse `json:"summary"`
	Occurrences []OccurrenceResponse           `json:"occurrences"`
}

// ToRecurringPaymentResponse converts a domain PaymentDefinition to a RecurringPaymentResponse DTO.
func ToRecurringPaymentResponse(d *entity.PaymentDefinition) RecurringPaymentResponse {
	response := RecurringPaymentResponse{
		ID:                        d.ID.String(),
		Name:                      d.Name,
		Notes:                     d.Notes,
		Amount:                    formatAmount(d.Amount),
		RecurrenceIntervalMonths:  d.RecurrenceIntervalMonths,
		FirstOccurrenceDate:       formatDate(d.FirstOccurrenceDate),
		EndDate:                   formatOptionalDate(d.EndDate),
		LeadTimeMonths:            d.LeadTimeMonths,
		CategoryID:                formatOptionalID(d.CategoryID),
		SavingStrategy:            string(d.SavingStrategy),
		CustomMonthlySavingAmount: formatOptionalAmount(d.CustomMonthlySavingAmount),
		MonthlySavingAmount:       formatAmount(d.MonthlySavingAmount()),
		DateAdjustmentPolicy:      string(d.DateAdjustmentPolicy),
		CreatedAt:                 d.CreatedAt,
		UpdatedAt:                 d.UpdatedAt,
	}

	if d.DayPattern != nil {
		pattern := d.DayPattern.String()
		response.DayPattern = &pattern
	}

	return response
}

// ToSynchronizationSummaryResponse converts a SynchronizationSummary to its DTO.
func ToSynchronizationSummaryResponse(s recurringpayment.SynchronizationSummary) SynchronizationSummaryResponse {
	return SynchronizationSummaryResponse{
		DefinitionID: s.DefinitionID.String(),
		SyncedAt:     s.SyncedAt,
		Created:      s.CreatedCount,
		Updated:      s.UpdatedCount,
		Removed:      s.RemovedCount,
	}
}

// ToRecurringPaymentDetailsResponse converts a definition and its related records to a details DTO.
func ToRecurringPaymentDetailsResponse(
	definition *entity.PaymentDefinition,
	balance *entity.SavingBalance,
	next *entity.PaymentOccurrence,
	occurrences []*entity.PaymentOccurrence,
) RecurringPaymentDetailsResponse {
	response := RecurringPaymentDetailsResponse{
		Definition: ToRecurringPaymentResponse(definition),
	}
	if balance != nil {
		b := ToSavingBalanceResponse(balance)
		response.Balance = &b
	}
	if next != nil {
		n := ToOccurrenceResponse(next)
		response.NextOccurrence = &n
	}
	if occurrences != nil {
		response.Occurrences = ToOccurrenceResponses(occurrences)
	}
	return response
}

// ToRecurringPaymentListResponse converts listed definitions to a list DTO.
func ToRecurringPaymentListResponse(details []*entity.PaymentDefinitionWithDetails) RecurringPaymentListResponse {
	items := make([]RecurringPaymentDetailsResponse, 0, len(details))
	for _, d := range details {
		items = append(items, ToRecurringPaymentDetailsResponse(d.Definition, d.Balance, d.NextOccurrence, nil))
	}
	return RecurringPaymentListResponse{RecurringPayments: items}
}
