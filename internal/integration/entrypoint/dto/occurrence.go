package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/usecase/recurringpayment"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
)

// CompleteOccurrenceRequest represents the request body for completing an occurrence.
type CompleteOccurrenceRequest struct {
	ActualDate          string  `json:"actual_date"`
	ActualAmount        string  `json:"actual_amount"`
	LinkedTransactionID *string `json:"linked_transaction_id,omitempty" binding:"omitempty,uuid"`
	HorizonMonths       *int    `json:"horizon_months,omitempty"`
	ReferenceDate       *string `json:"reference_date,omitempty"`
}

// ToInput converts the request into use case input for the given occurrence.
func (r CompleteOccurrenceRequest) ToInput(id uuid.UUID, defaultHorizonMonths int) (recurringpayment.CompleteOccurrenceInput, error) {
	var p fieldParser
	input := recurringpayment.CompleteOccurrenceInput{
		OccurrenceID:        id,
		ActualDate:          p.date("actual_date", r.ActualDate),
		ActualAmount:        p.amount("actual_amount", r.ActualAmount),
		LinkedTransactionID: p.optionalID("linked_transaction_id", r.LinkedTransactionID),
		HorizonMonths:       horizonOr(r.HorizonMonths, defaultHorizonMonths),
		ReferenceDate:       p.optionalDate("reference_date", r.ReferenceDate),
	}
	return input, p.err()
}

// UpdateOccurrenceRequest represents the request body for editing an occurrence.
// Omitted actuals and link are cleared.
type UpdateOccurrenceRequest struct {
	Status              string  `json:"status" binding:"required,oneof=planned saving completed cancelled"`
	ActualDate          *string `json:"actual_date,omitempty"`
	ActualAmount        *string `json:"actual_amount,omitempty"`
	LinkedTransactionID *string `json:"linked_transaction_id,omitempty" binding:"omitempty,uuid"`
	HorizonMonths       *int    `json:"horizon_months,omitempty"`
	ReferenceDate       *string `json:"reference_date,omitempty"`
}

// ToInput converts the request into use case input for the given occurrence.
func (r UpdateOccurrenceRequest) ToInput(id uuid.UUID, defaultHorizonMonths int) (recurringpayment.UpdateOccurrenceInput, error) {
	var p fieldParser
	input := recurringpayment.UpdateOccurrenceInput{
		OccurrenceID:        id,
		Status:              entity.OccurrenceStatus(r.Status),
		ActualDate:          p.optionalDate("actual_date", r.ActualDate),
		ActualAmount:        p.optionalAmount("actual_amount", r.ActualAmount),
		LinkedTransactionID: p.optionalID("linked_transaction_id", r.LinkedTransactionID),
		HorizonMonths:       horizonOr(r.HorizonMonths, defaultHorizonMonths),
		ReferenceDate:       p.optionalDate("reference_date", r.ReferenceDate),
	}
	return input, p.err()
}

// OccurrenceResponse represents a payment occurrence in API responses.
type OccurrenceResponse struct {
	ID                  string    `json:"id"`
	DefinitionID        string    `json:"definition_id"`
	ScheduledDate       string    `json:"scheduled_date"`
	ExpectedAmount      string    `json:"expected_amount"`
	Status              string    `json:"status"`
	ActualDate          *string   `json:"actual_date,omitempty"`
	ActualAmount        *string   `json:"actual_amount,omitempty"`
	LinkedTransactionID *string   `json:"linked_transaction_id,omitempty"`
	RemainingAmount     string    `json:"remaining_amount"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// OccurrenceListResponse represents the response for listing occurrences.
type OccurrenceListResponse struct {
	Occurrences []OccurrenceResponse `json:"occurrences"`
}

// OccurrenceResultResponse represents an edited occurrence with its balance and resynchronization.
type OccurrenceResultResponse struct {
	Occurrence OccurrenceResponse              `json:"occurrence"`
	Balance    *SavingBalanceResponse          `json:"balance,omitempty"`
	Summary    *SynchronizationSummaryResponse `json:"summary,omitempty"`
}

// ToOccurrenceResponse converts a domain PaymentOccurrence to an OccurrenceResponse DTO.
func ToOccurrenceResponse(o *entity.PaymentOccurrence) OccurrenceResponse {
	return OccurrenceResponse{
		ID:                  o.ID.String(),
		DefinitionID:        o.DefinitionID.String(),
		ScheduledDate:       formatDate(o.ScheduledDate),
		ExpectedAmount:      formatAmount(o.ExpectedAmount),
		Status:              string(o.Status),
		ActualDate:          formatOptionalDate(o.ActualDate),
		ActualAmount:        formatOptionalAmount(o.ActualAmount),
		LinkedTransactionID: formatOptionalID(o.LinkedTransactionID),
		RemainingAmount:     formatAmount(o.RemainingAmount()),
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

// ToOccurrenceResponses converts a slice of occurrences, never returning nil.
func ToOccurrenceResponses(occurrences []*entity.PaymentOccurrence) []OccurrenceResponse {
	responses := make([]OccurrenceResponse, 0, len(occurrences))
	for _, o := range occurrences {
		responses = append(responses, ToOccurrenceResponse(o))
	}
	return responses
}

// ToOccurrenceResultResponse converts an occurrence edit result to its DTO.
func ToOccurrenceResultResponse(
	occurrence *entity.PaymentOccurrence,
	balance *entity.SavingBalance,
	summary *recurringpayment.SynchronizationSummary,
) OccurrenceResultResponse {
	response := OccurrenceResultResponse{
		Occurrence: ToOccurrenceResponse(occurrence),
	}
	if balance != nil {
		b := ToSavingBalanceResponse(balance)
		response.Balance = &b
	}
	if summary != nil {
		s := ToSynchronizationSummaryResponse(*summary)
		response.Summary = &s
	}
	return response
}
