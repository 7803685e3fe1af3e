package dto

import (
	"time"

	"github.com/finance-tracker/recurring-payments/internal/application/usecase/saving"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
)

// AccrueSavingsRequest represents the request body for a monthly accrual run.
type AccrueSavingsRequest struct {
	Year          int      `json:"year" binding:"required,gte=1"`
	Month         int      `json:"month" binding:"required,gte=1,lte=12"`
	DefinitionIDs []string `json:"definition_ids,omitempty" binding:"omitempty,dive,uuid"`
}

// ToInput converts the request into use case input.
func (r AccrueSavingsRequest) ToInput() (saving.AccrueMonthlySavingsInput, error) {
	var p fieldParser
	input := saving.AccrueMonthlySavingsInput{
		Year:          r.Year,
		Month:         time.Month(r.Month),
		DefinitionIDs: p.ids("definition_ids", r.DefinitionIDs),
	}
	return input, p.err()
}

// SavingBalanceResponse represents a saving balance in API responses.
type SavingBalanceResponse struct {
	ID               string    `json:"id"`
	DefinitionID     string    `json:"definition_id"`
	TotalSavedAmount string    `json:"total_saved_amount"`
	TotalPaidAmount  string    `json:"total_paid_amount"`
	Balance          string    `json:"balance"`
	IsInsufficient   bool      `json:"is_insufficient"`
	LastUpdatedYear  int       `json:"last_updated_year,omitempty"`
	LastUpdatedMonth int       `json:"last_updated_month,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SavingBalanceListResponse represents the response for listing balances.
type SavingBalanceListResponse struct {
	Balances []SavingBalanceResponse `json:"balances"`
}

// AccrueSavingsResponse represents the result of an accrual run.
type AccrueSavingsResponse struct {
	Recorded int                     `json:"recorded"`
	Skipped  int                     `json:"skipped"`
	Balances []SavingBalanceResponse `json:"balances"`
}

// ToSavingBalanceResponse converts a domain SavingBalance to a SavingBalanceResponse DTO.
func ToSavingBalanceResponse(b *entity.SavingBalance) SavingBalanceResponse {
	return SavingBalanceResponse{
		ID:               b.ID.String(),
		DefinitionID:     b.DefinitionID.String(),
		TotalSavedAmount: formatAmount(b.TotalSavedAmount),
		TotalPaidAmount:  formatAmount(b.TotalPaidAmount),
		Balance:          formatAmount(b.Balance()),
		IsInsufficient:   b.IsBalanceInsufficient(),
		LastUpdatedYear:  b.LastUpdatedYear,
		LastUpdatedMonth: b.LastUpdatedMonth,
		UpdatedAt:        b.UpdatedAt,
	}
}

// ToSavingBalanceResponses converts a slice of balances, never returning nil.
func ToSavingBalanceResponses(balances []*entity.SavingBalance) []SavingBalanceResponse {
	responses := make([]SavingBalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, ToSavingBalanceResponse(b))
	}
	return responses
}

// ToAccrueSavingsResponse converts an accrual output to its DTO.
func ToAccrueSavingsResponse(output *saving.AccrueMonthlySavingsOutput) AccrueSavingsResponse {
	return AccrueSavingsResponse{
		Recorded: output.Recorded,
		Skipped:  output.Skipped,
		Balances: ToSavingBalanceResponses(output.Balances),
	}
}
