package dto

import (
	"time"

	"github.com/finance-tracker/recurring-payments/internal/application/usecase/transaction"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
)

// CreateTransactionRequest represents the request body for transaction creation.
type CreateTransactionRequest struct {
	Date                   string  `json:"date" binding:"required"`
	Description            string  `json:"description" binding:"required"`
	Amount                 string  `json:"amount" binding:"required"`
	Type                   string  `json:"type" binding:"required,oneof=expense income"`
	CategoryID             *string `json:"category_id,omitempty" binding:"omitempty,uuid"`
	ExcludeFromCalculation bool    `json:"exclude_from_calculation"`
}

// ToInput converts the request into use case input.
func (r CreateTransactionRequest) ToInput() (transaction.CreateTransactionInput, error) {
	var p fieldParser
	input := transaction.CreateTransactionInput{
		Date:                   p.date("date", r.Date),
		Description:            r.Description,
		Amount:                 p.amount("amount", r.Amount),
		Type:                   entity.TransactionType(r.Type),
		CategoryID:             p.optionalID("category_id", r.CategoryID),
		ExcludeFromCalculation: r.ExcludeFromCalculation,
	}
	return input, p.err()
}

// TransactionResponse represents a single transaction in API responses.
// Amount is signed: negative for expenses.
type TransactionResponse struct {
	ID                     string    `json:"id"`
	Date                   string    `json:"date"`
	Description            string    `json:"description"`
	Amount                 string    `json:"amount"`
	Type                   string    `json:"type"`
	CategoryID             *string   `json:"category_id,omitempty"`
	ExcludeFromCalculation bool      `json:"exclude_from_calculation"`
	OccurrenceID           *string   `json:"occurrence_id,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// ToTransactionResponse converts a domain Transaction entity to a TransactionResponse DTO.
func ToTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                     t.ID.String(),
		Date:                   formatDate(t.Date),
		Description:            t.Description,
		Amount:                 formatAmount(t.Amount),
		Type:                   string(t.Type),
		CategoryID:             formatOptionalID(t.CategoryID),
		ExcludeFromCalculation: t.ExcludeFromCalculation,
		OccurrenceID:           formatOptionalID(t.OccurrenceID),
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
	}
}

// ToTransactionListResponse converts transactions to a list DTO.
func ToTransactionListResponse(transactions []*entity.Transaction) TransactionListResponse {
	items := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		items = append(items, ToTransactionResponse(t))
	}
	return TransactionListResponse{Transactions: items}
}
