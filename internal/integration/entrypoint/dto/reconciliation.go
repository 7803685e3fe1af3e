package dto

import (
	"github.com/finance-tracker/recurring-payments/internal/application/usecase/reconciliation"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// LinkTransactionRequest represents the request body for linking a transaction to an occurrence.
type LinkTransactionRequest struct {
	TransactionID string `json:"transaction_id" binding:"required,uuid"`
}

// CandidateResponse represents a scored transaction candidate.
type CandidateResponse struct {
	TransactionID    string  `json:"transaction_id"`
	Date             string  `json:"date"`
	Title            string  `json:"title"`
	Amount           string  `json:"amount"`
	AmountDifference string  `json:"amount_difference"`
	DayDifference    int     `json:"day_difference"`
	Score            float64 `json:"score"`
	AmountScore      float64 `json:"amount_score"`
	DateScore        float64 `json:"date_score"`
	TitleScore       float64 `json:"title_score"`
	TitleMatched     bool    `json:"title_matched"`
	IsCurrentLink    bool    `json:"is_current_link"`
	Confidence       string  `json:"confidence"`
}

// CandidatesResponse represents the ranked candidates for an occurrence.
type CandidatesResponse struct {
	Occurrence OccurrenceResponse  `json:"occurrence"`
	WindowDays int                 `json:"window_days"`
	Candidates []CandidateResponse `json:"candidates"`
}

// LinkTransactionResponse represents a linked occurrence and transaction.
type LinkTransactionResponse struct {
	Occurrence  OccurrenceResponse  `json:"occurrence"`
	Transaction TransactionResponse `json:"transaction"`
}

// UnlinkTransactionResponse represents an occurrence after its link was cleared.
type UnlinkTransactionResponse struct {
	Occurrence            OccurrenceResponse `json:"occurrence"`
	UnlinkedTransactionID *string            `json:"unlinked_transaction_id,omitempty"`
}

// ToCandidateResponse converts a TransactionCandidate to a CandidateResponse DTO.
func ToCandidateResponse(c valueobject.TransactionCandidate) CandidateResponse {
	return CandidateResponse{
		TransactionID:    c.TransactionID.String(),
		Date:             formatDate(c.Date),
		Title:            c.Title,
		Amount:           formatAmount(c.Amount),
		AmountDifference: formatAmount(c.AmountDifference),
		DayDifference:    c.DayDifference,
		Score:            c.Score,
		AmountScore:      c.AmountScore,
		DateScore:        c.DateScore,
		TitleScore:       c.TitleScore,
		TitleMatched:     c.TitleMatched,
		IsCurrentLink:    c.IsCurrentLink,
		Confidence:       string(c.Confidence),
	}
}

// ToCandidatesResponse converts a candidates output to its DTO.
func ToCandidatesResponse(output *reconciliation.GetCandidatesOutput) CandidatesResponse {
	candidates := make([]CandidateResponse, 0, len(output.Candidates))
	for _, c := range output.Candidates {
		candidates = append(candidates, ToCandidateResponse(c))
	}
	return CandidatesResponse{
		Occurrence: ToOccurrenceResponse(output.Occurrence),
		WindowDays: output.WindowDays,
		Candidates: candidates,
	}
}

// ToLinkTransactionResponse converts a link output to its DTO.
func ToLinkTransactionResponse(output *reconciliation.LinkTransactionOutput) LinkTransactionResponse {
	return LinkTransactionResponse{
		Occurrence:  ToOccurrenceResponse(output.Occurrence),
		Transaction: ToTransactionResponse(output.Transaction),
	}
}

// ToUnlinkTransactionResponse converts an unlink output to its DTO.
func ToUnlinkTransactionResponse(output *reconciliation.UnlinkTransactionOutput) UnlinkTransactionResponse {
	return UnlinkTransactionResponse{
		Occurrence:            ToOccurrenceResponse(output.Occurrence),
		UnlinkedTransactionID: formatOptionalID(output.UnlinkedTransactionID),
	}
}
