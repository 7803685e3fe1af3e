package reconciliation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// GetCandidatesInput represents the input for listing transaction candidates of an occurrence.
type GetCandidatesInput struct {
	OccurrenceID uuid.UUID
	WindowDays   int        // Optional, defaults to the configured window
	Limit        int        // Optional, defaults to the configured limit
	CurrentDate  *time.Time // Optional, defaults to now
}

// GetCandidatesOutput represents the ranked candidates for an occurrence.
type GetCandidatesOutput struct {
	Occurrence *entity.PaymentOccurrence
	WindowDays int
	Candidates []valueobject.TransactionCandidate
}

// GetCandidatesUseCase proposes transactions that may settle an occurrence.
type GetCandidatesUseCase struct {
	repo         adapter.RecurringPaymentRepository
	transactions adapter.TransactionStore
	config       valueobject.MatchingConfig
}

// NewGetCandidatesUseCase creates a new GetCandidatesUseCase instance.
func NewGetCandidatesUseCase(
	repo adapter.RecurringPaymentRepository,
	transactions adapter.TransactionStore,
	config valueobject.MatchingConfig,
) *GetCandidatesUseCase {
	return &GetCandidatesUseCase{
		repo:         repo,
		transactions: transactions,
		config:       config,
	}
}

// Execute loads the occurrence context and ranks the transactions in its window.
func (uc *GetCandidatesUseCase) Execute(ctx context.Context, input GetCandidatesInput) (*GetCandidatesOutput, error) {
	if input.WindowDays < 0 {
		return nil, domainerror.NewValidationError("window days must not be negative")
	}
	if input.Limit < 0 {
		return nil, domainerror.NewValidationError("limit must not be negative")
	}

	occurrence, err := uc.repo.FindOccurrenceByID(ctx, input.OccurrenceID)
	if err != nil {
		return nil, domainerror.Wrap(err)
	}
	definition, err := uc.repo.FindDefinitionByID(ctx, occurrence.DefinitionID)
	if err != nil {
		return nil, domainerror.Wrap(err)
	}

	currentDate := time.Now().UTC()
	if input.CurrentDate != nil {
		currentDate = *input.CurrentDate
	}
	windowDays := uc.config.WindowOrDefault(input.WindowDays)

	var transactions []*entity.Transaction
	if window, ok := CandidateWindow(occurrence.ScheduledDate, windowDays, currentDate); ok {
		transactions, err = uc.transactions.FindInRange(ctx, window)
		if err != nil {
			return nil, domainerror.Wrap(err)
		}
	}

	// The current link is always shown, even when it lies outside the window.
	if occurrence.LinkedTransactionID != nil {
		linked, err := uc.transactions.FindByID(ctx, *occurrence.LinkedTransactionID)
		switch {
		case err == nil:
			transactions = append(transactions, linked)
		case !errors.Is(err, domainerror.ErrTransactionNotFound):
			return nil, domainerror.Wrap(err)
		}
	}

	ids := make([]uuid.UUID, 0, len(transactions))
	for _, tx := range transactions {
		ids = append(ids, tx.ID)
	}
	lookup, err := linkedOccurrences(ctx, uc.repo, ids)
	if err != nil {
		return nil, err
	}

	candidates := TransactionCandidates(uc.config, occurrence, definition, transactions, lookup, windowDays, input.Limit, currentDate)

	return &GetCandidatesOutput{
		Occurrence: occurrence,
		WindowDays: windowDays,
		Candidates: candidates,
	}, nil
}
