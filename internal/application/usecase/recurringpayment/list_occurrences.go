package recurringpayment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// ListOccurrencesInput represents the input for querying occurrences.
type ListOccurrencesInput struct {
	DefinitionIDs []uuid.UUID
	Statuses      []entity.OccurrenceStatus
	StartDate     *time.Time
	EndDate       *time.Time
}

// ListOccurrencesOutput represents the output of querying occurrences.
type ListOccurrencesOutput struct {
	Occurrences []*entity.PaymentOccurrence
}

// ListOccurrencesUseCase queries occurrences across definitions.
type ListOccurrencesUseCase struct {
	repo adapter.RecurringPaymentRepository
}

// NewListOccurrencesUseCase creates a new ListOccurrencesUseCase instance.
func NewListOccurrencesUseCase(repo adapter.RecurringPaymentRepository) *ListOccurrencesUseCase {
	return &ListOccurrencesUseCase{
		repo: repo,
	}
}

// Execute performs the query.
func (uc *ListOccurrencesUseCase) Execute(ctx context.Context, input ListOccurrencesInput) (*ListOccurrencesOutput, error) {
	var reasons []string
	for _, s := range input.Statuses {
		if !s.IsValid() {
			reasons = append(reasons, "status filter contains an invalid status")
			break
		}
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		reasons = append(reasons, "end date must not be before start date")
	}
	if len(reasons) > 0 {
		return nil, domainerror.NewValidationError(reasons...)
	}

	query := adapter.OccurrenceQuery{
		DefinitionIDs: input.DefinitionIDs,
		Statuses:      input.Statuses,
	}
	if input.StartDate != nil || input.EndDate != nil {
		dateRange := adapter.DateRange{
			Start: valueobject.NewDate(1, time.January, 1),
			End:   valueobject.NewDate(9999, time.December, 31),
		}
		if input.StartDate != nil {
			dateRange.Start = valueobject.DateOf(*input.StartDate)
		}
		if input.EndDate != nil {
			dateRange.End = valueobject.DateOf(*input.EndDate)
		}
		query.DateRange = &dateRange
	}

	occurrences, err := uc.repo.FindOccurrences(ctx, query)
	if err != nil {
		return nil, domainerror.Wrap(err)
	}
	if occurrences == nil {
		occurrences = []*entity.PaymentOccurrence{}
	}

	return &ListOccurrencesOutput{Occurrences: occurrences}, nil
}
