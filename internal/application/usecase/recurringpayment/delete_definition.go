package recurringpayment

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
)

// DeleteDefinitionInput represents the input for payment definition deletion.
type DeleteDefinitionInput struct {
	DefinitionID uuid.UUID
}

// DeleteDefinitionOutput represents the output of payment definition deletion.
type DeleteDefinitionOutput struct {
	Success bool
}

// DeleteDefinitionUseCase deletes a definition with its occurrences and balance.
type DeleteDefinitionUseCase struct {
	repo   adapter.RecurringPaymentRepository
	locker adapter.DefinitionLocker
}

// NewDeleteDefinitionUseCase creates a new DeleteDefinitionUseCase instance.
func NewDeleteDefinitionUseCase(repo adapter.RecurringPaymentRepository, locker adapter.DefinitionLocker) *DeleteDefinitionUseCase {
	return &DeleteDefinitionUseCase{
		repo:   repo,
		locker: locker,
	}
}

// Execute performs the deletion.
func (uc *DeleteDefinitionUseCase) Execute(ctx context.Context, input DeleteDefinitionInput) (*DeleteDefinitionOutput, error) {
	unlock, err := lockDefinition(ctx, uc.locker, input.DefinitionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := uc.repo.FindDefinitionByID(ctx, input.DefinitionID); err != nil {
		return nil, domainerror.Wrap(err)
	}

	if err := uc.repo.DeleteDefinition(context.WithoutCancel(ctx), input.DefinitionID); err != nil {
		return nil, domainerror.Wrap(err)
	}

	slog.InfoContext(ctx, "payment definition deleted", "definition_id", input.DefinitionID.String())

	return &DeleteDefinitionOutput{
		Success: true,
	}, nil
}
