package saving

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// AccrueMonthlySavingsInput represents the input for a monthly accrual run.
type AccrueMonthlySavingsInput struct {
	Year          int
	Month         time.Month
	DefinitionIDs []uuid.UUID // Optional, defaults to every definition
}

// AccrueMonthlySavingsOutput represents the output of a monthly accrual run.
type AccrueMonthlySavingsOutput struct {
	Recorded int
	Skipped  int
	Balances []*entity.SavingBalance
}

// AccrueMonthlySavingsUseCase records each definition's monthly saving amount once per month.
type AccrueMonthlySavingsUseCase struct {
	repo   adapter.RecurringPaymentRepository
	locker adapter.DefinitionLocker
}

// NewAccrueMonthlySavingsUseCase creates a new AccrueMonthlySavingsUseCase instance.
func NewAccrueMonthlySavingsUseCase(repo adapter.RecurringPaymentRepository, locker adapter.DefinitionLocker) *AccrueMonthlySavingsUseCase {
	return &AccrueMonthlySavingsUseCase{
		repo:   repo,
		locker: locker,
	}
}

// Execute runs the accrual. A definition accrues in a month only when the saving window of
// one of its occurrences, LeadTimeMonths long, touches that month. Definitions with saving
// disabled, ended before the month, or already accrued for it are skipped.
func (uc *AccrueMonthlySavingsUseCase) Execute(ctx context.Context, input AccrueMonthlySavingsInput) (*AccrueMonthlySavingsOutput, error) {
	var reasons []string
	if input.Year < 1 {
		reasons = append(reasons, "year must be positive")
	}
	if input.Month < time.January || input.Month > time.December {
		reasons = append(reasons, "month must be between 1 and 12")
	}
	if len(reasons) > 0 {
		return nil, domainerror.NewValidationError(reasons...)
	}

	definitions, err := uc.repo.FindDefinitions(ctx, adapter.DefinitionFilter{IDs: input.DefinitionIDs})
	if err != nil {
		return nil, domainerror.Wrap(err)
	}

	output := &AccrueMonthlySavingsOutput{Balances: []*entity.SavingBalance{}}
	for _, definition := range definitions {
		balance, recorded, err := uc.accrue(ctx, definition, input.Year, input.Month)
		if err != nil {
			return nil, err
		}
		if !recorded {
			output.Skipped++
			continue
		}
		output.Recorded++
		output.Balances = append(output.Balances, balance)
	}

	slog.InfoContext(ctx, "monthly savings accrued",
		"year", input.Year,
		"month", int(input.Month),
		"recorded", output.Recorded,
		"skipped", output.Skipped,
	)

	return output, nil
}

func (uc *AccrueMonthlySavingsUseCase) accrue(ctx context.Context, definition *entity.PaymentDefinition, year int, month time.Month) (*entity.SavingBalance, bool, error) {
	if !definition.IsSavingEnabled() {
		return nil, false, nil
	}
	monthStart := valueobject.NewDate(year, month, 1)
	monthEnd := valueobject.NewDate(year, month, valueobject.DaysIn(year, month))
	if !definition.IsActiveOn(monthStart) {
		return nil, false, nil
	}
	saving, err := uc.isSavingMonth(ctx, definition, monthStart, monthEnd)
	if err != nil || !saving {
		return nil, false, err
	}

	unlock, err := uc.locker.Lock(ctx, definition.ID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, ctxErr
		}
		return nil, false, domainerror.NewPersistenceError(err)
	}
	defer unlock()

	balance, err := uc.repo.FindBalanceByDefinition(ctx, definition.ID)
	if err != nil {
		if !domainerror.IsNotFound(err) {
			return nil, false, domainerror.Wrap(err)
		}
		return nil, false, nil
	}
	if balance.HasRecordedMonth(year, month) {
		return nil, false, nil
	}

	if err := balance.RecordMonthlySavings(year, month, definition.MonthlySavingAmount()); err != nil {
		return nil, false, err
	}
	if err := uc.repo.SaveBalance(ctx, balance); err != nil {
		return nil, false, domainerror.Wrap(err)
	}
	return balance, true, nil
}

// isSavingMonth reports whether a scheduled, non-cancelled occurrence of definition is being
// saved for during [monthStart, monthEnd].
func (uc *AccrueMonthlySavingsUseCase) isSavingMonth(ctx context.Context, definition *entity.PaymentDefinition, monthStart, monthEnd time.Time) (bool, error) {
	occurrences, err := uc.repo.FindOccurrencesByDefinition(ctx, definition.ID)
	if err != nil {
		return false, domainerror.Wrap(err)
	}
	for _, occ := range occurrences {
		if occ.Status == entity.OccurrenceStatusCancelled {
			continue
		}
		if occ.SavingOverlaps(monthStart, monthEnd, definition.LeadTimeMonths) {
			return true, nil
		}
	}
	return false, nil
}
