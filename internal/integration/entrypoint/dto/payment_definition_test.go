package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/recurring-payments/internal/application/usecase/recurringpayment"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func TestCreateRecurringPaymentRequest_ToInput(t *testing.T) {
	t.Run("converts a complete request", func(t *testing.T) {
		categoryID := uuid.New()
		req := CreateRecurringPaymentRequest{
			Name:                     "Car insurance",
			Amount:                   "1200.50",
			RecurrenceIntervalMonths: 12,
			FirstOccurrenceDate:      "2025-03-31",
			EndDate:                  strPtr("2030-03-31"),
			CategoryID:               strPtr(categoryID.String()),
			SavingStrategy:           "evenly_distributed",
			DateAdjustmentPolicy:     "previous",
			DayPattern:               strPtr("last_business_day"),
			ReferenceDate:            strPtr("2025-01-10"),
		}

		input, err := req.ToInput(12)
		require.NoError(t, err)

		assert.Equal(t, "Car insurance", input.Attributes.Name)
		assert.True(t, decimal.RequireFromString("1200.50").Equal(input.Attributes.Amount))
		assert.Equal(t, valueobject.NewDate(2025, time.March, 31), input.Attributes.FirstOccurrenceDate)
		require.NotNil(t, input.Attributes.EndDate)
		assert.Equal(t, valueobject.NewDate(2030, time.March, 31), *input.Attributes.EndDate)
		assert.Equal(t, &categoryID, input.Attributes.CategoryID)
		assert.Equal(t, valueobject.SavingStrategyEvenlyDistributed, input.Attributes.SavingStrategy)
		assert.Equal(t, valueobject.AdjustmentPrevious, input.Attributes.DateAdjustmentPolicy)
		require.NotNil(t, input.Attributes.DayPattern)
		assert.Equal(t, valueobject.PatternLastBusinessDay, input.Attributes.DayPattern.Kind)
		assert.Equal(t, 12, input.HorizonMonths)
		require.NotNil(t, input.ReferenceDate)
		assert.Equal(t, valueobject.NewDate(2025, time.January, 10), *input.ReferenceDate)
	})

	t.Run("explicit horizon overrides the default", func(t *testing.T) {
		req := CreateRecurringPaymentRequest{
			Amount:              "10",
			FirstOccurrenceDate: "2025-01-01",
			HorizonMonths:       intPtr(3),
		}

		input, err := req.ToInput(12)
		require.NoError(t, err)
		assert.Equal(t, 3, input.HorizonMonths)
	})

	t.Run("collects every malformed field", func(t *testing.T) {
		req := CreateRecurringPaymentRequest{
			Amount:              "ten",
			FirstOccurrenceDate: "01/02/2025",
			DayPattern:          strPtr("nth_weekday:9:friday"),
		}

		_, err := req.ToInput(12)

		var rpErr *domainerror.RecurringPaymentError
		require.True(t, errors.As(err, &rpErr))
		assert.Equal(t, domainerror.ErrCodeInvalidRequest, rpErr.Code)
		assert.Len(t, rpErr.Messages(), 3)
	})
}

func TestUpdateRecurringPaymentRequest_ToInput(t *testing.T) {
	id := uuid.New()
	req := UpdateRecurringPaymentRequest{
		Amount:          strPtr("99.90"),
		SavingStrategy:  strPtr("disabled"),
		ClearEndDate:    true,
		ClearDayPattern: true,
	}

	input, err := req.ToInput(id, 6)
	require.NoError(t, err)

	assert.Equal(t, id, input.DefinitionID)
	require.NotNil(t, input.Amount)
	assert.Equal(t, "99.9", input.Amount.String())
	require.NotNil(t, input.SavingStrategy)
	assert.Equal(t, valueobject.SavingStrategyDisabled, *input.SavingStrategy)
	assert.Nil(t, input.DateAdjustmentPolicy)
	assert.True(t, input.ClearEndDate)
	assert.True(t, input.ClearDayPattern)
	assert.Equal(t, 6, input.HorizonMonths)
}

func TestToRecurringPaymentDetailsResponse(t *testing.T) {
	pattern := valueobject.NthWeekday(2, time.Tuesday)
	def := entity.NewPaymentDefinition(entity.PaymentDefinitionAttributes{
		Name:                     "Gym",
		Amount:                   decimal.NewFromInt(90),
		RecurrenceIntervalMonths: 3,
		FirstOccurrenceDate:      valueobject.NewDate(2025, time.February, 11),
		SavingStrategy:           valueobject.SavingStrategyEvenlyDistributed,
		DayPattern:               &pattern,
	})
	balance := entity.NewSavingBalance(def.ID)
	next := entity.NewPaymentOccurrence(def.ID, def.FirstOccurrenceDate, def.Amount)

	response := ToRecurringPaymentDetailsResponse(def, balance, next, nil)

	assert.Equal(t, "90.00", response.Definition.Amount)
	assert.Equal(t, "30.00", response.Definition.MonthlySavingAmount)
	assert.Equal(t, "2025-02-11", response.Definition.FirstOccurrenceDate)
	require.NotNil(t, response.Definition.DayPattern)
	assert.Equal(t, "nth_weekday:2:tuesday", *response.Definition.DayPattern)
	require.NotNil(t, response.Balance)
	assert.Equal(t, "0.00", response.Balance.Balance)
	require.NotNil(t, response.NextOccurrence)
	assert.Equal(t, "planned", response.NextOccurrence.Status)
	assert.Nil(t, response.Occurrences)

	summary := ToSynchronizationSummaryResponse(recurringpayment.SynchronizationSummary{
		DefinitionID: def.ID,
		CreatedCount: 4,
	})
	assert.Equal(t, def.ID.String(), summary.DefinitionID)
	assert.Equal(t, 4, summary.Created)
}
