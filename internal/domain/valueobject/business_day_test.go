package valueobject

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessDayResolver_IsBusinessDay(t *testing.T) {
	resolver := NewBusinessDayResolver(NewHolidaySet(NewDate(2025, time.January, 1)))

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"holiday on a weekday", NewDate(2025, time.January, 1), false},
		{"regular weekday", NewDate(2025, time.January, 2), true},
		{"saturday", NewDate(2025, time.January, 4), false},
		{"sunday", NewDate(2025, time.January, 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.IsBusinessDay(tt.date))
		})
	}
}

func TestBusinessDayResolver_Shift(t *testing.T) {
	resolver := NewBusinessDayResolver(NewHolidaySet(NewDate(2025, time.January, 1)))

	t.Run("walks backward over weekend", func(t *testing.T) {
		assert.Equal(t, NewDate(2025, time.January, 3), resolver.Shift(NewDate(2025, time.January, 4), ShiftBackward))
	})

	t.Run("walks forward over weekend", func(t *testing.T) {
		assert.Equal(t, NewDate(2025, time.January, 6), resolver.Shift(NewDate(2025, time.January, 4), ShiftForward))
	})

	t.Run("walks backward over weekend and holiday", func(t *testing.T) {
		assert.Equal(t, NewDate(2024, time.December, 31), resolver.Shift(NewDate(2025, time.January, 1), ShiftBackward))
	})

	t.Run("business day is returned unchanged", func(t *testing.T) {
		date := NewDate(2025, time.January, 8)
		assert.Equal(t, date, resolver.Shift(date, ShiftForward))
	})
}

func TestCompositeHolidayProvider(t *testing.T) {
	annual, err := ParseAnnualHolidays([]string{"12-25"})
	require.NoError(t, err)
	specific, err := ParseHolidaySet([]string{"2025-04-18"})
	require.NoError(t, err)
	provider := CompositeHolidayProvider{annual, specific}

	assert.True(t, provider.IsHoliday(NewDate(2031, time.December, 25)), "annual holidays match in any year")
	assert.True(t, provider.IsHoliday(NewDate(2025, time.April, 18)))
	assert.False(t, provider.IsHoliday(NewDate(2026, time.April, 18)), "specific holidays match one year only")

	_, err = ParseHolidaySet([]string{"2025-13-01"})
	assert.Error(t, err)
	_, err = ParseAnnualHolidays([]string{"xx-01"})
	assert.Error(t, err)
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		n    int
		want time.Time
	}{
		{"end of january to february", NewDate(2025, time.January, 31), 1, NewDate(2025, time.February, 28)},
		{"leap year", NewDate(2024, time.January, 31), 1, NewDate(2024, time.February, 29)},
		{"across year", NewDate(2024, time.November, 15), 3, NewDate(2025, time.February, 15)},
		{"backwards", NewDate(2025, time.March, 31), -1, NewDate(2025, time.February, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonthsClamped(tt.from, tt.n))
		})
	}
}
