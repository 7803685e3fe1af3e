package valueobject

import (
	"fmt"
	"time"
)

// maxShiftDays bounds the day-by-day walk of BusinessDayResolver.Shift.
const maxShiftDays = 366

// HolidayProvider reports whether a calendar date is a public holiday.
type HolidayProvider interface {
	IsHoliday(date time.Time) bool
}

// HolidaySet is a set of specific holiday dates.
type HolidaySet map[time.Time]struct{}

// NewHolidaySet builds a HolidaySet from dates. Times are truncated to their calendar day.
func NewHolidaySet(dates ...time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[DateOf(d)] = struct{}{}
	}
	return set
}

// ParseHolidaySet builds a HolidaySet from YYYY-MM-DD strings.
func ParseHolidaySet(values []string) (HolidaySet, error) {
	set := make(HolidaySet, len(values))
	for _, v := range values {
		d, err := ParseDate(v)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", v, err)
		}
		set[d] = struct{}{}
	}
	return set, nil
}

// IsHoliday implements HolidayProvider.
func (s HolidaySet) IsHoliday(date time.Time) bool {
	_, ok := s[DateOf(date)]
	return ok
}

// monthDay identifies a day of the year independently of the year.
type monthDay struct {
	month time.Month
	day   int
}

// AnnualHolidays contains holidays that fall on the same month and day every year.
type AnnualHolidays map[monthDay]struct{}

// ParseAnnualHolidays builds AnnualHolidays from MM-DD strings.
func ParseAnnualHolidays(values []string) (AnnualHolidays, error) {
	set := make(AnnualHolidays, len(values))
	for _, v := range values {
		t, err := time.Parse("01-02", v)
		if err != nil {
			return nil, fmt.Errorf("invalid annual holiday %q: %w", v, err)
		}
		set[monthDay{month: t.Month(), day: t.Day()}] = struct{}{}
	}
	return set, nil
}

// IsHoliday implements HolidayProvider.
func (a AnnualHolidays) IsHoliday(date time.Time) bool {
	_, ok := a[monthDay{month: date.Month(), day: date.Day()}]
	return ok
}

// CompositeHolidayProvider is the union of several providers.
type CompositeHolidayProvider []HolidayProvider

// IsHoliday implements HolidayProvider.
func (c CompositeHolidayProvider) IsHoliday(date time.Time) bool {
	for _, p := range c {
		if p != nil && p.IsHoliday(date) {
			return true
		}
	}
	return false
}

// ShiftDirection is the direction BusinessDayResolver.Shift walks in.
type ShiftDirection int

const (
	ShiftBackward ShiftDirection = -1
	ShiftForward  ShiftDirection = 1
)

// BusinessDayResolver decides whether a date is a business day.
// Weekends and the provider's holidays are non-business days.
type BusinessDayResolver struct {
	holidays HolidayProvider
}

// NewBusinessDayResolver creates a resolver. A nil provider means weekends only.
func NewBusinessDayResolver(holidays HolidayProvider) BusinessDayResolver {
	return BusinessDayResolver{holidays: holidays}
}

// IsBusinessDay reports whether date is neither a weekend nor a holiday.
func (r BusinessDayResolver) IsBusinessDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	if r.holidays != nil && r.holidays.IsHoliday(date) {
		return false
	}
	return true
}

// Shift returns date itself when it is a business day, otherwise the nearest business day
// in the given direction.
func (r BusinessDayResolver) Shift(date time.Time, direction ShiftDirection) time.Time {
	d := DateOf(date)
	step := int(direction)
	if step == 0 {
		return d
	}
	for i := 0; i < maxShiftDays; i++ {
		if r.IsBusinessDay(d) {
			return d
		}
		d = d.AddDate(0, 0, step)
	}
	return DateOf(date)
}
