package valueobject

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
)

// PatternKind identifies a DayOfMonthPattern variant.
type PatternKind string

const (
	PatternFixed            PatternKind = "fixed"
	PatternEndOfMonth       PatternKind = "end_of_month"
	PatternEndOfMonthMinus  PatternKind = "end_of_month_minus"
	PatternFirstBusinessDay PatternKind = "first_business_day"
	PatternLastBusinessDay  PatternKind = "last_business_day"
	PatternNthWeekday       PatternKind = "nth_weekday"
	PatternLastWeekday      PatternKind = "last_weekday"
)

// DayOfMonthPattern is an abstract monthly rule that resolves to one date per month.
type DayOfMonthPattern struct {
	Kind    PatternKind
	Day     int // fixed
	Offset  int // end_of_month_minus
	Week    int // nth_weekday, 1-indexed
	Weekday time.Weekday
}

// FixedDay resolves to the given day, clamped to the month length.
func FixedDay(day int) DayOfMonthPattern {
	return DayOfMonthPattern{Kind: PatternFixed, Day: day}
}

// EndOfMonth resolves to the last calendar day.
func EndOfMonth() DayOfMonthPattern {
	return DayOfMonthPattern{Kind: PatternEndOfMonth}
}

// EndOfMonthMinus resolves to the last calendar day minus n days.
func EndOfMonthMinus(n int) DayOfMonthPattern {
	return DayOfMonthPattern{Kind: PatternEndOfMonthMinus, Offset: n}
}

// FirstBusinessDay resolves to the first business day of the month.
func FirstBusinessDay() DayOfMonthPattern {
	return DayOfMonthPattern{Kind: PatternFirstBusinessDay}
}

// LastBusinessDay resolves to the last business day of the month.
func LastBusinessDay() DayOfMonthPattern {
	return DayOfMonthPattern{Kind: PatternLastBusinessDay}
}

// NthWeekday resolves to the week-th occurrence of weekday in the month.
func NthWeekday(week int, weekday time.Weekday) DayOfMonthPattern {
	return DayOfMonthPattern{Kind: PatternNthWeekday, Week: week, Weekday: weekday}
}

// LastWeekday resolves to the final occurrence of weekday in the month.
func LastWeekday(weekday time.Weekday) DayOfMonthPattern {
	return DayOfMonthPattern{Kind: PatternLastWeekday, Weekday: weekday}
}

// Resolve returns the concrete date of the pattern in year/month.
// It fails with ErrPatternUnresolvable when the month has no matching date.
func (p DayOfMonthPattern) Resolve(year int, month time.Month, resolver BusinessDayResolver) (time.Time, error) {
	last := DaysIn(year, month)

	switch p.Kind {
	case PatternFixed:
		day := p.Day
		if day < 1 {
			day = 1
		}
		if day > last {
			day = last
		}
		return NewDate(year, month, day), nil

	case PatternEndOfMonth:
		return NewDate(year, month, last), nil

	case PatternEndOfMonthMinus:
		// May land in the previous month.
		return NewDate(year, month, last).AddDate(0, 0, -p.Offset), nil

	case PatternFirstBusinessDay:
		for day := 1; day <= last; day++ {
			d := NewDate(year, month, day)
			if resolver.IsBusinessDay(d) {
				return d, nil
			}
		}
		return time.Time{}, domainerror.ErrPatternUnresolvable

	case PatternLastBusinessDay:
		for day := last; day >= 1; day-- {
			d := NewDate(year, month, day)
			if resolver.IsBusinessDay(d) {
				return d, nil
			}
		}
		return time.Time{}, domainerror.ErrPatternUnresolvable

	case PatternNthWeekday:
		if p.Week < 1 {
			return time.Time{}, domainerror.ErrPatternUnresolvable
		}
		first := NewDate(year, month, 1)
		offset := (int(p.Weekday) - int(first.Weekday()) + 7) % 7
		day := 1 + offset + 7*(p.Week-1)
		if day > last {
			return time.Time{}, domainerror.ErrPatternUnresolvable
		}
		return NewDate(year, month, day), nil

	case PatternLastWeekday:
		end := NewDate(year, month, last)
		back := (int(end.Weekday()) - int(p.Weekday) + 7) % 7
		return end.AddDate(0, 0, -back), nil
	}

	return time.Time{}, fmt.Errorf("%w: unknown pattern kind %q", domainerror.ErrPatternUnresolvable, p.Kind)
}

// Validate returns the list of problems with the pattern's parameters.
func (p DayOfMonthPattern) Validate() []string {
	var reasons []string
	switch p.Kind {
	case PatternFixed:
		if p.Day < 1 || p.Day > 31 {
			reasons = append(reasons, "fixed day must be between 1 and 31")
		}
	case PatternEndOfMonthMinus:
		if p.Offset < 0 || p.Offset > 27 {
			reasons = append(reasons, "end of month offset must be between 0 and 27")
		}
	case PatternNthWeekday:
		if p.Week < 1 || p.Week > 5 {
			reasons = append(reasons, "week must be between 1 and 5")
		}
		if p.Weekday < time.Sunday || p.Weekday > time.Saturday {
			reasons = append(reasons, "weekday is invalid")
		}
	case PatternLastWeekday:
		if p.Weekday < time.Sunday || p.Weekday > time.Saturday {
			reasons = append(reasons, "weekday is invalid")
		}
	case PatternEndOfMonth, PatternFirstBusinessDay, PatternLastBusinessDay:
	default:
		reasons = append(reasons, fmt.Sprintf("unknown day pattern %q", p.Kind))
	}
	return reasons
}

// String encodes the pattern, e.g. "fixed:15" or "nth_weekday:3:friday".
func (p DayOfMonthPattern) String() string {
	switch p.Kind {
	case PatternFixed:
		return fmt.Sprintf("%s:%d", p.Kind, p.Day)
	case PatternEndOfMonthMinus:
		return fmt.Sprintf("%s:%d", p.Kind, p.Offset)
	case PatternNthWeekday:
		return fmt.Sprintf("%s:%d:%s", p.Kind, p.Week, strings.ToLower(p.Weekday.String()))
	case PatternLastWeekday:
		return fmt.Sprintf("%s:%s", p.Kind, strings.ToLower(p.Weekday.String()))
	default:
		return string(p.Kind)
	}
}

// ParseDayOfMonthPattern decodes the String form of a pattern.
func ParseDayOfMonthPattern(s string) (DayOfMonthPattern, error) {
	parts := strings.Split(strings.TrimSpace(strings.ToLower(s)), ":")
	kind := PatternKind(parts[0])
	args := parts[1:]

	wantArgs := map[PatternKind]int{
		PatternFixed:            1,
		PatternEndOfMonth:       0,
		PatternEndOfMonthMinus:  1,
		PatternFirstBusinessDay: 0,
		PatternLastBusinessDay:  0,
		PatternNthWeekday:       2,
		PatternLastWeekday:      1,
	}
	n, ok := wantArgs[kind]
	if !ok {
		return DayOfMonthPattern{}, fmt.Errorf("unknown day pattern %q", s)
	}
	if len(args) != n {
		return DayOfMonthPattern{}, fmt.Errorf("day pattern %q expects %d argument(s)", kind, n)
	}

	var p DayOfMonthPattern
	switch kind {
	case PatternFixed:
		day, err := strconv.Atoi(args[0])
		if err != nil {
			return DayOfMonthPattern{}, fmt.Errorf("invalid day in %q: %w", s, err)
		}
		p = FixedDay(day)
	case PatternEndOfMonthMinus:
		offset, err := strconv.Atoi(args[0])
		if err != nil {
			return DayOfMonthPattern{}, fmt.Errorf("invalid offset in %q: %w", s, err)
		}
		p = EndOfMonthMinus(offset)
	case PatternNthWeekday:
		week, err := strconv.Atoi(args[0])
		if err != nil {
			return DayOfMonthPattern{}, fmt.Errorf("invalid week in %q: %w", s, err)
		}
		wd, err := ParseWeekday(args[1])
		if err != nil {
			return DayOfMonthPattern{}, err
		}
		p = NthWeekday(week, wd)
	case PatternLastWeekday:
		wd, err := ParseWeekday(args[0])
		if err != nil {
			return DayOfMonthPattern{}, err
		}
		p = LastWeekday(wd)
	default:
		p = DayOfMonthPattern{Kind: kind}
	}

	if reasons := p.Validate(); len(reasons) > 0 {
		return DayOfMonthPattern{}, fmt.Errorf("invalid day pattern %q: %s", s, strings.Join(reasons, "; "))
	}
	return p, nil
}

// ParseWeekday parses an English weekday name ("friday", "Fri").
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if s == name || s == name[:3] {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

// DateAdjustmentPolicy shifts a resolved date off a non-business day.
type DateAdjustmentPolicy string

const (
	AdjustmentNone     DateAdjustmentPolicy = "none"
	AdjustmentPrevious DateAdjustmentPolicy = "previous"
	AdjustmentNext     DateAdjustmentPolicy = "next"
)

// IsValid reports whether the policy is known.
func (p DateAdjustmentPolicy) IsValid() bool {
	switch p {
	case AdjustmentNone, AdjustmentPrevious, AdjustmentNext:
		return true
	}
	return false
}

// Apply shifts date to the nearest earlier or later business day when needed.
func (p DateAdjustmentPolicy) Apply(date time.Time, resolver BusinessDayResolver) time.Time {
	switch p {
	case AdjustmentPrevious:
		return resolver.Shift(date, ShiftBackward)
	case AdjustmentNext:
		return resolver.Shift(date, ShiftForward)
	default:
		return DateOf(date)
	}
}
