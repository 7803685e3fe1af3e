package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// fieldParser converts request fields into domain values, collecting every failure.
type fieldParser struct {
	reasons []string
}

func (p *fieldParser) fail(format string, args ...any) {
	p.reasons = append(p.reasons, fmt.Sprintf(format, args...))
}

func (p *fieldParser) date(field, value string) time.Time {
	if strings.TrimSpace(value) == "" {
		p.fail("%s is required", field)
		return time.Time{}
	}
	d, err := valueobject.ParseDate(value)
	if err != nil {
		p.fail("%s must be a date in YYYY-MM-DD format", field)
		return time.Time{}
	}
	return d
}

func (p *fieldParser) optionalDate(field string, value *string) *time.Time {
	if value == nil {
		return nil
	}
	d := p.date(field, *value)
	if d.IsZero() {
		return nil
	}
	return &d
}

func (p *fieldParser) amount(field, value string) decimal.Decimal {
	if strings.TrimSpace(value) == "" {
		p.fail("%s is required", field)
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		p.fail("%s must be a decimal number", field)
		return decimal.Zero
	}
	return d
}

func (p *fieldParser) optionalAmount(field string, value *string) *decimal.Decimal {
	if value == nil {
		return nil
	}
	before := len(p.reasons)
	d := p.amount(field, *value)
	if len(p.reasons) > before {
		return nil
	}
	return &d
}

func (p *fieldParser) id(field, value string) uuid.UUID {
	id, err := uuid.Parse(value)
	if err != nil {
		p.fail("%s must be a valid UUID", field)
		return uuid.Nil
	}
	return id
}

func (p *fieldParser) optionalID(field string, value *string) *uuid.UUID {
	if value == nil || *value == "" {
		return nil
	}
	before := len(p.reasons)
	id := p.id(field, *value)
	if len(p.reasons) > before {
		return nil
	}
	return &id
}

func (p *fieldParser) ids(field string, values []string) []uuid.UUID {
	if len(values) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		if id, err := uuid.Parse(v); err == nil {
			ids = append(ids, id)
		} else {
			p.fail("%s contains an invalid UUID %q", field, v)
		}
	}
	return ids
}

func (p *fieldParser) pattern(field string, value *string) *valueobject.DayOfMonthPattern {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	pattern, err := valueobject.ParseDayOfMonthPattern(*value)
	if err != nil {
		p.fail("%s: %s", field, err.Error())
		return nil
	}
	return &pattern
}

func (p *fieldParser) err() error {
	if len(p.reasons) == 0 {
		return nil
	}
	return domainerror.NewInvalidRequestError(p.reasons...)
}

// horizonOr returns *value, or fallback when the request omits it.
func horizonOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func formatDate(t time.Time) string {
	return t.Format(valueobject.DateLayout)
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatOptionalAmount(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := formatAmount(*d)
	return &s
}

func formatOptionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
