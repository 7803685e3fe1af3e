// Package recurringpayment contains recurring payment scheduling and synchronization use cases.
package recurringpayment

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// maxPeriods bounds the number of periods generated for one definition.
const maxPeriods = 1200

// ExpectedOccurrence is one period the definition should have an occurrence for.
// PeriodEnd is the next period's start, so adjacent periods never overlap or leave a gap.
type ExpectedOccurrence struct {
	ScheduledDate  time.Time
	ExpectedAmount decimal.Decimal
	PeriodStart    time.Time
	PeriodEnd      time.Time
}

// SynchronizationPlan is the diff between a definition's expected and stored occurrences.
type SynchronizationPlan struct {
	Expected    []ExpectedOccurrence
	Created     []*entity.PaymentOccurrence
	Updated     []*entity.PaymentOccurrence
	Removed     []*entity.PaymentOccurrence
	Occurrences []*entity.PaymentOccurrence // locked, matched and created, sorted by date
}

// Changes returns the write set of the plan.
func (p *SynchronizationPlan) Changes() adapter.SynchronizationChanges {
	return adapter.SynchronizationChanges{
		Created: p.Created,
		Updated: p.Updated,
		Removed: p.Removed,
	}
}

// IsEmpty reports whether applying the plan changes nothing.
func (p *SynchronizationPlan) IsEmpty() bool {
	return p.Changes().IsEmpty()
}

// Scheduler builds synchronization plans. It holds no mutable state and is safe for concurrent use.
type Scheduler struct {
	resolver valueobject.BusinessDayResolver
	backfill bool
}

// NewScheduler creates a Scheduler. When backfillFromFirstOccurrence is false, generation
// starts at the first period scheduled on or after the reference date.
func NewScheduler(resolver valueobject.BusinessDayResolver, backfillFromFirstOccurrence bool) *Scheduler {
	return &Scheduler{
		resolver: resolver,
		backfill: backfillFromFirstOccurrence,
	}
}

// Resolver returns the business day resolver used by the scheduler.
func (s *Scheduler) Resolver() valueobject.BusinessDayResolver {
	return s.resolver
}

// ExpectedOccurrences lists the periods of def scheduled up to referenceDate plus horizonMonths,
// bounded by the definition's end date.
func (s *Scheduler) ExpectedOccurrences(def *entity.PaymentDefinition, referenceDate time.Time, horizonMonths int) ([]ExpectedOccurrence, error) {
	if def.RecurrenceIntervalMonths <= 0 {
		return nil, domainerror.NewInvalidRecurrenceError()
	}
	if horizonMonths < 0 {
		return nil, domainerror.NewInvalidHorizonError()
	}

	ref := valueobject.DateOf(referenceDate)
	limit := valueobject.AddMonthsClamped(ref, horizonMonths)
	if def.EndDate != nil && def.EndDate.Before(limit) {
		limit = *def.EndDate
	}

	var starts []time.Time
	var amounts []decimal.Decimal
	var next time.Time
	haveNext := false

	for k := 0; k < maxPeriods; k++ {
		monthStart := s.periodMonth(def, k)
		// Patterns resolve at most a month back from the period's month.
		if valueobject.AddMonthsClamped(monthStart, -1).After(limit) {
			break
		}

		raw, ok, err := s.rawDate(def, monthStart)
		if err != nil {
			return nil, err
		}
		if !ok || raw.Before(def.FirstOccurrenceDate) {
			continue
		}
		start := def.DateAdjustmentPolicy.Apply(raw, s.resolver)

		if raw.After(limit) {
			next, haveNext = start, true
			break
		}
		if !s.backfill && start.Before(ref) {
			continue
		}
		if n := len(starts); n > 0 && !start.After(starts[n-1]) {
			continue
		}
		starts = append(starts, start)
		amounts = append(amounts, def.Amount)
	}

	if len(starts) == 0 {
		return nil, nil
	}
	if !haveNext || !next.After(starts[len(starts)-1]) {
		var err error
		next, err = s.nextStartAfter(def, starts[len(starts)-1])
		if err != nil {
			return nil, err
		}
	}

	expected := make([]ExpectedOccurrence, len(starts))
	for i, start := range starts {
		end := next
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		expected[i] = ExpectedOccurrence{
			ScheduledDate:  start,
			ExpectedAmount: amounts[i],
			PeriodStart:    start,
			PeriodEnd:      end,
		}
	}
	return expected, nil
}

// Plan diffs the expected occurrences against the stored ones. Matched occurrences whose
// amount changed, or whose saving window opened by referenceDate, are updated in place;
// locked occurrences are never touched.
func (s *Scheduler) Plan(def *entity.PaymentDefinition, existing []*entity.PaymentOccurrence, referenceDate time.Time, horizonMonths int) (*SynchronizationPlan, error) {
	expected, err := s.ExpectedOccurrences(def, referenceDate, horizonMonths)
	if err != nil {
		return nil, err
	}

	sorted := append([]*entity.PaymentOccurrence(nil), existing...)
	sortOccurrences(sorted)

	ref := valueobject.DateOf(referenceDate)
	plan := &SynchronizationPlan{Expected: expected}
	if len(expected) == 0 {
		plan.Occurrences = sorted
		return plan, nil
	}

	lockedDates := make(map[time.Time]struct{})
	open := make(map[time.Time][]*entity.PaymentOccurrence)
	var openOrder []time.Time
	for _, occ := range sorted {
		key := valueobject.DateOf(occ.ScheduledDate)
		if occ.IsSchedulingLocked() {
			lockedDates[key] = struct{}{}
			plan.Occurrences = append(plan.Occurrences, occ)
			continue
		}
		if _, seen := open[key]; !seen {
			openOrder = append(openOrder, key)
		}
		open[key] = append(open[key], occ)
	}

	for _, e := range expected {
		key := valueobject.DateOf(e.ScheduledDate)
		if _, locked := lockedDates[key]; locked {
			continue
		}
		if candidates := open[key]; len(candidates) > 0 {
			occ := candidates[0]
			open[key] = candidates[1:]
			changed := occ.BeginSaving(ref, def.LeadTimeMonths)
			if !occ.ExpectedAmount.Equal(e.ExpectedAmount) {
				occ.ExpectedAmount = e.ExpectedAmount
				occ.UpdatedAt = time.Now().UTC()
				changed = true
			}
			if changed {
				plan.Updated = append(plan.Updated, occ)
			}
			plan.Occurrences = append(plan.Occurrences, occ)
			continue
		}
		occ := entity.NewPaymentOccurrence(def.ID, e.ScheduledDate, e.ExpectedAmount)
		occ.BeginSaving(ref, def.LeadTimeMonths)
		plan.Created = append(plan.Created, occ)
		plan.Occurrences = append(plan.Occurrences, occ)
	}

	for _, key := range openOrder {
		plan.Removed = append(plan.Removed, open[key]...)
	}

	sortOccurrences(plan.Occurrences)
	return plan, nil
}

// periodMonth returns the first day of the k-th period's month.
func (s *Scheduler) periodMonth(def *entity.PaymentDefinition, k int) time.Time {
	y, m, _ := def.FirstOccurrenceDate.Date()
	return valueobject.NewDate(y, m+time.Month(k*def.RecurrenceIntervalMonths), 1)
}

// rawDate resolves the unadjusted date of the period in monthStart's month.
// ok is false when the pattern has no date in that month.
func (s *Scheduler) rawDate(def *entity.PaymentDefinition, monthStart time.Time) (time.Time, bool, error) {
	y, m, _ := monthStart.Date()
	if def.DayPattern == nil {
		day := def.FirstOccurrenceDate.Day()
		if last := valueobject.DaysIn(y, m); day > last {
			day = last
		}
		return valueobject.NewDate(y, m, day), true, nil
	}

	date, err := def.DayPattern.Resolve(y, m, s.resolver)
	if errors.Is(err, domainerror.ErrPatternUnresolvable) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return date, true, nil
}

// nextStartAfter returns the adjusted start of the first period after last.
func (s *Scheduler) nextStartAfter(def *entity.PaymentDefinition, last time.Time) (time.Time, error) {
	for k := 0; k < maxPeriods; k++ {
		raw, ok, err := s.rawDate(def, s.periodMonth(def, k))
		if err != nil {
			return time.Time{}, err
		}
		if !ok || raw.Before(def.FirstOccurrenceDate) {
			continue
		}
		if start := def.DateAdjustmentPolicy.Apply(raw, s.resolver); start.After(last) {
			return start, nil
		}
	}
	return last, nil
}

func sortOccurrences(occurrences []*entity.PaymentOccurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].ScheduledDate.Before(occurrences[j].ScheduledDate)
	})
}
