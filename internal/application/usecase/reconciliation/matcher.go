// Package reconciliation contains occurrence-to-transaction matching and linking use cases.
package reconciliation

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// CandidateWindow returns the date range transactions are drawn from for an occurrence.
// The range never extends past currentDate; ok is false when it is empty.
func CandidateWindow(scheduledDate time.Time, windowDays int, currentDate time.Time) (window adapter.DateRange, ok bool) {
	scheduled := valueobject.DateOf(scheduledDate)
	start := scheduled.AddDate(0, 0, -windowDays)
	end := scheduled.AddDate(0, 0, windowDays)
	if current := valueobject.DateOf(currentDate); current.Before(end) {
		end = current
	}
	if end.Before(start) {
		return adapter.DateRange{}, false
	}
	return adapter.DateRange{Start: start, End: end}, true
}

// TransactionCandidates scores transactions against an occurrence and returns the best
// matches. linkedLookup maps a transaction ID to the occurrence it is linked to.
// Transactions dated after currentDate are never returned.
func TransactionCandidates(
	config valueobject.MatchingConfig,
	occurrence *entity.PaymentOccurrence,
	definition *entity.PaymentDefinition,
	transactions []*entity.Transaction,
	linkedLookup map[uuid.UUID]uuid.UUID,
	windowDays int,
	limit int,
	currentDate time.Time,
) []valueobject.TransactionCandidate {
	windowDays = config.WindowOrDefault(windowDays)
	limit = config.LimitOrDefault(limit)
	window, hasWindow := CandidateWindow(occurrence.ScheduledDate, windowDays, currentDate)

	target := valueobject.CandidateTarget{
		Name:           definition.Name,
		ScheduledDate:  occurrence.ScheduledDate,
		ExpectedAmount: occurrence.ExpectedAmount,
	}

	today := valueobject.DateOf(currentDate)
	candidates := make([]valueobject.TransactionCandidate, 0, len(transactions))
	seen := make(map[uuid.UUID]struct{}, len(transactions))
	for _, tx := range transactions {
		if _, dup := seen[tx.ID]; dup {
			continue
		}
		seen[tx.ID] = struct{}{}

		isCurrent := occurrence.LinkedTransactionID != nil && *occurrence.LinkedTransactionID == tx.ID
		if owner, linked := linkedLookup[tx.ID]; linked {
			if owner != occurrence.ID {
				continue
			}
			isCurrent = true
		}

		// The current link bypasses the window and score bounds but not the currentDate cap.
		if valueobject.DateOf(tx.Date).After(today) {
			continue
		}
		if !isCurrent {
			if !tx.IsExpense() || !tx.IsCalculationEligible() {
				continue
			}
			if !hasWindow || !window.Contains(valueobject.DateOf(tx.Date)) {
				continue
			}
		}

		candidate := valueobject.ScoreCandidate(config, target, valueobject.CandidateSource{
			TransactionID: tx.ID,
			Date:          tx.Date,
			Title:         tx.Description,
			Amount:        tx.Amount,
		}, windowDays)
		candidate.IsCurrentLink = isCurrent

		if !isCurrent && !candidate.IsWithinBounds(config) {
			continue
		}
		candidates = append(candidates, candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return valueobject.LessCandidate(candidates[i], candidates[j])
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
