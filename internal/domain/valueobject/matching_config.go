// Package valueobject contains domain value objects for the recurring payments engine.
package valueobject

import "github.com/shopspring/decimal"

// MatchingConfig contains the configuration for occurrence-to-transaction candidate scoring.
type MatchingConfig struct {
	// Score weights, summing to 1
	AmountWeight float64 // 0.5
	DateWeight   float64 // 0.3
	TitleWeight  float64 // 0.2

	// Inclusion thresholds: a candidate is kept if any of them holds
	MinimumScore              float64         // 0.2
	AmountDifferenceThreshold decimal.Decimal // 5000, currency-agnostic units

	// Settlement grace: day differences up to this many days do not reduce the date score
	DateGraceDays int // 3

	DefaultWindowDays int // 14
	DefaultLimit      int // 10

	// Confidence thresholds on the final score
	HighConfidenceScore   float64 // 0.8
	MediumConfidenceScore float64 // 0.5
}

// DefaultMatchingConfig returns the default matching configuration.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		AmountWeight:              0.5,
		DateWeight:                0.3,
		TitleWeight:               0.2,
		MinimumScore:              0.2,
		AmountDifferenceThreshold: decimal.NewFromInt(5000),
		DateGraceDays:             3,
		DefaultWindowDays:         14,
		DefaultLimit:              10,
		HighConfidenceScore:       0.8,
		MediumConfidenceScore:     0.5,
	}
}

// IsWithinTolerance checks if the amount difference is within the fixed currency threshold.
func (c MatchingConfig) IsWithinTolerance(expected, actual decimal.Decimal) bool {
	diff := expected.Abs().Sub(actual.Abs()).Abs()
	return diff.LessThanOrEqual(c.AmountDifferenceThreshold)
}

// WindowOrDefault returns windowDays, or the default when it is not positive.
func (c MatchingConfig) WindowOrDefault(windowDays int) int {
	if windowDays <= 0 {
		return c.DefaultWindowDays
	}
	return windowDays
}

// LimitOrDefault returns limit, or the default when it is not positive.
func (c MatchingConfig) LimitOrDefault(limit int) int {
	if limit <= 0 {
		return c.DefaultLimit
	}
	return limit
}
