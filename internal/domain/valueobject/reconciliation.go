package valueobject

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Confidence represents the confidence level of a candidate match.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// CandidateTarget describes the scheduled occurrence candidates are scored against.
type CandidateTarget struct {
	Name           string
	ScheduledDate  time.Time
	ExpectedAmount decimal.Decimal
}

// CandidateSource describes one transaction being scored.
type CandidateSource struct {
	TransactionID uuid.UUID
	Date          time.Time
	Title         string
	Amount        decimal.Decimal // signed, as stored
}

// TransactionCandidate represents a scored transaction proposed for an occurrence.
type TransactionCandidate struct {
	TransactionID    uuid.UUID
	Date             time.Time
	Title            string
	Amount           decimal.Decimal // absolute value
	AmountDifference decimal.Decimal // absolute value
	DayDifference    int             // absolute value
	AmountScore      float64
	DateScore        float64
	TitleScore       float64
	Score            float64 // 0-1.0
	TitleMatched     bool
	IsCurrentLink    bool
	Confidence       Confidence
}

// ScoreCandidate computes the weighted score of a transaction against an occurrence.
func ScoreCandidate(config MatchingConfig, target CandidateTarget, source CandidateSource, windowDays int) TransactionCandidate {
	windowDays = config.WindowOrDefault(windowDays)

	amount := source.Amount.Abs()
	expected := target.ExpectedAmount.Abs()
	amountDiff := expected.Sub(amount).Abs()

	amountScore := 1.0
	if !expected.IsZero() {
		ratio := amountDiff.Div(expected).InexactFloat64()
		amountScore = 1 - math.Min(1, ratio)
	}

	dayDiff := DaysBetween(target.ScheduledDate, source.Date)
	if dayDiff < 0 {
		dayDiff = -dayDiff
	}
	// Without a title match the best possible score is AmountWeight+DateWeight (0.8), so a
	// payment that settles a couple of days late has to keep a full date score to still rank
	// as high confidence. The grace absorbs that settlement delay before the window scaling.
	effectiveDays := dayDiff - config.DateGraceDays
	if effectiveDays < 0 {
		effectiveDays = 0
	}
	dateScore := 1 - math.Min(1, float64(effectiveDays)/float64(windowDays))

	titleMatched := TitlesMatch(target.Name, source.Title)
	titleScore := 0.0
	if titleMatched {
		titleScore = 1.0
	}

	score := config.AmountWeight*amountScore + config.DateWeight*dateScore + config.TitleWeight*titleScore
	score = math.Max(0, math.Min(1, score))
	// Absorb float noise so 0.8 stays 0.8.
	score = math.Round(score*1e6) / 1e6

	candidate := TransactionCandidate{
		TransactionID:    source.TransactionID,
		Date:             DateOf(source.Date),
		Title:            source.Title,
		Amount:           amount,
		AmountDifference: amountDiff,
		DayDifference:    dayDiff,
		AmountScore:      amountScore,
		DateScore:        dateScore,
		TitleScore:       titleScore,
		Score:            score,
		TitleMatched:     titleMatched,
	}
	candidate.Confidence = CalculateConfidence(config, score)
	return candidate
}

// IsWithinBounds reports whether the candidate passes the inclusion threshold.
func (c TransactionCandidate) IsWithinBounds(config MatchingConfig) bool {
	return c.Score >= config.MinimumScore ||
		c.TitleMatched ||
		c.AmountDifference.LessThanOrEqual(config.AmountDifferenceThreshold)
}

// TitlesMatch reports whether the lowercased name and title contain one another.
func TitlesMatch(name, title string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	t := strings.ToLower(strings.TrimSpace(title))
	if n == "" || t == "" {
		return false
	}
	return strings.Contains(n, t) || strings.Contains(t, n)
}

// CalculateConfidence determines the confidence level for a candidate score.
func CalculateConfidence(config MatchingConfig, score float64) Confidence {
	switch {
	case score >= config.HighConfidenceScore:
		return ConfidenceHigh
	case score >= config.MediumConfidenceScore:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// LessCandidate orders candidates by descending score, then ascending amount
// difference, then ascending day difference.
func LessCandidate(a, b TransactionCandidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if cmp := a.AmountDifference.Cmp(b.AmountDifference); cmp != 0 {
		return cmp < 0
	}
	return a.DayDifference < b.DayDifference
}
