package valueobject

// SavingStrategy is the policy for deriving the monthly accrual toward a future payment.
type SavingStrategy string

const (
	SavingStrategyDisabled          SavingStrategy = "disabled"
	SavingStrategyEvenlyDistributed SavingStrategy = "evenly_distributed"
	SavingStrategyCustomMonthly     SavingStrategy = "custom_monthly"
)

// IsValid reports whether the strategy is known.
func (s SavingStrategy) IsValid() bool {
	switch s {
	case SavingStrategyDisabled, SavingStrategyEvenlyDistributed, SavingStrategyCustomMonthly:
		return true
	}
	return false
}

// RequiresCustomAmount reports whether a custom monthly amount must be provided.
func (s SavingStrategy) RequiresCustomAmount() bool {
	return s == SavingStrategyCustomMonthly
}
