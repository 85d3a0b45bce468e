package domain

// RiskTier buckets a Risk Priority Number.
type RiskTier string

const (
	TierCritical RiskTier = "CRITICAL"
	TierHigh     RiskTier = "HIGH"
	TierMedium   RiskTier = "MEDIUM"
	TierLow      RiskTier = "LOW"
)

// RPN bounds and tier thresholds.
const (
	MinRPN = 1.0
	MaxRPN = 125.0

	criticalRPN = 80.0
	highRPN     = 50.0
	mediumRPN   = 20.0
)

// TierForRPN maps an RPN onto its tier using the fixed 80/50/20 thresholds.
func TierForRPN(rpn float64) RiskTier {
	switch {
	case rpn >= criticalRPN:
		return TierCritical
	case rpn >= highRPN:
		return TierHigh
	case rpn >= mediumRPN:
		return TierMedium
	default:
		return TierLow
	}
}

// String returns the string representation
func (t RiskTier) String() string {
	return string(t)
}

// Reliability classifies a scenario by its observed step success rate.
type Reliability string

const (
	ReliabilityHigh   Reliability = "high"
	ReliabilityMedium Reliability = "medium"
	ReliabilityLow    Reliability = "low"
	ReliabilityFlaky  Reliability = "flaky"
)

// ReliabilityFor maps a success rate onto its reliability tier.
func ReliabilityFor(successRate float64) Reliability {
	switch {
	case successRate >= 0.9:
		return ReliabilityHigh
	case successRate >= 0.7:
		return ReliabilityMedium
	case successRate >= 0.5:
		return ReliabilityLow
	default:
		return ReliabilityFlaky
	}
}

// Trusted reports whether a scenario is stable enough for a smoke run.
func (r Reliability) Trusted() bool {
	return r == ReliabilityHigh || r == ReliabilityMedium
}
