package scoring

import (
	"github.com/felixgeelhaar/testrank/internal/config"
	"github.com/felixgeelhaar/testrank/internal/scenario"
)

// BusinessValue weighs what a failure in the scenario would cost the business.
type BusinessValue struct {
	RevenueImpact float64 `json:"revenue_impact" yaml:"revenue_impact"`
	UserImpact    float64 `json:"user_impact" yaml:"user_impact"`
	Compliance    float64 `json:"compliance" yaml:"compliance"`
	Reputation    float64 `json:"reputation" yaml:"reputation"`
	TotalValue    float64 `json:"total_value" yaml:"total_value"`
}

// ScoreBusinessValue rates a scenario by revenue exposure of its category,
// user reach, compliance relevance and public visibility.
func ScoreBusinessValue(s scenario.Scenario, bc config.BatchContext, cfg config.BusinessConfig) BusinessValue {
	revenue, ok := config.LookupCategory(cfg.RevenueWeights, s.Category)
	if !ok {
		revenue = cfg.DefaultRevenueWeight
	}

	var users float64
	if cfg.UserBaseline > 0 {
		users = float64(bc.UserCount) / cfg.UserBaseline
	}

	var compliance float64
	if config.MatchesAny(s.Category, cfg.ComplianceKeywords) {
		compliance = 1.0
	}

	reputation := cfg.InternalReputation
	if bc.Public {
		reputation = cfg.PublicReputation
	}

	v := BusinessValue{
		RevenueImpact: clamp01(revenue),
		UserImpact:    clamp01(users),
		Compliance:    compliance,
		Reputation:    clamp01(reputation),
	}
	v.TotalValue = 0.4*v.RevenueImpact + 0.3*v.UserImpact + 0.2*v.Compliance + 0.1*v.Reputation
	return v
}
