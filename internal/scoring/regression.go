package scoring

import (
	"github.com/felixgeelhaar/testrank/internal/config"
	"github.com/felixgeelhaar/testrank/internal/scenario"
)

// RegressionRisk describes how much the code behind a scenario has been
// changing lately.
type RegressionRisk struct {
	ChurnScore          float64 `json:"churn_score" yaml:"churn_score"`
	RecentChanges       int     `json:"recent_changes" yaml:"recent_changes"`
	DaysSinceLastChange int     `json:"days_since_last_change" yaml:"days_since_last_change"`
}

// AnalyzeRegression reads the per-category churn profile. The table stands
// in for real change history until a VCS-backed provider supplies it.
func AnalyzeRegression(s scenario.Scenario, cfg config.RegressionConfig) RegressionRisk {
	p, ok := config.LookupCategory(cfg.Profiles, s.Category)
	if !ok {
		p = cfg.Default
	}
	return RegressionRisk{
		ChurnScore:          clamp01(p.ChurnScore),
		RecentChanges:       p.RecentChanges,
		DaysSinceLastChange: p.DaysSinceLastChange,
	}
}
