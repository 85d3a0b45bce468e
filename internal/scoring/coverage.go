package scoring

import (
	"github.com/felixgeelhaar/testrank/internal/config"
	"github.com/felixgeelhaar/testrank/internal/scenario"
)

// Gap priorities.
const (
	GapHigh   = "high"
	GapMedium = "medium"
	GapLow    = "low"
)

// CoverageImpact estimates how much coverage a scenario adds.
type CoverageImpact struct {
	CoverageDelta float64 `json:"coverage_delta" yaml:"coverage_delta"`
	CoversNewCode bool    `json:"covers_new_code" yaml:"covers_new_code"`
	GapPriority   string  `json:"gap_priority" yaml:"gap_priority"`
}

// AnalyzeCoverage tiers the coverage gain by category and ranks the gap by
// the application's current aggregate coverage.
func AnalyzeCoverage(s scenario.Scenario, bc config.BatchContext, cfg config.CoverageConfig) CoverageImpact {
	delta := cfg.DefaultDelta
	switch {
	case config.MatchesAny(s.Category, cfg.HighImpactCategories):
		delta = cfg.HighImpactDelta
	case config.MatchesAny(s.Category, cfg.MediumImpactCategories):
		delta = cfg.MediumImpactDelta
	}

	gap := GapLow
	switch {
	case bc.CurrentCoverage < cfg.GapHighBelow:
		gap = GapHigh
	case bc.CurrentCoverage < cfg.GapMediumBelow:
		gap = GapMedium
	}

	return CoverageImpact{
		CoverageDelta: delta,
		CoversNewCode: delta >= cfg.NewCodeThreshold,
		GapPriority:   gap,
	}
}
