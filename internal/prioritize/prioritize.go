// Package prioritize merges every per-scenario signal into one composite
// score, tier, execution group and rank.
package prioritize

import (
	"sort"
	"strings"

	"github.com/felixgeelhaar/testrank/internal/config"
	"github.com/felixgeelhaar/testrank/internal/domain"
	"github.com/felixgeelhaar/testrank/internal/risk"
	"github.com/felixgeelhaar/testrank/internal/scenario"
	"github.com/felixgeelhaar/testrank/internal/scoring"
)

// Group is the scheduling bucket of a ranked scenario.
type Group string

const (
	GroupCriticalSmoke Group = "critical_smoke"
	GroupCriticalFull  Group = "critical_full"
	GroupHigh          Group = "high"
	GroupMedium        Group = "medium"
	GroupLow           Group = "low"
	GroupFlaky         Group = "flaky"
)

// GroupOrder is the order groups are scheduled in.
var GroupOrder = []Group{GroupCriticalSmoke, GroupCriticalFull, GroupHigh, GroupMedium, GroupLow, GroupFlaky}

// Signals are the normalised [0,1] inputs of the composite score.
type Signals struct {
	Risk       float64 `json:"risk" yaml:"risk"`
	Business   float64 `json:"business" yaml:"business"`
	ROI        float64 `json:"roi" yaml:"roi"`
	Coverage   float64 `json:"coverage" yaml:"coverage"`
	Regression float64 `json:"regression" yaml:"regression"`
	Success    float64 `json:"success" yaml:"success"`
}

// Scenario is a ranked scenario.
type Scenario struct {
	ScenarioID     string             `json:"scenario_id" yaml:"scenario_id"`
	Title          string             `json:"title,omitempty" yaml:"title,omitempty"`
	CompositeScore float64            `json:"composite_score" yaml:"composite_score"`
	Tier           domain.RiskTier    `json:"tier" yaml:"tier"`
	ExecutionGroup Group              `json:"execution_group" yaml:"execution_group"`
	Reliability    domain.Reliability `json:"reliability" yaml:"reliability"`
	Rank           int                `json:"rank" yaml:"rank"`
	Signals        Signals            `json:"signals" yaml:"signals"`
}

// Inputs carries every signal map of a batch, keyed by scenario id.
type Inputs struct {
	Scenarios  []scenario.Scenario
	Risk       map[string]risk.Assessment
	Business   map[string]scoring.BusinessValue
	ROI        map[string]scoring.ROIEstimate
	Coverage   map[string]scoring.CoverageImpact
	Regression map[string]scoring.RegressionRisk
	ExecTime   map[string]scoring.ExecutionTimeEstimate
	// Success holds observed step success rates; absent ids use the
	// configured default.
	Success map[string]float64
}

// Finalize scores, groups and ranks the batch. Scenarios without a risk
// assessment are dropped; all others appear exactly once with ranks 1..N in
// descending composite order. Equal scores keep batch order.
func Finalize(in Inputs, w config.Weights) []Scenario {
	ranked := make([]Scenario, 0, len(in.Scenarios))
	seen := make(map[string]struct{}, len(in.Scenarios))

	for _, s := range in.Scenarios {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		a, ok := in.Risk[s.ID]
		if !ok {
			continue
		}
		seen[s.ID] = struct{}{}
		ranked = append(ranked, score(s, a, in, w))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeScore > ranked[j].CompositeScore
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func score(s scenario.Scenario, a risk.Assessment, in Inputs, w config.Weights) Scenario {
	business := in.Business[s.ID]

	success, observed := in.Success[s.ID]
	if !observed {
		success = w.DefaultSuccessRate
	}

	sig := Signals{
		Risk:       clamp01(a.RPN / domain.MaxRPN),
		Business:   clamp01(business.TotalValue),
		ROI:        ratio(in.ROI[s.ID].ROI, w.ROICeiling),
		Coverage:   ratio(in.Coverage[s.ID].CoverageDelta, w.CoverageCeiling),
		Regression: clamp01(in.Regression[s.ID].ChurnScore),
		Success:    clamp01(success),
	}
	composite := w.Risk*sig.Risk +
		w.Business*sig.Business +
		w.ROI*sig.ROI +
		w.Coverage*sig.Coverage +
		w.Regression*sig.Regression +
		w.Success*sig.Success

	tier := a.Tier
	if business.Compliance >= w.ComplianceOverride {
		tier = domain.TierCritical
	}
	reliability := domain.ReliabilityFor(success)

	return Scenario{
		ScenarioID:     s.ID,
		Title:          s.Title,
		CompositeScore: clamp01(composite),
		Tier:           tier,
		ExecutionGroup: groupFor(tier, in.ExecTime[s.ID].IsFast(), reliability),
		Reliability:    reliability,
		Signals:        sig,
	}
}

func groupFor(tier domain.RiskTier, fast bool, reliability domain.Reliability) Group {
	switch {
	case tier == domain.TierCritical && fast && reliability.Trusted():
		return GroupCriticalSmoke
	case tier == domain.TierCritical:
		return GroupCriticalFull
	case reliability == domain.ReliabilityFlaky:
		return GroupFlaky
	default:
		return Group(strings.ToLower(string(tier)))
	}
}

func ratio(v, ceiling float64) float64 {
	if ceiling <= 0 {
		return 0
	}
	return clamp01(v / ceiling)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
