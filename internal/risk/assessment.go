// Package risk scores scenarios with an FMEA-style Risk Priority Number and
// refines those scores from observed execution outcomes.
package risk

import (
	"math"

	"github.com/felixgeelhaar/testrank/internal/config"
	"github.com/felixgeelhaar/testrank/internal/domain"
)

// Source records where an assessment's factors came from.
type Source string

const (
	SourceHeuristic Source = "heuristic"
	SourceAdvisor   Source = "advisor"
)

// Factor bounds for severity, occurrence and detection.
const (
	MinFactor = 1.0
	MaxFactor = 5.0
)

// Assessment is the risk record of one scenario.
type Assessment struct {
	ScenarioID string          `json:"scenario_id" yaml:"scenario_id"`
	Severity   float64         `json:"severity" yaml:"severity"`
	Occurrence float64         `json:"occurrence" yaml:"occurrence"`
	Detection  float64         `json:"detection" yaml:"detection"`
	RPN        float64         `json:"rpn" yaml:"rpn"`
	Tier       domain.RiskTier `json:"tier" yaml:"tier"`
	Source     Source          `json:"source" yaml:"source"`
	Reasoning  string          `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	Refined    bool            `json:"refined" yaml:"refined"`
}

// Triple returns the three FMEA factors.
func (a Assessment) Triple() config.Triple {
	return config.Triple{Severity: a.Severity, Occurrence: a.Occurrence, Detection: a.Detection}
}

// recompute clamps the factors and derives RPN and tier from them.
func (a *Assessment) recompute() {
	a.Severity = clampFactor(a.Severity)
	a.Occurrence = clampFactor(a.Occurrence)
	a.Detection = clampFactor(a.Detection)
	a.RPN = a.Severity * a.Occurrence * a.Detection
	a.Tier = domain.TierForRPN(a.RPN)
}

func clampFactor(v float64) float64 {
	if math.IsNaN(v) {
		return MinFactor
	}
	return math.Max(MinFactor, math.Min(MaxFactor, v))
}
