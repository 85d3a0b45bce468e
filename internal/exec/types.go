package exec

import (
	"context"

	"github.com/felixgeelhaar/testrank/internal/domain"
	"github.com/felixgeelhaar/testrank/internal/scenario"
)

// RealExecutor drives a scenario against the application under test.
// Implementations own browser processes and retries; the engine never
// assumes success and treats an error or nil result as "no outcome".
type RealExecutor interface {
	Execute(ctx context.Context, s scenario.Scenario) (*Result, error)
}

// Result is what a RealExecutor reports for one run.
type Result struct {
	PassedSteps int    `json:"passed_steps"`
	TotalSteps  int    `json:"total_steps"`
	Result      string `json:"result"`
	TierUsed    string `json:"tier_used"`
}

// Outcome is an observed execution result attached to a scenario.
type Outcome struct {
	ScenarioID  string             `json:"scenario_id" yaml:"scenario_id"`
	PassedSteps int                `json:"passed_steps" yaml:"passed_steps"`
	TotalSteps  int                `json:"total_steps" yaml:"total_steps"`
	SuccessRate float64            `json:"success_rate" yaml:"success_rate"`
	Result      string             `json:"result,omitempty" yaml:"result,omitempty"`
	TierUsed    string             `json:"tier_used,omitempty" yaml:"tier_used,omitempty"`
	Reliability domain.Reliability `json:"reliability" yaml:"reliability"`
}

// NewOutcome derives the success rate and reliability tier from step counts.
// A run with no steps has a success rate of 0.
func NewOutcome(id string, r Result) Outcome {
	passed := r.PassedSteps
	if passed < 0 {
		passed = 0
	}
	if r.TotalSteps > 0 && passed > r.TotalSteps {
		passed = r.TotalSteps
	}

	rate := 0.0
	if r.TotalSteps > 0 {
		rate = float64(passed) / float64(r.TotalSteps)
	}

	return Outcome{
		ScenarioID:  id,
		PassedSteps: passed,
		TotalSteps:  r.TotalSteps,
		SuccessRate: rate,
		Result:      r.Result,
		TierUsed:    r.TierUsed,
		Reliability: domain.ReliabilityFor(rate),
	}
}
