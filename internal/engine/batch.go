package engine

import (
	"github.com/felixgeelhaar/testrank/internal/dependency"
	"github.com/felixgeelhaar/testrank/internal/errors"
	"github.com/felixgeelhaar/testrank/internal/exec"
	"github.com/felixgeelhaar/testrank/internal/prioritize"
	"github.com/felixgeelhaar/testrank/internal/risk"
	"github.com/felixgeelhaar/testrank/internal/schedule"
	"github.com/felixgeelhaar/testrank/internal/scenario"
	"github.com/felixgeelhaar/testrank/internal/scoring"
)

// Batch carries every intermediate result of one run. It is created per
// call to Run and never shared, so nothing leaks between runs.
type Batch struct {
	Received  int
	Scenarios []scenario.Scenario
	Rejected  []*errors.RankError
	Warnings  []*errors.RankError

	Stats risk.Stats
	Hints map[string]risk.Suggestion
	Risk  map[string]risk.Assessment

	Business     map[string]scoring.BusinessValue
	ROI          map[string]scoring.ROIEstimate
	ExecTime     map[string]scoring.ExecutionTimeEstimate
	Coverage     map[string]scoring.CoverageImpact
	Regression   map[string]scoring.RegressionRisk
	Dependencies dependency.Result

	Outcomes map[string]exec.Outcome
	Ranked   []prioritize.Scenario
	Schedule schedule.Schedule
}

func (b *Batch) warn(errs ...*errors.RankError) {
	b.Warnings = append(b.Warnings, errs...)
}

// inputs assembles the prioritizer inputs from the batch.
func (b *Batch) inputs() prioritize.Inputs {
	success := make(map[string]float64, len(b.Outcomes))
	for id, o := range b.Outcomes {
		success[id] = o.SuccessRate
	}
	return prioritize.Inputs{
		Scenarios:  b.Scenarios,
		Risk:       b.Risk,
		Business:   b.Business,
		ROI:        b.ROI,
		Coverage:   b.Coverage,
		Regression: b.Regression,
		ExecTime:   b.ExecTime,
		Success:    success,
	}
}

// top returns the n best-ranked scenarios of a preliminary ranking.
func (b *Batch) top(ranked []prioritize.Scenario, n int) []scenario.Scenario {
	byID := make(map[string]scenario.Scenario, len(b.Scenarios))
	for _, s := range b.Scenarios {
		byID[s.ID] = s
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]scenario.Scenario, 0, n)
	for _, p := range ranked[:n] {
		out = append(out, byID[p.ScenarioID])
	}
	return out
}
