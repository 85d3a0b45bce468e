// Package report holds the serialisable result of a ranking run and its
// writers.
package report

import (
	"time"

	"github.com/felixgeelhaar/testrank/internal/dependency"
	"github.com/felixgeelhaar/testrank/internal/errors"
	"github.com/felixgeelhaar/testrank/internal/exec"
	"github.com/felixgeelhaar/testrank/internal/prioritize"
	"github.com/felixgeelhaar/testrank/internal/risk"
	"github.com/felixgeelhaar/testrank/internal/schedule"
	"github.com/felixgeelhaar/testrank/internal/scoring"
)

// Report is everything a run decided about a batch.
type Report struct {
	RunID       string                 `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time              `json:"generated_at" yaml:"generated_at"`
	Fingerprint string                 `json:"fingerprint" yaml:"fingerprint"`
	Summary     Summary                `json:"summary" yaml:"summary"`
	Ranked      []prioritize.Scenario  `json:"ranked" yaml:"ranked"`
	Schedule    schedule.Schedule      `json:"schedule" yaml:"schedule"`
	Assessments map[string]Assessments `json:"assessments" yaml:"assessments"`
	Rejected    []Issue                `json:"rejected,omitempty" yaml:"rejected,omitempty"`
	Warnings    []Issue                `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Summary counts the headline numbers of a run.
type Summary struct {
	Received   int `json:"received" yaml:"received"`
	Ranked     int `json:"ranked" yaml:"ranked"`
	Rejected   int `json:"rejected" yaml:"rejected"`
	Unresolved int `json:"unresolved" yaml:"unresolved"`
	Executed   int `json:"executed" yaml:"executed"`
	Warnings   int `json:"warnings" yaml:"warnings"`
}

// Assessments are the intermediate per-scenario results.
type Assessments struct {
	Risk          risk.Assessment               `json:"risk" yaml:"risk"`
	BusinessValue scoring.BusinessValue         `json:"business_value" yaml:"business_value"`
	ROI           scoring.ROIEstimate           `json:"roi" yaml:"roi"`
	ExecutionTime scoring.ExecutionTimeEstimate `json:"execution_time" yaml:"execution_time"`
	Dependency    dependency.Resolution         `json:"dependency" yaml:"dependency"`
	Coverage      scoring.CoverageImpact        `json:"coverage" yaml:"coverage"`
	Regression    scoring.RegressionRisk        `json:"regression" yaml:"regression"`
	Outcome       *exec.Outcome                 `json:"outcome,omitempty" yaml:"outcome,omitempty"`
}

// Issue is a serialisable rejected record or warning.
type Issue struct {
	Code       string   `json:"code" yaml:"code"`
	ScenarioID string   `json:"scenario_id,omitempty" yaml:"scenario_id,omitempty"`
	Message    string   `json:"message" yaml:"message"`
	Cause      string   `json:"cause,omitempty" yaml:"cause,omitempty"`
	Hints      []string `json:"hints,omitempty" yaml:"hints,omitempty"`
}

// IssueFrom flattens a coded error.
func IssueFrom(e *errors.RankError) Issue {
	i := Issue{
		Code:       string(e.Code),
		ScenarioID: e.ScenarioID,
		Message:    e.Message,
		Hints:      e.Suggestions,
	}
	if e.Cause != nil {
		i.Cause = e.Cause.Error()
	}
	return i
}

// Issues flattens a list of coded errors.
func Issues(errs []*errors.RankError) []Issue {
	if len(errs) == 0 {
		return nil
	}
	out := make([]Issue, len(errs))
	for i, e := range errs {
		out[i] = IssueFrom(e)
	}
	return out
}
