// Package schedule turns a ranked batch into a smoke subset, parallel
// groups and timing estimates.
package schedule

import (
	"github.com/felixgeelhaar/testrank/internal/dependency"
	"github.com/felixgeelhaar/testrank/internal/prioritize"
	"github.com/felixgeelhaar/testrank/internal/scoring"
)

// DefaultWorkers is the worker count used when none is configured.
const DefaultWorkers = 3

// ParallelGroup lists the parallel-eligible scenarios of one execution group.
type ParallelGroup struct {
	Group       prioritize.Group `json:"group" yaml:"group"`
	ScenarioIDs []string         `json:"scenario_ids" yaml:"scenario_ids"`
}

// Schedule is the execution plan of a batch. Times are in seconds.
type Schedule struct {
	SmokeTests            []string        `json:"smoke_tests" yaml:"smoke_tests"`
	ParallelGroups        []ParallelGroup `json:"parallel_groups" yaml:"parallel_groups"`
	EstimatedTotalTime    float64         `json:"estimated_total_time" yaml:"estimated_total_time"`
	EstimatedParallelTime float64         `json:"estimated_parallel_time" yaml:"estimated_parallel_time"`
	Workers               int             `json:"workers" yaml:"workers"`
}

// Build derives the schedule from the ranked list. Smoke tests and group
// members keep rank order; groups follow prioritize.GroupOrder and empty
// groups are left out. The parallel estimate divides the total time across
// workers only when something can run in parallel.
func Build(ranked []prioritize.Scenario, resolutions map[string]dependency.Resolution, times map[string]scoring.ExecutionTimeEstimate, workers int) Schedule {
	if workers < 1 {
		workers = DefaultWorkers
	}
	sched := Schedule{
		SmokeTests:     []string{},
		ParallelGroups: []ParallelGroup{},
		Workers:        workers,
	}

	buckets := make(map[prioritize.Group][]string)
	for _, p := range ranked {
		if p.ExecutionGroup == prioritize.GroupCriticalSmoke {
			sched.SmokeTests = append(sched.SmokeTests, p.ScenarioID)
		}
		if resolutions[p.ScenarioID].CanRunParallel {
			buckets[p.ExecutionGroup] = append(buckets[p.ExecutionGroup], p.ScenarioID)
		}
		sched.EstimatedTotalTime += times[p.ScenarioID].EstimatedSeconds
	}

	for _, g := range prioritize.GroupOrder {
		if ids := buckets[g]; len(ids) > 0 {
			sched.ParallelGroups = append(sched.ParallelGroups, ParallelGroup{Group: g, ScenarioIDs: ids})
		}
	}

	sched.EstimatedParallelTime = sched.EstimatedTotalTime
	if len(sched.ParallelGroups) > 0 {
		sched.EstimatedParallelTime = sched.EstimatedTotalTime / float64(workers)
	}
	return sched
}
