// Package dependency orders scenarios by their declared prerequisites.
package dependency

import (
	"sort"

	"github.com/felixgeelhaar/testrank/internal/errors"
	"github.com/felixgeelhaar/testrank/internal/scenario"
)

// Unresolved is the execution order of scenarios caught in or behind a cycle.
const Unresolved = 999

// Resolution places one scenario in the execution order.
type Resolution struct {
	ExecutionOrder int  `json:"execution_order" yaml:"execution_order"`
	CanRunParallel bool `json:"can_run_parallel" yaml:"can_run_parallel"`
}

// Result is the resolved dependency graph of a batch.
type Result struct {
	Resolutions map[string]Resolution
	// Cyclic lists, in batch order, scenarios that never became free of
	// unresolved prerequisites.
	Cyclic []string
	// Dangling lists references to scenarios outside the batch.
	Dangling []*errors.RankError
	// Waves is the number of execution waves that resolved.
	Waves int
}

// Warnings returns every non-fatal problem found while resolving.
func (r Result) Warnings() []*errors.RankError {
	out := make([]*errors.RankError, 0, len(r.Dangling)+len(r.Cyclic))
	out = append(out, r.Dangling...)
	for _, id := range r.Cyclic {
		out = append(out, errors.NewCycleError(id))
	}
	return out
}

// Resolve runs Kahn's algorithm wave by wave. Every scenario freed in the
// same wave shares an execution order, starting at 1, so a scenario always
// runs after all of its prerequisites and independent scenarios run
// together. References to ids outside the batch are ignored.
func Resolve(scenarios []scenario.Scenario) Result {
	res := Result{Resolutions: make(map[string]Resolution, len(scenarios))}

	index := make(map[string]int, len(scenarios))
	var order []string
	for _, s := range scenarios {
		if _, dup := index[s.ID]; dup {
			continue
		}
		index[s.ID] = len(order)
		order = append(order, s.ID)
	}

	indegree := make([]int, len(order))
	dependents := make([][]int, len(order))
	seenNode := make([]bool, len(order))

	for _, s := range scenarios {
		node := index[s.ID]
		if seenNode[node] {
			continue
		}
		seenNode[node] = true

		seenDep := make(map[string]struct{}, len(s.DependsOn))
		for _, dep := range s.DependsOn {
			if _, ok := seenDep[dep]; ok {
				continue
			}
			seenDep[dep] = struct{}{}

			prereq, ok := index[dep]
			if !ok {
				res.Dangling = append(res.Dangling, errors.NewMissingReferenceError(s.ID, dep))
				continue
			}
			indegree[node]++
			dependents[prereq] = append(dependents[prereq], node)
		}
	}

	var wave []int
	for node, deg := range indegree {
		if deg == 0 {
			wave = append(wave, node)
		}
	}

	resolved := make([]bool, len(order))
	for len(wave) > 0 {
		res.Waves++
		var next []int
		for _, node := range wave {
			resolved[node] = true
			res.Resolutions[order[node]] = Resolution{ExecutionOrder: res.Waves, CanRunParallel: true}
			for _, d := range dependents[node] {
				indegree[d]--
				if indegree[d] == 0 {
					next = append(next, d)
				}
			}
		}
		sort.Ints(next)
		wave = next
	}

	for node, ok := range resolved {
		if ok {
			continue
		}
		res.Resolutions[order[node]] = Resolution{ExecutionOrder: Unresolved}
		res.Cyclic = append(res.Cyclic, order[node])
	}

	return res
}
