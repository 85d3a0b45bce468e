// Package scoring holds the per-scenario scorers that feed the composite
// ranking. Every scorer is a pure function of a scenario, the batch context
// and its configuration table, so they can run concurrently.
package scoring

import "github.com/felixgeelhaar/testrank/internal/scenario"

// Each applies fn to every scenario and keys the results by scenario id.
// Later duplicates of an id do not overwrite the first.
func Each[T any](scenarios []scenario.Scenario, fn func(scenario.Scenario) T) map[string]T {
	out := make(map[string]T, len(scenarios))
	for _, s := range scenarios {
		if _, ok := out[s.ID]; ok {
			continue
		}
		out[s.ID] = fn(s)
	}
	return out
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
