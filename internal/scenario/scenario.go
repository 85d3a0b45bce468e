// Package scenario holds the typed test-scenario record produced by the
// upstream generator and validates batches of them at ingestion.
package scenario

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/testrank/internal/domain"
)

// Scenario is a candidate test: a precondition/action/expectation triple
// with a category and a priority hint. It is read-only to the engine.
type Scenario struct {
	ID           string          `yaml:"scenario_id" json:"scenario_id"`
	Title        string          `yaml:"title" json:"title"`
	Category     string          `yaml:"category" json:"category"`
	Priority     domain.Priority `yaml:"priority" json:"priority"`
	Tags         []string        `yaml:"tags,omitempty" json:"tags,omitempty"`
	DependsOn    []string        `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Precondition string          `yaml:"precondition,omitempty" json:"precondition,omitempty"`
	Action       string          `yaml:"action" json:"action"`
	Expectation  string          `yaml:"expectation" json:"expectation"`
}

// HasTag reports whether the scenario carries any of the given tags,
// compared case-insensitively.
func (s Scenario) HasTag(tags ...string) bool {
	for _, have := range s.Tags {
		for _, want := range tags {
			if strings.EqualFold(strings.TrimSpace(have), want) {
				return true
			}
		}
	}
	return false
}

// Text returns the action and expectation text the timing heuristics read.
func (s Scenario) Text() string {
	return s.Action + "\n" + s.Expectation
}

// Source supplies a scenario batch.
type Source interface {
	Scenarios(ctx context.Context) ([]Scenario, error)
}

// SliceSource serves an in-memory batch.
type SliceSource []Scenario

// Scenarios implements Source
func (s SliceSource) Scenarios(context.Context) ([]Scenario, error) {
	out := make([]Scenario, len(s))
	copy(out, s)
	return out, nil
}
