package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/felixgeelhaar/testrank/internal/config"
	"github.com/felixgeelhaar/testrank/internal/domain"
	"github.com/felixgeelhaar/testrank/internal/log"
	"github.com/felixgeelhaar/testrank/internal/scenario"
)

func newTestScorer() *Scorer {
	return NewScorer(config.Default().Risk, log.Discard())
}

func TestScoreHeuristicBaseline(t *testing.T) {
	batch := []scenario.Scenario{
		{ID: "S1", Category: "checkout", Priority: domain.PriorityCritical},
		{ID: "S2", Category: "checkout", Priority: domain.PriorityLow, DependsOn: []string{"S1"}},
		{ID: "S3", Category: "security", Priority: domain.PriorityHigh},
		{ID: "S4", Category: "profile", Priority: domain.PriorityMedium},
	}

	got := newTestScorer().Score(batch, nil, nil)
	require.Len(t, got, 4)

	tests := []struct {
		id   string
		rpn  float64
		tier domain.RiskTier
	}{
		{"S1", 100, domain.TierCritical},
		{"S2", 4, domain.TierLow},
		{"S3", 48, domain.TierMedium},
		{"S4", 18, domain.TierLow},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			a := got[tt.id]
			assert.Equal(t, tt.rpn, a.RPN)
			assert.Equal(t, tt.tier, a.Tier)
			assert.Equal(t, SourceHeuristic, a.Source)
			assert.False(t, a.Refined)
		})
	}
}

func TestScoreOccurrenceBump(t *testing.T) {
	tests := []struct {
		name           string
		failureRate    float64
		wantOccurrence float64
	}{
		{"default rate is not elevated", 0.3, 2},
		{"elevated", 0.35, 2.5},
		{"exactly half is elevated only", 0.5, 2.5},
		{"severe", 0.6, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := Stats{"search": {FailureRate: tt.failureRate}}
			got := newTestScorer().Score([]scenario.Scenario{
				{ID: "s", Category: "search", Priority: domain.PriorityMedium},
			}, stats, nil)
			assert.Equal(t, tt.wantOccurrence, got["s"].Occurrence)
			assert.Equal(t, 3*tt.wantOccurrence*3, got["s"].RPN)
		})
	}
}

func TestScoreOccurrenceCapped(t *testing.T) {
	stats := Stats{"payment": {FailureRate: 0.9}}
	hints := map[string]Suggestion{"s": {Severity: 2, Occurrence: 5, Detection: 2}}
	got := newTestScorer().Score([]scenario.Scenario{
		{ID: "s", Category: "payment", Priority: domain.PriorityLow},
	}, stats, hints)
	assert.Equal(t, 5.0, got["s"].Occurrence)
}

func TestScoreSeverityBoost(t *testing.T) {
	tests := []struct {
		name         string
		priority     domain.Priority
		tags         []string
		hint         *Suggestion
		wantSeverity float64
	}{
		{"user requirement tag", domain.PriorityMedium, []string{"User-Requirement"}, nil, 4},
		{"underscore tag", domain.PriorityLow, []string{"user_requirement"}, nil, 3},
		{"heuristic high gets no priority boost", domain.PriorityHigh, nil, nil, 4},
		{"tag capped at five", domain.PriorityCritical, []string{"user-requirement"}, nil, 5},
		{"advisor high gets priority boost", domain.PriorityHigh, nil, &Suggestion{Severity: 3, Occurrence: 3, Detection: 3}, 4},
		{"advisor low gets none", domain.PriorityLow, nil, &Suggestion{Severity: 3, Occurrence: 3, Detection: 3}, 3},
		{"boosts do not stack", domain.PriorityCritical, []string{"user-requirement"}, &Suggestion{Severity: 2, Occurrence: 3, Detection: 3}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hints map[string]Suggestion
			if tt.hint != nil {
				hints = map[string]Suggestion{"s": *tt.hint}
			}
			got := newTestScorer().Score([]scenario.Scenario{
				{ID: "s", Category: "ui", Priority: tt.priority, Tags: tt.tags},
			}, nil, hints)
			assert.Equal(t, tt.wantSeverity, got["s"].Severity)
		})
	}
}

func TestScoreIgnoresInvalidHint(t *testing.T) {
	hints := map[string]Suggestion{"s": {Severity: 6, Occurrence: 3, Detection: 3}}
	got := newTestScorer().Score([]scenario.Scenario{
		{ID: "s", Category: "ui", Priority: domain.PriorityHigh},
	}, nil, hints)
	assert.Equal(t, SourceHeuristic, got["s"].Source)
	assert.Equal(t, 48.0, got["s"].RPN)
}

func TestScoreAdvisorReasoning(t *testing.T) {
	hints := map[string]Suggestion{"s": {Severity: 4, Occurrence: 4, Detection: 4, Reasoning: "handles card data"}}
	got := newTestScorer().Score([]scenario.Scenario{
		{ID: "s", Category: "ui", Priority: domain.PriorityMedium},
	}, nil, hints)
	assert.Equal(t, SourceAdvisor, got["s"].Source)
	assert.Equal(t, 64.0, got["s"].RPN)
	assert.Equal(t, domain.TierHigh, got["s"].Tier)
	assert.Contains(t, got["s"].Reasoning, "handles card data")
}

func TestScoreDuplicateKeepsFirst(t *testing.T) {
	got := newTestScorer().Score([]scenario.Scenario{
		{ID: "s", Priority: domain.PriorityCritical},
		{ID: "s", Priority: domain.PriorityLow},
	}, nil, nil)
	require.Len(t, got, 1)
	assert.Equal(t, 100.0, got["s"].RPN)
}

func TestScoreEmptyBatch(t *testing.T) {
	got := newTestScorer().Score(nil, nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestScoreIdempotent(t *testing.T) {
	batch := []scenario.Scenario{
		{ID: "a", Category: "checkout", Priority: domain.PriorityHigh, Tags: []string{"user-requirement"}},
		{ID: "b", Category: "search", Priority: domain.PriorityLow},
	}
	stats := Stats{"search": {FailureRate: 0.45}}
	s := newTestScorer()
	assert.Equal(t, s.Score(batch, stats, nil), s.Score(batch, stats, nil))
}

func TestScoreRPNRangeProperty(t *testing.T) {
	priorities := []domain.Priority{domain.PriorityCritical, domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow}
	s := newTestScorer()

	rapid.Check(t, func(t *rapid.T) {
		sc := scenario.Scenario{
			ID:       "s",
			Category: "c",
			Priority: rapid.SampledFrom(priorities).Draw(t, "priority"),
		}
		if rapid.Bool().Draw(t, "tagged") {
			sc.Tags = []string{"user-requirement"}
		}
		stats := Stats{"c": {FailureRate: rapid.Float64Range(0, 1).Draw(t, "failure_rate")}}

		var hints map[string]Suggestion
		if rapid.Bool().Draw(t, "advised") {
			hints = map[string]Suggestion{"s": {
				Severity:   rapid.Float64Range(0, 7).Draw(t, "severity"),
				Occurrence: rapid.Float64Range(0, 7).Draw(t, "occurrence"),
				Detection:  rapid.Float64Range(0, 7).Draw(t, "detection"),
			}}
		}

		a := s.Score([]scenario.Scenario{sc}, stats, hints)["s"]
		if a.RPN < domain.MinRPN || a.RPN > domain.MaxRPN {
			t.Fatalf("rpn %v out of range", a.RPN)
		}
		if a.RPN != a.Severity*a.Occurrence*a.Detection {
			t.Fatalf("rpn %v is not the factor product", a.RPN)
		}
		if a.Tier != domain.TierForRPN(a.RPN) {
			t.Fatalf("tier %s does not match rpn %v", a.Tier, a.RPN)
		}
	})
}
