package risk

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/testrank/internal/config"
	"github.com/felixgeelhaar/testrank/internal/domain"
	"github.com/felixgeelhaar/testrank/internal/log"
	"github.com/felixgeelhaar/testrank/internal/scenario"
)

// Scorer computes the initial risk assessment of every scenario.
type Scorer struct {
	cfg    config.RiskConfig
	logger *log.Logger
}

// NewScorer creates a scorer over the given tables.
func NewScorer(cfg config.RiskConfig, logger *log.Logger) *Scorer {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Scorer{cfg: cfg, logger: logger}
}

// Score assesses each scenario. A valid advisor hint supplies the base
// factors; otherwise the priority table does. Occurrence is then raised by
// the category's failure rate, and severity by one when the scenario traces
// a user requirement or, for advisor factors only, when its priority is
// high or critical. The two severity boosts never stack.
//
// Duplicate ids keep their first occurrence. Score never fails.
func (s *Scorer) Score(scenarios []scenario.Scenario, stats Stats, hints map[string]Suggestion) map[string]Assessment {
	out := make(map[string]Assessment, len(scenarios))

	for _, sc := range scenarios {
		if _, seen := out[sc.ID]; seen {
			continue
		}
		a := s.assess(sc, stats.For(sc.Category), hints)
		out[sc.ID] = a
	}

	s.logger.Debug("risk scored", "scenarios", len(out), "advisor_hints", len(hints))
	return out
}

func (s *Scorer) assess(sc scenario.Scenario, history CategoryStats, hints map[string]Suggestion) Assessment {
	a := Assessment{ScenarioID: sc.ID}
	var notes []string

	if hint, ok := hints[sc.ID]; ok && hint.Validate() == nil {
		a.Severity, a.Occurrence, a.Detection = hint.Severity, hint.Occurrence, hint.Detection
		a.Source = SourceAdvisor
		if hint.Reasoning != "" {
			notes = append(notes, hint.Reasoning)
		} else {
			notes = append(notes, "advisor estimate")
		}
	} else {
		t := s.baseTriple(sc.Priority)
		a.Severity, a.Occurrence, a.Detection = t.Severity, t.Occurrence, t.Detection
		a.Source = SourceHeuristic
		notes = append(notes, fmt.Sprintf("%s priority baseline", sc.Priority))
	}

	switch {
	case history.FailureRate > s.cfg.FailureRateSevere:
		a.Occurrence += s.cfg.SevereBump
		notes = append(notes, fmt.Sprintf("occurrence +%g for failure rate %.2f", s.cfg.SevereBump, history.FailureRate))
	case history.FailureRate > s.cfg.FailureRateElevated:
		a.Occurrence += s.cfg.ElevatedBump
		notes = append(notes, fmt.Sprintf("occurrence +%g for failure rate %.2f", s.cfg.ElevatedBump, history.FailureRate))
	}

	switch {
	case sc.HasTag(s.cfg.UserRequirementTags...):
		a.Severity++
		notes = append(notes, "severity +1 for user requirement")
	case a.Source == SourceAdvisor && sc.Priority.IsUrgent():
		a.Severity++
		notes = append(notes, fmt.Sprintf("severity +1 for %s priority", sc.Priority))
	}

	a.recompute()
	a.Reasoning = strings.Join(notes, "; ")
	return a
}

func (s *Scorer) baseTriple(p domain.Priority) config.Triple {
	if t, ok := s.cfg.PriorityTable[string(p)]; ok {
		return t
	}
	if t, ok := s.cfg.PriorityTable[string(domain.PriorityMedium)]; ok {
		return t
	}
	return config.Triple{Severity: 3, Occurrence: 2, Detection: 3}
}
