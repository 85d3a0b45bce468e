package scenario

import (
	"strings"

	"github.com/felixgeelhaar/testrank/internal/domain"
	"github.com/felixgeelhaar/testrank/internal/errors"
)

// Batch is a validated scenario batch: unique ids, known priorities.
type Batch struct {
	Scenarios []Scenario
	// Rejected lists the records dropped at ingestion, in input order.
	Rejected []*errors.RankError
}

// IDs returns the scenario ids in batch order.
func (b Batch) IDs() []string {
	ids := make([]string, len(b.Scenarios))
	for i, s := range b.Scenarios {
		ids[i] = s.ID
	}
	return ids
}

// Validate normalises and checks a raw batch. Invalid records are rejected
// individually and the rest of the batch is kept:
//   - a record without scenario_id is rejected
//   - a repeated scenario_id keeps the first occurrence
//   - an empty priority becomes medium; an unknown one is rejected
func Validate(raw []Scenario) Batch {
	batch := Batch{Scenarios: make([]Scenario, 0, len(raw))}
	seen := make(map[string]struct{}, len(raw))

	for i, s := range raw {
		s.ID = strings.TrimSpace(s.ID)
		if s.ID == "" {
			batch.Rejected = append(batch.Rejected, errors.NewMissingIDError(i))
			continue
		}
		if _, dup := seen[s.ID]; dup {
			batch.Rejected = append(batch.Rejected, errors.NewDuplicateIDError(s.ID))
			continue
		}

		if strings.TrimSpace(string(s.Priority)) == "" {
			s.Priority = domain.PriorityMedium
		}
		p, err := domain.NewPriority(string(s.Priority))
		if err != nil {
			batch.Rejected = append(batch.Rejected,
				errors.Wrap(errors.ErrCodeScenarioInvalid, "unknown priority hint", err).WithScenario(s.ID))
			continue
		}
		s.Priority = p
		s.DependsOn = dedupe(s.DependsOn)

		seen[s.ID] = struct{}{}
		batch.Scenarios = append(batch.Scenarios, s)
	}

	return batch
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
