package risk

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/testrank/internal/errors"
	"github.com/felixgeelhaar/testrank/internal/log"
	"github.com/felixgeelhaar/testrank/internal/scenario"
)

// Suggestion is an advisor's risk estimate for one scenario.
type Suggestion struct {
	Severity   float64 `yaml:"severity" json:"severity"`
	Occurrence float64 `yaml:"occurrence" json:"occurrence"`
	Detection  float64 `yaml:"detection" json:"detection"`
	Reasoning  string  `yaml:"reasoning,omitempty" json:"reasoning,omitempty"`
}

// Validate checks that all three factors are present and within [1,5].
func (s Suggestion) Validate() error {
	factors := []struct {
		name  string
		value float64
	}{
		{"severity", s.Severity},
		{"occurrence", s.Occurrence},
		{"detection", s.Detection},
	}
	for _, f := range factors {
		if math.IsNaN(f.value) || f.value < MinFactor || f.value > MaxFactor {
			return fmt.Errorf("%s %v outside [%v,%v]", f.name, f.value, MinFactor, MaxFactor)
		}
	}
	return nil
}

// Advisor suggests risk factors for a batch. Implementations must return
// within the caller's deadline and either a complete suggestion per
// scenario or none for it; partial entries are discarded.
type Advisor interface {
	Suggest(ctx context.Context, scenarios []scenario.Scenario) (map[string]Suggestion, error)
}

// Consult calls the advisor once for the batch, bounded by timeout. An
// advisor error, timeout or panic yields no hints; individual malformed or
// unknown entries are dropped. Every problem is returned as a warning and
// logged, never as a failure.
func Consult(ctx context.Context, advisor Advisor, scenarios []scenario.Scenario, timeout time.Duration, logger *log.Logger) (map[string]Suggestion, []*errors.RankError) {
	if advisor == nil || len(scenarios) == 0 {
		return nil, nil
	}
	if logger == nil {
		logger = log.DefaultLogger()
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type reply struct {
		hints map[string]Suggestion
		err   error
	}
	replies := make(chan reply, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				replies <- reply{err: fmt.Errorf("advisor panic: %v", p)}
			}
		}()
		hints, err := advisor.Suggest(ctx, scenarios)
		replies <- reply{hints: hints, err: err}
	}()

	var r reply
	select {
	case r = <-replies:
	case <-ctx.Done():
		r = reply{err: ctx.Err()}
	}

	if r.err != nil {
		w := errors.NewAdvisorError(r.err)
		logger.WithError(w).Warn("advisor failed")
		return nil, []*errors.RankError{w}
	}

	known := make(map[string]struct{}, len(scenarios))
	for _, s := range scenarios {
		known[s.ID] = struct{}{}
	}

	ids := make([]string, 0, len(r.hints))
	for id := range r.hints {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var warnings []*errors.RankError
	hints := make(map[string]Suggestion, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			warnings = append(warnings, errors.NewAdvisorMalformedError(id, "unknown scenario"))
			continue
		}
		s := r.hints[id]
		if err := s.Validate(); err != nil {
			warnings = append(warnings, errors.NewAdvisorMalformedError(id, err.Error()))
			continue
		}
		hints[id] = s
	}

	for _, w := range warnings {
		logger.WithError(w).Warn("advisor suggestion dropped")
	}
	logger.Debug("advisor consulted", "suggestions", len(hints), "dropped", len(warnings))

	return hints, warnings
}

// StaticAdvisor serves suggestions from a fixed table, such as a hints file
// written by an offline review.
type StaticAdvisor struct {
	Suggestions map[string]Suggestion `yaml:"suggestions" json:"suggestions"`
}

// LoadHints reads a StaticAdvisor YAML file.
func LoadHints(path string) (*StaticAdvisor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "read hints file", err)
	}

	var a StaticAdvisor
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "hints", err)
	}
	return &a, nil
}

// Suggest implements Advisor
func (a *StaticAdvisor) Suggest(ctx context.Context, scenarios []scenario.Scenario) (map[string]Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string]Suggestion)
	for _, s := range scenarios {
		if hint, ok := a.Suggestions[s.ID]; ok {
			out[s.ID] = hint
		}
	}
	return out, nil
}
