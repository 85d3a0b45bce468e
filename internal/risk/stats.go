package risk

import (
	"context"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/testrank/internal/config"
	"github.com/felixgeelhaar/testrank/internal/errors"
	"github.com/felixgeelhaar/testrank/internal/log"
	"github.com/felixgeelhaar/testrank/internal/scenario"
)

// Defaults used when historical stats are unavailable.
const (
	DefaultFailureRate  = 0.3
	DefaultBugFrequency = 0.0
	DefaultAvgFixTime   = 24 * time.Hour
)

// StatsProvider serves per-category history. Any error makes the engine
// fall back to the defaults for that value.
type StatsProvider interface {
	GetFailureRate(ctx context.Context, category string) (float64, error)
	GetBugFrequency(ctx context.Context, category string) (float64, error)
	GetAvgFixTime(ctx context.Context, category string) (time.Duration, error)
}

// CategoryStats is the resolved history of one category.
type CategoryStats struct {
	FailureRate  float64       `yaml:"failure_rate" json:"failure_rate"`
	BugFrequency float64       `yaml:"bug_frequency" json:"bug_frequency"`
	AvgFixTime   time.Duration `yaml:"avg_fix_time" json:"avg_fix_time"`
}

// DefaultCategoryStats returns the fallback history.
func DefaultCategoryStats() CategoryStats {
	return CategoryStats{
		FailureRate:  DefaultFailureRate,
		BugFrequency: DefaultBugFrequency,
		AvgFixTime:   DefaultAvgFixTime,
	}
}

// Stats maps a category to its resolved history for one batch.
type Stats map[string]CategoryStats

// For returns the history of a category, or the defaults.
func (s Stats) For(category string) CategoryStats {
	if cs, ok := s[category]; ok {
		return cs
	}
	return DefaultCategoryStats()
}

// CollectStats queries the provider once per distinct category. Provider
// errors are logged and replaced by defaults, so this never fails.
func CollectStats(ctx context.Context, provider StatsProvider, scenarios []scenario.Scenario, logger *log.Logger) Stats {
	if logger == nil {
		logger = log.DefaultLogger()
	}

	categories := make(map[string]struct{})
	for _, s := range scenarios {
		categories[s.Category] = struct{}{}
	}

	stats := make(Stats, len(categories))
	for category := range categories {
		cs := DefaultCategoryStats()
		if provider == nil {
			stats[category] = cs
			continue
		}

		var failed error
		if v, err := provider.GetFailureRate(ctx, category); err != nil {
			failed = err
		} else {
			cs.FailureRate = v
		}
		if v, err := provider.GetBugFrequency(ctx, category); err != nil {
			failed = err
		} else {
			cs.BugFrequency = v
		}
		if v, err := provider.GetAvgFixTime(ctx, category); err != nil {
			failed = err
		} else if v > 0 {
			cs.AvgFixTime = v
		}
		if failed != nil {
			logger.Warn("historical stats unavailable, using defaults", "category", category, "error", failed)
		}
		stats[category] = cs
	}
	return stats
}

// StaticStats is a StatsProvider backed by a fixed table, typically loaded
// from a YAML file. Categories resolve like the config tables do, so
// "payment_checkout" matches a "checkout" entry.
type StaticStats struct {
	Categories map[string]CategoryStats `yaml:"categories" json:"categories"`
}

// LoadStats reads a StaticStats YAML file.
func LoadStats(path string) (*StaticStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "read stats file", err)
	}

	var s StaticStats
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "stats", err)
	}
	return &s, nil
}

func (s *StaticStats) lookup(category string) (CategoryStats, error) {
	if s != nil {
		if cs, ok := config.LookupCategory(s.Categories, category); ok {
			return cs, nil
		}
	}
	return CategoryStats{}, errors.New(errors.ErrCodeStatsUnavailable, "no history for category "+category)
}

// GetFailureRate implements StatsProvider
func (s *StaticStats) GetFailureRate(_ context.Context, category string) (float64, error) {
	cs, err := s.lookup(category)
	return cs.FailureRate, err
}

// GetBugFrequency implements StatsProvider
func (s *StaticStats) GetBugFrequency(_ context.Context, category string) (float64, error) {
	cs, err := s.lookup(category)
	return cs.BugFrequency, err
}

// GetAvgFixTime implements StatsProvider
func (s *StaticStats) GetAvgFixTime(_ context.Context, category string) (time.Duration, error) {
	cs, err := s.lookup(category)
	return cs.AvgFixTime, err
}

// Categories returns the sorted category names of a Stats table.
func (s Stats) Categories() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
