package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/testrank/internal/errors"
)

// Load reads a YAML configuration file layered over Default(). Keys absent
// from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "read config file", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "YAML", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to Default otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes the configuration as YAML, creating parent directories.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileMarshal, "marshal config", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeFileWriteFailed, "create config directory", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "write config file", err)
	}

	return nil
}

const weightTolerance = 1e-6

// Validate checks internal consistency of the tables.
func (c *Config) Validate() error {
	var problems []string

	for _, p := range []string{"critical", "high", "medium", "low"} {
		t, ok := c.Risk.PriorityTable[p]
		if !ok {
			problems = append(problems, fmt.Sprintf("risk.priority_table is missing %q", p))
			continue
		}
		if !inFactorRange(t.Severity) || !inFactorRange(t.Occurrence) || !inFactorRange(t.Detection) {
			problems = append(problems, fmt.Sprintf("risk.priority_table[%s] factors must be within [1,5]", p))
		}
	}

	if math.Abs(c.Weights.Sum()-1) > weightTolerance {
		problems = append(problems, fmt.Sprintf("weights must sum to 1, got %.4f", c.Weights.Sum()))
	}
	if c.Weights.ROICeiling <= 0 || c.Weights.CoverageCeiling <= 0 {
		problems = append(problems, "weights.roi_ceiling and weights.coverage_ceiling must be positive")
	}
	if c.Business.UserBaseline <= 0 {
		problems = append(problems, "business.user_baseline must be positive")
	}
	if c.ROI.TestCost() <= 0 {
		problems = append(problems, "roi test cost (development+execution+maintenance) must be positive")
	}
	if c.ROI.HorizonDays <= 0 {
		problems = append(problems, "roi.horizon_days must be positive")
	}
	if c.Timing.FlakinessBuffer < 1 {
		problems = append(problems, "timing.flakiness_buffer must be at least 1")
	}
	if c.Timing.FastBelow >= c.Timing.MediumBelow {
		problems = append(problems, "timing.fast_below must be lower than timing.medium_below")
	}
	if c.Context.CurrentCoverage < 0 || c.Context.CurrentCoverage > 1 {
		problems = append(problems, "context.current_coverage must be within [0,1]")
	}
	if c.Schedule.Workers < 1 {
		problems = append(problems, "schedule.workers must be at least 1")
	}
	if c.Execution.Enabled {
		if c.Execution.BatchSize < 1 {
			problems = append(problems, "execution.batch_size must be at least 1")
		}
		if len(c.Execution.Command) == 0 {
			problems = append(problems, "execution.command is required when execution is enabled")
		}
	}

	if len(problems) > 0 {
		return errors.NewConfigInvalidError(strings.Join(problems, "; "))
	}
	return nil
}

func inFactorRange(v float64) bool {
	return v >= 1 && v <= 5
}
