package scoring

import (
	"strings"
	"unicode"

	"github.com/felixgeelhaar/testrank/internal/config"
	"github.com/felixgeelhaar/testrank/internal/scenario"
)

// Speed buckets of an execution-time estimate.
const (
	SpeedFast   = "fast"
	SpeedMedium = "medium"
	SpeedSlow   = "slow"
)

// ExecutionTimeEstimate predicts how long a scenario takes to run.
type ExecutionTimeEstimate struct {
	EstimatedSeconds float64        `json:"estimated_seconds" yaml:"estimated_seconds"`
	Category         string         `json:"category" yaml:"category"`
	ActionCounts     map[string]int `json:"action_counts,omitempty" yaml:"action_counts,omitempty"`
}

// IsFast reports whether the estimate falls in the fast bucket.
func (e ExecutionTimeEstimate) IsFast() bool {
	return e.Category == SpeedFast
}

// EstimateExecutionTime counts UI actions named in the scenario text and
// prices them with the timing table.
func EstimateExecutionTime(s scenario.Scenario, cfg config.TimingConfig) ExecutionTimeEstimate {
	text := strings.ToLower(s.Text())

	counts := make(map[string]int)
	seconds := cfg.BaseSeconds
	for _, action := range cfg.Actions {
		n := 0
		for _, kw := range action.Keywords {
			n += countWord(text, strings.ToLower(kw))
		}
		if n > 0 {
			counts[action.Name] += n
			seconds += float64(n) * action.Seconds
		}
	}
	if cfg.FlakinessBuffer > 0 {
		seconds *= cfg.FlakinessBuffer
	}

	est := ExecutionTimeEstimate{EstimatedSeconds: seconds, ActionCounts: counts}
	switch {
	case seconds < cfg.FastBelow:
		est.Category = SpeedFast
	case seconds < cfg.MediumBelow:
		est.Category = SpeedMedium
	default:
		est.Category = SpeedSlow
	}
	return est
}

// countWord counts occurrences of word in text that are not part of a longer
// word, so "see" does not match "seen".
func countWord(text, word string) int {
	if word == "" {
		return 0
	}
	n := 0
	for i := 0; i+len(word) <= len(text); {
		j := strings.Index(text[i:], word)
		if j < 0 {
			break
		}
		start, end := i+j, i+j+len(word)
		if boundary(text, start-1) && boundary(text, end) {
			n++
		}
		i = start + 1
	}
	return n
}

func boundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	r := rune(text[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
