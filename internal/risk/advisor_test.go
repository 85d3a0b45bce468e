package risk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/testrank/internal/errors"
	"github.com/felixgeelhaar/testrank/internal/log"
	"github.com/felixgeelhaar/testrank/internal/scenario"
)

type advisorFunc func(ctx context.Context, scenarios []scenario.Scenario) (map[string]Suggestion, error)

func (f advisorFunc) Suggest(ctx context.Context, scenarios []scenario.Scenario) (map[string]Suggestion, error) {
	return f(ctx, scenarios)
}

var consultBatch = []scenario.Scenario{{ID: "a"}, {ID: "b"}}

func TestSuggestionValidate(t *testing.T) {
	assert.NoError(t, Suggestion{Severity: 1, Occurrence: 5, Detection: 2.5}.Validate())
	assert.ErrorContains(t, Suggestion{Severity: 3, Occurrence: 3}.Validate(), "detection")
	assert.ErrorContains(t, Suggestion{Severity: 5.5, Occurrence: 3, Detection: 3}.Validate(), "severity")
}

func TestConsultFiltersSuggestions(t *testing.T) {
	adv := advisorFunc(func(context.Context, []scenario.Scenario) (map[string]Suggestion, error) {
		return map[string]Suggestion{
			"a":     {Severity: 4, Occurrence: 4, Detection: 4},
			"b":     {Severity: 4, Occurrence: 0, Detection: 4},
			"ghost": {Severity: 2, Occurrence: 2, Detection: 2},
		}, nil
	})

	hints, warnings := Consult(context.Background(), adv, consultBatch, time.Second, log.Discard())
	require.Len(t, hints, 1)
	assert.Contains(t, hints, "a")
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, errors.ErrCodeAdvisorMalformed, w.Code)
	}
}

func TestConsultFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		advisor Advisor
	}{
		{"error", advisorFunc(func(context.Context, []scenario.Scenario) (map[string]Suggestion, error) {
			return nil, fmt.Errorf("rate limited")
		})},
		{"timeout", advisorFunc(func(ctx context.Context, _ []scenario.Scenario) (map[string]Suggestion, error) {
			select {
			case <-time.After(5 * time.Second):
				return nil, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		})},
		{"ignores deadline", advisorFunc(func(context.Context, []scenario.Scenario) (map[string]Suggestion, error) {
			time.Sleep(500 * time.Millisecond)
			return map[string]Suggestion{"a": {Severity: 1, Occurrence: 1, Detection: 1}}, nil
		})},
		{"panic", advisorFunc(func(context.Context, []scenario.Scenario) (map[string]Suggestion, error) {
			panic("model returned garbage")
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hints, warnings := Consult(context.Background(), tt.advisor, consultBatch, 20*time.Millisecond, log.Discard())
			assert.Empty(t, hints)
			require.Len(t, warnings, 1)
			assert.Equal(t, errors.ErrCodeAdvisorFailed, warnings[0].Code)
		})
	}
}

func TestConsultNoAdvisor(t *testing.T) {
	hints, warnings := Consult(context.Background(), nil, consultBatch, time.Second, log.Discard())
	assert.Nil(t, hints)
	assert.Nil(t, warnings)
}

func TestStaticAdvisor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hints.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`suggestions:
  a:
    severity: 5
    occurrence: 3
    detection: 4
    reasoning: stores card numbers
  other:
    severity: 1
    occurrence: 1
    detection: 1
`), 0o644))

	adv, err := LoadHints(path)
	require.NoError(t, err)

	got, err := adv.Suggest(context.Background(), consultBatch)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "stores card numbers", got["a"].Reasoning)

	_, err = LoadHints(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, errors.ErrCodeFileNotFound, errors.CodeOf(err))
}
