package exec

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/testrank/internal/domain"
	"github.com/felixgeelhaar/testrank/internal/errors"
	"github.com/felixgeelhaar/testrank/internal/log"
	"github.com/felixgeelhaar/testrank/internal/scenario"
)

type fakeExecutor struct {
	results  map[string]*Result
	errs     map[string]error
	delay    map[string]time.Duration
	panics   map[string]bool
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeExecutor) Execute(ctx context.Context, s scenario.Scenario) (*Result, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		old := f.maxSeen.Load()
		if n <= old || f.maxSeen.CompareAndSwap(old, n) {
			break
		}
	}

	if f.panics[s.ID] {
		panic("driver crashed")
	}
	if d := f.delay[s.ID]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.errs[s.ID]; err != nil {
		return nil, err
	}
	return f.results[s.ID], nil
}

func batch(ids ...string) []scenario.Scenario {
	out := make([]scenario.Scenario, len(ids))
	for i, id := range ids {
		out[i] = scenario.Scenario{ID: id}
	}
	return out
}

func TestNewOutcome(t *testing.T) {
	tests := []struct {
		name        string
		result      Result
		wantRate    float64
		wantTier    domain.Reliability
		wantPassed  int
	}{
		{"all passed", Result{PassedSteps: 10, TotalSteps: 10}, 1.0, domain.ReliabilityHigh, 10},
		{"most passed", Result{PassedSteps: 8, TotalSteps: 10}, 0.8, domain.ReliabilityMedium, 8},
		{"half passed", Result{PassedSteps: 1, TotalSteps: 2}, 0.5, domain.ReliabilityLow, 1},
		{"mostly failing", Result{PassedSteps: 1, TotalSteps: 4}, 0.25, domain.ReliabilityFlaky, 1},
		{"no steps", Result{}, 0, domain.ReliabilityFlaky, 0},
		{"passed clamped to total", Result{PassedSteps: 7, TotalSteps: 5}, 1.0, domain.ReliabilityHigh, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOutcome("s", tt.result)
			assert.InDelta(t, tt.wantRate, o.SuccessRate, 1e-9)
			assert.Equal(t, tt.wantTier, o.Reliability)
			assert.Equal(t, tt.wantPassed, o.PassedSteps)
		})
	}
}

func TestRunnerToleratesFailures(t *testing.T) {
	fake := &fakeExecutor{
		results: map[string]*Result{
			"ok":    {PassedSteps: 9, TotalSteps: 10, Result: "passed", TierUsed: "browser"},
			"empty": {PassedSteps: 0, TotalSteps: 0},
		},
		errs:   map[string]error{"err": fmt.Errorf("selector not found")},
		delay:  map[string]time.Duration{"slow": time.Second},
		panics: map[string]bool{"boom": true},
	}

	runner := NewRunner(fake, 2, 20*time.Millisecond, log.Discard())
	res := runner.Run(context.Background(), batch("ok", "err", "slow", "boom", "nil", "empty"))

	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, 0.9, res.Outcomes["ok"].SuccessRate)
	assert.Equal(t, "browser", res.Outcomes["ok"].TierUsed)
	require.Len(t, res.Failures, 5)

	codes := map[string]errors.ErrorCode{}
	for _, f := range res.Failures {
		codes[f.ScenarioID] = f.Code
	}
	assert.Equal(t, errors.ErrCodeExecTimeout, codes["slow"])
	assert.Equal(t, errors.ErrCodeExecFailed, codes["err"])
	assert.Equal(t, errors.ErrCodeExecFailed, codes["boom"])
	assert.Contains(t, codes, "nil")
	assert.Contains(t, codes, "empty")
}

func TestRunnerRespectsBatchSize(t *testing.T) {
	results := map[string]*Result{}
	delay := map[string]time.Duration{}
	ids := []string{"a", "b", "c", "d", "e", "f"}
	for _, id := range ids {
		results[id] = &Result{PassedSteps: 1, TotalSteps: 1}
		delay[id] = 10 * time.Millisecond
	}
	fake := &fakeExecutor{results: results, delay: delay}

	res := NewRunner(fake, 2, 0, log.Discard()).Run(context.Background(), batch(ids...))

	assert.Len(t, res.Outcomes, len(ids))
	assert.LessOrEqual(t, fake.maxSeen.Load(), int32(2))
}

func TestRunnerNilExecutorAndEmptyBatch(t *testing.T) {
	res := NewRunner(nil, 3, 0, log.Discard()).Run(context.Background(), batch("a"))
	assert.Empty(t, res.Outcomes)
	assert.Empty(t, res.Failures)

	res = NewRunner(&fakeExecutor{}, 0, 0, log.Discard()).Run(context.Background(), nil)
	assert.Empty(t, res.Outcomes)
}

func TestRunnerCancelledContext(t *testing.T) {
	fake := &fakeExecutor{delay: map[string]time.Duration{"a": time.Second, "b": time.Second}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewRunner(fake, 1, 0, log.Discard()).Run(ctx, batch("a", "b"))
	assert.Empty(t, res.Outcomes)
	assert.Len(t, res.Failures, 2)
}
