package exec

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/testrank/internal/errors"
	"github.com/felixgeelhaar/testrank/internal/log"
	"github.com/felixgeelhaar/testrank/internal/scenario"
)

// Runner executes scenarios through a RealExecutor with bounded concurrency.
type Runner struct {
	executor  RealExecutor
	batchSize int
	timeout   time.Duration
	logger    *log.Logger
}

// NewRunner creates a runner. batchSize caps scenarios in flight (minimum 1);
// timeout, when positive, bounds each scenario on top of the caller's context.
func NewRunner(executor RealExecutor, batchSize int, timeout time.Duration, logger *log.Logger) *Runner {
	if batchSize < 1 {
		batchSize = 1
	}
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Runner{
		executor:  executor,
		batchSize: batchSize,
		timeout:   timeout,
		logger:    logger,
	}
}

// RunResult collects outcomes and the per-scenario failures that produced none.
type RunResult struct {
	Outcomes map[string]Outcome
	Failures []*errors.RankError
}

// Run executes every scenario and never aborts the batch: a failing, timing
// out or panicking scenario simply has no entry in Outcomes.
func (r *Runner) Run(ctx context.Context, scenarios []scenario.Scenario) RunResult {
	result := RunResult{Outcomes: make(map[string]Outcome, len(scenarios))}
	if r.executor == nil || len(scenarios) == 0 {
		return result
	}

	type slot struct {
		outcome *Outcome
		err     *errors.RankError
	}
	slots := make([]slot, len(scenarios))

	var wg sync.WaitGroup
	sem := make(chan struct{}, r.batchSize)

	for i, s := range scenarios {
		wg.Add(1)
		go func(index int, s scenario.Scenario) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				slots[index].err = errors.NewExecError(s.ID, ctx.Err())
				return
			}
			defer func() { <-sem }()

			outcome, err := r.runOne(ctx, s)
			slots[index] = slot{outcome: outcome, err: err}
		}(i, s)
	}

	wg.Wait()

	for i, sl := range slots {
		if sl.err != nil {
			r.logger.WithError(sl.err).Warn("scenario execution produced no outcome")
			result.Failures = append(result.Failures, sl.err)
			continue
		}
		if sl.outcome != nil {
			result.Outcomes[scenarios[i].ID] = *sl.outcome
		}
	}

	return result
}

func (r *Runner) runOne(ctx context.Context, s scenario.Scenario) (outcome *Outcome, rankErr *errors.RankError) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	defer func() {
		if p := recover(); p != nil {
			outcome = nil
			rankErr = errors.NewExecError(s.ID, fmt.Errorf("executor panic: %v", p))
		}
	}()

	start := time.Now()
	res, err := r.executor.Execute(ctx, s)
	if err != nil {
		return nil, errors.NewExecError(s.ID, err)
	}
	if res == nil {
		return nil, errors.NewExecError(s.ID, fmt.Errorf("executor returned no result"))
	}
	if res.TotalSteps <= 0 {
		return nil, errors.NewExecError(s.ID, fmt.Errorf("executor reported %d total steps", res.TotalSteps))
	}

	o := NewOutcome(s.ID, *res)
	r.logger.Debug("scenario executed",
		"scenario_id", s.ID,
		"passed_steps", o.PassedSteps,
		"total_steps", o.TotalSteps,
		"reliability", string(o.Reliability),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &o, nil
}
