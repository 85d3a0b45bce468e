// Package engine runs the full scoring and scheduling pipeline over one
// scenario batch.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/testrank/internal/config"
	"github.com/felixgeelhaar/testrank/internal/dependency"
	"github.com/felixgeelhaar/testrank/internal/errors"
	"github.com/felixgeelhaar/testrank/internal/exec"
	"github.com/felixgeelhaar/testrank/internal/log"
	"github.com/felixgeelhaar/testrank/internal/metrics"
	"github.com/felixgeelhaar/testrank/internal/prioritize"
	"github.com/felixgeelhaar/testrank/internal/report"
	"github.com/felixgeelhaar/testrank/internal/risk"
	"github.com/felixgeelhaar/testrank/internal/schedule"
	"github.com/felixgeelhaar/testrank/internal/scenario"
	"github.com/felixgeelhaar/testrank/internal/scoring"
	"github.com/felixgeelhaar/testrank/internal/telemetry"
)

// Stage names used for spans, metrics and logs.
const (
	StageValidate   = "validate"
	StageRisk       = "risk"
	StageScore      = "score"
	StageExecute    = "execute"
	StageRefine     = "refine"
	StagePrioritize = "prioritize"
	StageSchedule   = "schedule"
)

// Options wires the engine's collaborators. Only Config is required.
type Options struct {
	Config   *config.Config
	Stats    risk.StatsProvider
	Advisor  risk.Advisor
	Executor exec.RealExecutor
	Logger   *log.Logger
	Metrics  *metrics.Metrics
}

// Engine ranks and schedules scenario batches.
type Engine struct {
	cfg      *config.Config
	stats    risk.StatsProvider
	advisor  risk.Advisor
	executor exec.RealExecutor
	scorer   *risk.Scorer
	logger   *log.Logger
	metrics  *metrics.Metrics
}

// New creates an engine.
func New(opts Options) *Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Engine{
		cfg:      cfg,
		stats:    opts.Stats,
		advisor:  opts.Advisor,
		executor: opts.Executor,
		scorer:   risk.NewScorer(cfg.Risk, logger),
		logger:   logger,
		metrics:  opts.Metrics,
	}
}

// RunSource loads the batch from a source and runs it.
func (e *Engine) RunSource(ctx context.Context, src scenario.Source) (*report.Report, error) {
	raw, err := src.Scenarios(ctx)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, raw)
}

// Run scores, ranks and schedules a batch. Problems with individual
// scenarios, the advisor, the stats provider or the executor are reported
// in the result; only cancellation fails the run.
func (e *Engine) Run(ctx context.Context, raw []scenario.Scenario) (*report.Report, error) {
	started := time.Now()

	b, err := e.process(ctx, raw)
	if err == nil {
		var rep *report.Report
		if rep, err = e.buildReport(b, raw); err == nil {
			e.metrics.RecordBatch(true, time.Since(started))
			e.logger.InfoContext(ctx, "batch ranked",
				"run_id", rep.RunID,
				"received", rep.Summary.Received,
				"ranked", rep.Summary.Ranked,
				"rejected", rep.Summary.Rejected,
				"warnings", rep.Summary.Warnings,
				"duration_ms", time.Since(started).Milliseconds(),
			)
			return rep, nil
		}
	}

	e.metrics.RecordBatch(false, time.Since(started))
	e.metrics.RecordError("engine", err)
	e.logger.LogError(ctx, "batch run failed", err)
	return nil, err
}

// process runs every stage and returns the filled batch.
func (e *Engine) process(ctx context.Context, raw []scenario.Scenario) (*Batch, error) {
	b := &Batch{Received: len(raw)}

	err := e.stage(ctx, StageValidate, len(raw), func(context.Context) error {
		v := scenario.Validate(raw)
		b.Scenarios, b.Rejected = v.Scenarios, v.Rejected
		return nil
	})
	if err != nil {
		return nil, err
	}
	n := len(b.Scenarios)

	err = e.stage(ctx, StageRisk, n, func(ctx context.Context) error {
		b.Stats = risk.CollectStats(ctx, e.stats, b.Scenarios, e.logger)

		if e.advisor != nil && n > 0 {
			var warnings []*errors.RankError
			b.Hints, warnings = risk.Consult(ctx, e.advisor, b.Scenarios, e.cfg.Advisor.Timeout, e.logger)
			e.metrics.RecordAdvisor(warnings)
			b.warn(warnings...)
		}

		b.Risk = e.scorer.Score(b.Scenarios, b.Stats, b.Hints)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := e.stage(ctx, StageScore, n, func(context.Context) error {
		return e.score(b)
	}); err != nil {
		return nil, err
	}

	if e.executor != nil && e.cfg.Execution.TopN > 0 && n > 0 {
		err = e.stage(ctx, StageExecute, n, func(ctx context.Context) error {
			e.execute(ctx, b)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(b.Outcomes) > 0 {
		err = e.stage(ctx, StageRefine, len(b.Outcomes), func(context.Context) error {
			b.Risk = risk.Refine(b.Risk, b.Outcomes)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	err = e.stage(ctx, StagePrioritize, n, func(context.Context) error {
		b.Ranked = prioritize.Finalize(b.inputs(), e.cfg.Weights)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = e.stage(ctx, StageSchedule, len(b.Ranked), func(context.Context) error {
		b.Schedule = schedule.Build(b.Ranked, b.Dependencies.Resolutions, b.ExecTime, e.cfg.Schedule.Workers)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.recordOutcome(b)
	return b, nil
}

// score runs the five scorers and the dependency resolver concurrently.
// Each goroutine writes a distinct batch field.
func (e *Engine) score(b *Batch) error {
	cfg := e.cfg
	var g errgroup.Group

	g.Go(func() error {
		b.Business = scoring.Each(b.Scenarios, func(s scenario.Scenario) scoring.BusinessValue {
			return scoring.ScoreBusinessValue(s, cfg.Context, cfg.Business)
		})
		return nil
	})
	g.Go(func() error {
		b.ROI = scoring.Each(b.Scenarios, func(s scenario.Scenario) scoring.ROIEstimate {
			return scoring.EstimateROI(s, b.Risk[s.ID], b.Stats.For(s.Category), cfg.ROI)
		})
		return nil
	})
	g.Go(func() error {
		b.ExecTime = scoring.Each(b.Scenarios, func(s scenario.Scenario) scoring.ExecutionTimeEstimate {
			return scoring.EstimateExecutionTime(s, cfg.Timing)
		})
		return nil
	})
	g.Go(func() error {
		b.Coverage = scoring.Each(b.Scenarios, func(s scenario.Scenario) scoring.CoverageImpact {
			return scoring.AnalyzeCoverage(s, cfg.Context, cfg.Coverage)
		})
		return nil
	})
	g.Go(func() error {
		b.Regression = scoring.Each(b.Scenarios, func(s scenario.Scenario) scoring.RegressionRisk {
			return scoring.AnalyzeRegression(s, cfg.Regression)
		})
		return nil
	})
	g.Go(func() error {
		b.Dependencies = dependency.Resolve(b.Scenarios)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if len(b.Dependencies.Cyclic) > 0 {
		e.logger.Warn("dependency cycle left scenarios unresolved", "scenarios", b.Dependencies.Cyclic)
	}
	for _, d := range b.Dependencies.Dangling {
		e.logger.WithError(d).Debug("ignoring dependency outside the batch")
	}
	b.warn(b.Dependencies.Warnings()...)
	return nil
}

// execute runs the top of a preliminary ranking through the real executor.
func (e *Engine) execute(ctx context.Context, b *Batch) {
	prelim := prioritize.Finalize(b.inputs(), e.cfg.Weights)
	targets := b.top(prelim, e.cfg.Execution.TopN)

	runner := exec.NewRunner(e.executor, e.cfg.Execution.BatchSize, e.cfg.Execution.Timeout, e.logger)
	res := runner.Run(ctx, targets)

	b.Outcomes = res.Outcomes
	b.warn(res.Failures...)
}

// stage wraps fn in a span and a duration metric. It refuses to start once
// the context is done.
func (e *Engine) stage(ctx context.Context, name string, scenarios int, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeCancelled, "run cancelled before "+name, err)
	}

	ctx, span := telemetry.StartStageSpan(ctx, name, scenarios)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	e.metrics.ObserveStage(name, elapsed)
	telemetry.RecordDuration(span, "stage", elapsed)

	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	telemetry.RecordSuccess(span)
	e.logger.Debug("stage complete", "stage", name, "scenarios", scenarios, "duration_ms", elapsed.Milliseconds())
	return nil
}

func (e *Engine) recordOutcome(b *Batch) {
	if e.metrics == nil {
		return
	}
	e.metrics.Scenarios.WithLabelValues("accepted").Add(float64(len(b.Scenarios)))
	e.metrics.Scenarios.WithLabelValues("rejected").Add(float64(len(b.Rejected)))
	e.metrics.DependencyCycles.Add(float64(len(b.Dependencies.Cyclic)))

	for _, p := range b.Ranked {
		e.metrics.RankedByTier.WithLabelValues(string(p.Tier)).Inc()
	}
	for group, count := range report.CountByGroup(b.Ranked) {
		e.metrics.RankedByGroup.WithLabelValues(string(group)).Add(float64(count))
	}
	for _, o := range b.Outcomes {
		e.metrics.Executions.WithLabelValues(string(o.Reliability)).Inc()
	}
	for _, w := range b.Warnings {
		switch w.Code {
		case errors.ErrCodeExecFailed, errors.ErrCodeExecTimeout:
			e.metrics.ExecutionFailures.WithLabelValues(string(w.Code)).Inc()
		}
		e.metrics.RecordError(componentOf(w.Code), w)
	}
	for _, r := range b.Rejected {
		e.metrics.RecordError("scenario", r)
	}
}

func componentOf(code errors.ErrorCode) string {
	switch code {
	case errors.ErrCodeAdvisorFailed, errors.ErrCodeAdvisorMalformed:
		return "advisor"
	case errors.ErrCodeDependencyCycle, errors.ErrCodeScenarioMissingRef:
		return "dependency"
	case errors.ErrCodeExecFailed, errors.ErrCodeExecTimeout:
		return "execution"
	default:
		return "engine"
	}
}

// buildReport assembles the serialisable result of a finished batch.
func (e *Engine) buildReport(b *Batch, raw []scenario.Scenario) (*report.Report, error) {
	fingerprint, err := report.Fingerprint(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileMarshal, "fingerprint batch", err)
	}

	assessments := make(map[string]report.Assessments, len(b.Risk))
	for id, a := range b.Risk {
		entry := report.Assessments{
			Risk:          a,
			BusinessValue: b.Business[id],
			ROI:           b.ROI[id],
			ExecutionTime: b.ExecTime[id],
			Dependency:    b.Dependencies.Resolutions[id],
			Coverage:      b.Coverage[id],
			Regression:    b.Regression[id],
		}
		if o, ok := b.Outcomes[id]; ok {
			entry.Outcome = &o
		}
		assessments[id] = entry
	}

	ranked := b.Ranked
	if ranked == nil {
		ranked = []prioritize.Scenario{}
	}

	return &report.Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Fingerprint: fingerprint,
		Summary: report.Summary{
			Received:   b.Received,
			Ranked:     len(b.Ranked),
			Rejected:   len(b.Rejected),
			Unresolved: len(b.Dependencies.Cyclic),
			Executed:   len(b.Outcomes),
			Warnings:   len(b.Warnings),
		},
		Ranked:      ranked,
		Schedule:    b.Schedule,
		Assessments: assessments,
		Rejected:    report.Issues(b.Rejected),
		Warnings:    report.Issues(b.Warnings),
	}, nil
}

// Report is the result of a run.
type Report = report.Report
