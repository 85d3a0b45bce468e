package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/testrank/internal/config"
	"github.com/felixgeelhaar/testrank/internal/engine"
	"github.com/felixgeelhaar/testrank/internal/errors"
	"github.com/felixgeelhaar/testrank/internal/exec"
	"github.com/felixgeelhaar/testrank/internal/log"
	"github.com/felixgeelhaar/testrank/internal/metrics"
	"github.com/felixgeelhaar/testrank/internal/report"
	"github.com/felixgeelhaar/testrank/internal/risk"
	"github.com/felixgeelhaar/testrank/internal/scenario"
	"github.com/felixgeelhaar/testrank/internal/telemetry"
	"github.com/felixgeelhaar/testrank/internal/version"
)

var (
	rankIn          string
	rankOut         string
	rankFormat      string
	rankCompact     bool
	rankRows        int
	rankHints       string
	rankStats       string
	rankMetricsFile string
	rankExecute     bool
	rankTop         int
	rankWorkers     int
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a scenario batch and build its execution schedule",
	Long: `Rank a batch of test scenarios and build a parallel execution schedule.

Each scenario is scored for risk, business value, ROI, execution time,
coverage impact and regression risk. Dependencies are resolved into
execution waves and every ranked scenario lands in one execution group:
critical_smoke, critical_full, high, medium, low or flaky. The schedule
runs the smoke tests first and the remaining groups in parallel.

Examples:
  testrank rank --in scenarios.yaml
  testrank rank --in scenarios.yaml --format json --out report.json
  testrank rank --in scenarios.yaml --stats stats.yaml --hints hints.yaml
  testrank rank --in scenarios.yaml --execute --top 3`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringVarP(&rankIn, "in", "i", "", "scenario file (YAML or JSON)")
	rankCmd.Flags().StringVarP(&rankOut, "out", "o", "", "write the report to a file instead of stdout")
	rankCmd.Flags().StringVarP(&rankFormat, "format", "f", report.FormatText, "output format: text, json, yaml")
	rankCmd.Flags().BoolVar(&rankCompact, "compact", false, "disable indentation for json output")
	rankCmd.Flags().IntVar(&rankRows, "rows", 0, "limit the ranking table to the first N rows (text format)")
	rankCmd.Flags().StringVar(&rankHints, "hints", "", "advisor hints file (overrides advisor.hints_file)")
	rankCmd.Flags().StringVar(&rankStats, "stats", "", "historical stats file (overrides stats.file)")
	rankCmd.Flags().StringVar(&rankMetricsFile, "metrics-file", "", "write Prometheus metrics in textfile format to this path")
	rankCmd.Flags().BoolVar(&rankExecute, "execute", false, "run the top-ranked scenarios with execution.command and refine detection")
	rankCmd.Flags().IntVar(&rankTop, "top", 0, "number of top-ranked scenarios to execute (overrides execution.top_n)")
	rankCmd.Flags().IntVar(&rankWorkers, "workers", 0, "parallel workers for the schedule estimate (overrides schedule.workers)")
	_ = rankCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRankFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.Logging, cmd)
	log.SetDefaultLogger(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	shutdown, err := telemetry.InitProvider(ctx, telemetry.FromConfig(cfg.Telemetry, version.Version))
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("tracer shutdown failed", "error", err)
			}
		}()
	}

	ctx, span := telemetry.StartCommandSpan(ctx, "rank")
	defer span.End()

	reg, m := metrics.NewRegistry()
	opts, err := engineOptions(cfg, logger, m)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	rep, err := engine.New(opts).RunSource(ctx, scenario.FileSource{Path: rankIn})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	if err := writeReport(cmd, rep); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	if rankMetricsFile != "" {
		if err := metrics.WriteTextfile(reg, rankMetricsFile); err != nil {
			telemetry.RecordError(span, err)
			return err
		}
	}

	telemetry.RecordWarnings(span, len(rep.Warnings))
	telemetry.RecordSuccess(span)
	return nil
}

func applyRankFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("hints") {
		cfg.Advisor.HintsFile = rankHints
	}
	if flags.Changed("stats") {
		cfg.Stats.File = rankStats
	}
	if flags.Changed("execute") {
		cfg.Execution.Enabled = rankExecute
	}
	if flags.Changed("top") {
		cfg.Execution.TopN = rankTop
	}
	if flags.Changed("workers") {
		cfg.Schedule.Workers = rankWorkers
	}
}

// engineOptions builds the optional collaborators. Interfaces stay nil
// unless their source is configured.
func engineOptions(cfg *config.Config, logger *log.Logger, m *metrics.Metrics) (engine.Options, error) {
	opts := engine.Options{Config: cfg, Logger: logger, Metrics: m}

	if cfg.Stats.File != "" {
		stats, err := risk.LoadStats(cfg.Stats.File)
		if err != nil {
			return opts, err
		}
		opts.Stats = stats
	}

	if cfg.Advisor.HintsFile != "" {
		advisor, err := risk.LoadHints(cfg.Advisor.HintsFile)
		if err != nil {
			return opts, err
		}
		opts.Advisor = advisor
	}

	if cfg.Execution.Enabled {
		opts.Executor = &exec.CommandExecutor{Command: cfg.Execution.Command}
	}

	return opts, nil
}

func writeReport(cmd *cobra.Command, rep *report.Report) (err error) {
	var out io.Writer = cmd.OutOrStdout()
	if rankOut != "" {
		f, createErr := os.Create(rankOut)
		if createErr != nil {
			return errors.Wrap(errors.ErrCodeFileWriteFailed, "create report file", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = errors.Wrap(errors.ErrCodeFileWriteFailed, "close report file", closeErr)
			}
		}()
		out = f
	}

	w, err := report.NewWriter(rankFormat, &report.WriterOptions{Out: out, Compact: rankCompact, Top: rankRows})
	if err != nil {
		return err
	}
	return w.Write(rep)
}
