package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/testrank/internal/config"
	"github.com/felixgeelhaar/testrank/internal/log"
	"github.com/felixgeelhaar/testrank/internal/version"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "testrank",
	Short: "Risk-based test scenario ranking and scheduling",
	Long: `testrank scores a batch of test scenarios for risk (FMEA RPN), business value,
ROI, execution time, coverage impact and regression risk, resolves their
dependencies, and produces a ranked list with a parallel execution schedule.

Scenarios are read from a YAML or JSON file. Historical failure statistics,
advisor hints and a real execution command can be supplied to sharpen the
risk estimates.`,
	Version:           version.GetInfo().Short(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context that commands can
// observe for cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "testrank.yaml", "configuration file (defaults apply when it does not exist)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json or text (overrides config)")
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	log.SetDefaultLogger(newLogger(config.Default().Logging, cmd))
	return nil
}

// newLogger builds a logger from the logging section, letting the global
// flags win.
func newLogger(lc config.LoggingConfig, cmd *cobra.Command) *log.Logger {
	level, format := lc.Level, lc.Format
	if logLevel != "" {
		level = logLevel
	}
	if logFormat != "" {
		format = logFormat
	}

	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	cfg.Format = log.ParseFormat(format)
	cfg.Output = os.Stderr
	if cmd != nil {
		cfg.Output = cmd.ErrOrStderr()
	}
	return log.New(cfg)
}

// loadConfig reads --config, falling back to defaults when the file is absent.
func loadConfig() (*config.Config, error) {
	return config.LoadOrDefault(configPath)
}
