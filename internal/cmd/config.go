package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/testrank/internal/config"
	"github.com/felixgeelhaar/testrank/internal/errors"
)

var (
	configInitForce bool
	configShowFmt   string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage testrank configuration",
	Long: `Manage the testrank configuration file.

The configuration holds the scoring tables (priority triples, category
impact, action costs, regression profiles), the composite weights and the
optional stats, advisor, execution, logging and telemetry settings. Keys
missing from the file keep their defaults.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write the default configuration to --config.

Examples:
  testrank config init
  testrank config init --config ci/testrank.yaml --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !configInitForce {
			return errors.New(errors.ErrCodeFileWriteFailed, fmt.Sprintf("config file already exists: %s", configPath)).
				WithSuggestion("Use --force to overwrite it")
		}

		if err := config.Save(config.Default(), configPath); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		switch configShowFmt {
		case "json":
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileMarshal, "marshal config", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		case "yaml", "":
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileMarshal, "marshal config", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
		default:
			return fmt.Errorf("unknown format: %s (supported: yaml, json)", configShowFmt)
		}
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.Load(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", configPath)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Long: `Print one value of the effective configuration by its dotted key.

Examples:
  testrank config get schedule.workers
  testrank config get risk.priority_table.high.severity`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		value, err := getNestedValue(cfg, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
	configShowCmd.Flags().StringVarP(&configShowFmt, "format", "f", "yaml", "output format: yaml or json")

	configCmd.AddCommand(configInitCmd, configShowCmd, configValidateCmd, configGetCmd)
	rootCmd.AddCommand(configCmd)
}

// getNestedValue resolves a dotted key against the YAML form of cfg.
func getNestedValue(cfg *config.Config, key string) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileMarshal, "marshal config", err)
	}
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return "", errors.Wrap(errors.ErrCodeFileUnmarshal, "unmarshal config", err)
	}

	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return "", fmt.Errorf("unknown key: %s", key)
		}
		node, ok = m[part]
		if !ok {
			return "", unknownKeyError(key, m)
		}
	}

	switch v := node.(type) {
	case map[string]any, []any:
		out, err := yaml.Marshal(v)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeFileMarshal, "marshal value", err)
		}
		return strings.TrimRight(string(out), "\n"), nil
	default:
		return fmt.Sprint(v), nil
	}
}

func unknownKeyError(key string, siblings map[string]any) error {
	keys := make([]string, 0, len(siblings))
	for k := range siblings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("unknown key: %s", key)).
		WithSuggestion("Available keys at this level: " + strings.Join(keys, ", "))
}
