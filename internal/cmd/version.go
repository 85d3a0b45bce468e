package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/testrank/internal/version"
)

var (
	versionVerbose bool
	versionJSON    bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for testrank.

Use --verbose for build details or --json for machine-readable output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.GetInfo()
		out := cmd.OutOrStdout()

		if versionJSON {
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if versionVerbose {
			fmt.Fprintf(out, "testrank version %s\n", info.Version)
			fmt.Fprintf(out, "  Commit:     %s\n", info.Commit)
			fmt.Fprintf(out, "  Built:      %s\n", info.Date)
			fmt.Fprintf(out, "  Go version: %s\n", info.GoVersion)
			fmt.Fprintf(out, "  Platform:   %s\n", info.Platform)
			return nil
		}

		fmt.Fprintf(out, "testrank version %s\n", info.Short())
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVarP(&versionVerbose, "verbose", "v", false, "Show detailed version information")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Output version information as JSON")
	rootCmd.AddCommand(versionCmd)
}
