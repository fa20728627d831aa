package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nicu/typemockr/cmd/typemockr/commands"
	"github.com/nicu/typemockr/errors"
	"github.com/nicu/typemockr/logger"
)

var rootCmd = &cobra.Command{
	Use:   "typemockr",
	Short: "typemockr - mock factories for TypeScript type graphs",
	Long: `typemockr - Generate TypeScript mock factories from an extracted type graph.

It reads graph documents (JSON or YAML) describing declared types and writes
one faker-based factory per type, including depth-guarded factories for
self-referencing and mutually recursive types.

Available commands:
  generate - Generate mock factories
  check    - Verify generated mocks are up to date
  config   - Inspect configuration
  version  - Show version information

Examples:
  typemockr generate graph.json
  typemockr generate --watch
  typemockr check
  typemockr config where`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLog, _ := cmd.Flags().GetBool("json-log")
		if err := logger.Initialize(jsonLog, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		logger.Debugw("Logger initialized", "level", logger.LevelName(verbosity))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-log", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: typemockr.toml searched up from the working directory)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		logger.Cleanup()
		os.Exit(1)
	}
}
