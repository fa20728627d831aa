package commands

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nicu/typemockr/config"
	"github.com/nicu/typemockr/errors"
	"github.com/nicu/typemockr/logger"
	"github.com/nicu/typemockr/output/typescript"
)

// CheckCmd checks if generated mocks are up to date
var CheckCmd = &cobra.Command{
	Use:   "check [graph...]",
	Short: "Check if generated mocks are up to date",
	Long: `Check if the mocks in the output directory match a fresh generation.

This command generates into a temporary directory, runs the format command
there, and compares the result with the existing files. Files in the output
directory that typemockr does not generate are ignored.

Exit codes:
  0 - Mocks are up to date
  1 - Mocks are out of date or the check failed

Examples:
  typemockr check graph.json
  typemockr check                # Uses input.files from typemockr.toml`,
	RunE: runCheck,
}

func init() {
	addGenerationFlags(CheckCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	loaded, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg := loaded.Config
	if err := applyGenerationFlags(cmd, cfg); err != nil {
		return err
	}
	inputs, err := resolveInputs(args, cfg)
	if err != nil {
		return err
	}

	result, err := check(cmd.Context(), cfg, inputs)
	if err != nil {
		return err
	}
	if result.UpToDate {
		pterm.Success.Println("Mocks are up to date")
		return nil
	}

	pterm.Error.Println("Mocks are out of date")
	for _, f := range result.Differences {
		pterm.Printfln("  changed: %s", f)
	}
	for _, f := range result.Missing {
		pterm.Printfln("  missing: %s", f)
	}
	return result.Err()
}

// check regenerates into a temporary directory and compares with output.dir.
func check(ctx context.Context, cfg *config.Config, inputs []string) (*typescript.CheckResult, error) {
	p, err := newPipeline(cfg, logger.ComponentLogger("check"))
	if err != nil {
		return nil, err
	}
	files, _, err := p.render(ctx, inputs)
	if err != nil {
		return nil, err
	}

	tmp, err := os.MkdirTemp("", "typemockr-check-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}
	defer os.RemoveAll(tmp)

	if _, err := p.write(ctx, tmp, files); err != nil {
		return nil, err
	}
	return typescript.CompareDirectories(tmp, cfg.Output.Dir)
}
