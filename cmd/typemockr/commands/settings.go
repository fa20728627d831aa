package commands

import (
	"github.com/spf13/cobra"

	"github.com/nicu/typemockr/config"
	"github.com/nicu/typemockr/errors"
	"github.com/nicu/typemockr/internal/util"
	"github.com/nicu/typemockr/logger"
)

// loadConfig merges every configuration source, honouring --config.
func loadConfig(cmd *cobra.Command) (*config.Loaded, error) {
	path, _ := cmd.Flags().GetString("config")
	loaded, err := config.Load(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	applyLogConfig(cmd, loaded.Config)
	return loaded, nil
}

// applyLogConfig re-initializes the logger from log.* settings unless the
// command line already chose.
func applyLogConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("verbose") || flags.Changed("json-log") {
		return
	}
	if !cfg.Log.JSON && cfg.Log.Verbosity == 0 {
		return
	}
	if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Verbosity); err != nil {
		logger.Warnw("Failed to apply log settings", logger.FieldError, err)
	}
}

// addGenerationFlags registers the flags shared by generate and check.
func addGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output directory (default: output.dir)")
	cmd.Flags().StringP("mapping", "m", "", "Mapping file with generator rules (TOML, YAML or JSON)")
	cmd.Flags().Int("max-depth", 0, "Recursion depth at which self-referencing factories stop")
	cmd.Flags().String("format", "", "Graph document format: auto, json, yaml")
	cmd.Flags().String("types-module", "", "Import every declared type from this module")
}

// applyGenerationFlags overlays explicitly set flags on cfg.
func applyGenerationFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output.Dir, _ = flags.GetString("output")
	}
	if flags.Changed("mapping") {
		cfg.Mapping.File, _ = flags.GetString("mapping")
	}
	if flags.Changed("max-depth") {
		depth, _ := flags.GetInt("max-depth")
		cfg.Generator.MaxDepth = util.Ptr(depth)
	}
	if flags.Changed("format") {
		cfg.Input.Format, _ = flags.GetString("format")
	}
	if flags.Changed("types-module") {
		cfg.Output.TypesModule, _ = flags.GetString("types-module")
	}
	return cfg.Validate()
}

// resolveInputs picks the graph documents: arguments first, then input.files.
func resolveInputs(args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(cfg.Input.Files) > 0 {
		return cfg.Input.Files, nil
	}
	return nil, errors.WithHint(
		errors.New("no graph documents given"),
		"pass graph files as arguments or set input.files in typemockr.toml")
}
