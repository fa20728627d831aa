package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nicu/typemockr/config"
	"github.com/nicu/typemockr/factory"
	"github.com/nicu/typemockr/internal/watch"
	"github.com/nicu/typemockr/logger"
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate [graph...]",
	Short: "Generate mock factories from graph documents",
	Long: `Generate TypeScript mock factories from one or more graph documents.

Each graph document produces <name>.mocks.ts in the output directory, next
to the shared mock-runtime.ts helpers and an index.ts barrel export.
Self-referencing types get depth-guarded factories that stop at --max-depth.

Examples:
  typemockr generate graph.json                  # Write mocks/graph.mocks.ts
  typemockr generate -o src/__mocks__ a.json b.yaml
  typemockr generate --mapping mocks.toml graph.json
  typemockr generate --watch                     # Regenerate input.files on change`,
	RunE: runGenerate,
}

func init() {
	addGenerationFlags(GenerateCmd)
	GenerateCmd.Flags().BoolP("watch", "w", false, "Regenerate when graph documents or configuration change")
}

func runGenerate(cmd *cobra.Command, args []string) error {
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

	ctx := cmd.Context()
	watching, _ := cmd.Flags().GetBool("watch")
	if err := generateAndReport(ctx, cfg, inputs); err != nil && !watching {
		return err
	}
	if !watching {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watched := append([]string(nil), inputs...)
	watched = append(watched, loaded.Files...)
	if cfg.Mapping.File != "" {
		watched = append(watched, cfg.Mapping.File)
	}
	configFiles := map[string]bool{}
	for _, f := range loaded.Files {
		if abs, err := filepath.Abs(f); err == nil {
			configFiles[abs] = true
		}
	}

	w, err := watch.New(watched, func(ctx context.Context, changed []string) error {
		for _, f := range changed {
			if !configFiles[f] {
				continue
			}
			reloaded, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyGenerationFlags(cmd, reloaded.Config); err != nil {
				return err
			}
			cfg = reloaded.Config
			logger.Infow("Reloaded configuration", logger.FieldFile, f)
			break
		}
		return generateAndReport(ctx, cfg, inputs)
	}, logger.Logger)
	if err != nil {
		return err
	}

	pterm.Info.Printfln("Watching %d files, press Ctrl+C to stop", len(watched))
	return w.Run(ctx)
}

// generate renders inputs and writes the result into output.dir.
func generate(ctx context.Context, cfg *config.Config, inputs []string) (*summary, []string, error) {
	p, err := newPipeline(cfg, logger.ComponentLogger("generate"))
	if err != nil {
		return nil, nil, err
	}
	files, sum, err := p.render(ctx, inputs)
	if err != nil {
		return nil, nil, err
	}
	written, err := p.write(ctx, cfg.Output.Dir, files)
	if err != nil {
		return nil, nil, err
	}
	return sum, written, nil
}

func generateAndReport(ctx context.Context, cfg *config.Config, inputs []string) error {
	sum, written, err := generate(ctx, cfg, inputs)
	if err != nil {
		pterm.Error.Printfln("Generation failed: %v", err)
		return err
	}

	pterm.Success.Printfln("Generated %d factories from %d graph documents into %s (%d files written, %s)",
		sum.Definitions, sum.Documents, cfg.Output.Dir, len(written), sum.Duration.Round(time.Millisecond))
	if n := sum.Diagnostics[factory.DiagUnsupported]; n > 0 {
		pterm.Warning.Printfln("%d values could not be synthesized and use placeholders (run with -v for details)", n)
	}
	if n := sum.Diagnostics[factory.DiagUnresolvedReference]; n > 0 {
		pterm.Warning.Printfln("%d references point at undeclared types", n)
	}
	if n := sum.Diagnostics[factory.DiagFault]; n > 0 {
		pterm.Error.Printfln("%d internal faults; affected factories were replaced by fallbacks", n)
	}
	return nil
}
