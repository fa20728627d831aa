package commands

import (
	"context"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nicu/typemockr/config"
	"github.com/nicu/typemockr/entity"
	"github.com/nicu/typemockr/errors"
	"github.com/nicu/typemockr/factory"
	"github.com/nicu/typemockr/infer"
	"github.com/nicu/typemockr/logger"
	"github.com/nicu/typemockr/output/typescript"
)

// pipeline turns graph documents into the files of one output directory.
type pipeline struct {
	cfg    *config.Config
	engine *infer.Engine
	runID  string
	logger *zap.SugaredLogger
}

// summary tallies one run for the status line.
type summary struct {
	Documents   int
	Definitions int
	Skipped     int
	Diagnostics map[factory.DiagnosticKind]int
	Duration    time.Duration
}

func newPipeline(cfg *config.Config, log *zap.SugaredLogger) (*pipeline, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	runID := uuid.New().String()
	log = logger.ChildLogger(log, logger.FieldRunID, runID)

	ic, err := cfg.InferConfig()
	if err != nil {
		return nil, err
	}
	engine, err := infer.Compile(ic, log)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile mapping rules")
	}
	return &pipeline{cfg: cfg, engine: engine, runID: runID, logger: log}, nil
}

// render generates every document concurrently and assembles the output files.
func (p *pipeline) render(ctx context.Context, inputs []string) ([]typescript.File, *summary, error) {
	start := time.Now()
	docs := make([]typescript.Document, len(inputs))
	results := make([]*factory.Result, len(inputs))
	opts := p.cfg.FactoryOptions()

	g, ctx := errgroup.WithContext(ctx)
	if p.cfg.Workers > 0 {
		g.SetLimit(p.cfg.Workers)
	}
	for i, path := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := entity.LoadFile(path, p.cfg.InputFormat())
			if err != nil {
				return err
			}
			log := logger.ChildLogger(p.logger, logger.FieldFile, path)
			res := factory.Generate(doc.Entities, p.engine, opts, log)
			results[i] = res
			docs[i] = typescript.Document{
				Source:      path,
				SourceRoot:  p.cfg.Input.SourceRoot,
				Definitions: res.Definitions,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	files, err := typescript.Assemble(docs, p.cfg.OutputOptions())
	if err != nil {
		return nil, nil, err
	}

	sum := &summary{Documents: len(inputs), Diagnostics: map[factory.DiagnosticKind]int{}}
	for _, res := range results {
		sum.Definitions += len(res.Definitions)
		sum.Skipped += res.Skipped
		for k, n := range res.Counts() {
			sum.Diagnostics[k] += n
		}
	}
	sum.Duration = time.Since(start)
	p.logger.Infow("Rendered output",
		logger.FieldCount, len(files),
		logger.FieldTotalCount, sum.Definitions,
		logger.FieldDurationMS, sum.Duration.Milliseconds())
	return files, sum, nil
}

// write stores files in dir and runs the format command on what changed.
func (p *pipeline) write(ctx context.Context, dir string, files []typescript.File) ([]string, error) {
	written, err := typescript.NewWriter(dir, p.logger).Write(files)
	if err != nil {
		return written, err
	}
	if err := p.format(ctx, written); err != nil {
		return written, err
	}
	return written, nil
}

// format runs output.format_command with the given paths appended.
func (p *pipeline) format(ctx context.Context, paths []string) error {
	if p.cfg.Output.FormatCommand == "" || len(paths) == 0 {
		return nil
	}
	argv, err := shellquote.Split(p.cfg.Output.FormatCommand)
	if err != nil {
		return errors.Wrapf(err, "failed to parse output.format_command %q", p.cfg.Output.FormatCommand)
	}
	if len(argv) == 0 {
		return nil
	}

	args := append(argv[1:len(argv):len(argv)], paths...)
	out, err := exec.CommandContext(ctx, argv[0], args...).CombinedOutput()
	if err != nil {
		return errors.WithDetail(
			errors.Wrapf(err, "format command %q failed", p.cfg.Output.FormatCommand),
			string(out))
	}
	p.logger.Debugw("Formatted files", logger.FieldCount, len(paths))
	return nil
}
