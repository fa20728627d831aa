package typescript

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/nicu/typemockr/errors"
	"github.com/nicu/typemockr/factory"
	"github.com/nicu/typemockr/logger"
)

// File is one generated file, named relative to the output directory.
type File struct {
	Name    string
	Content string
}

// Document is the generation result of one graph document.
type Document struct {
	// Source is the graph document path.
	Source string

	// SourceRoot is the directory entity locations are relative to.
	SourceRoot string

	Definitions []*factory.Definition
}

// Options controls assembly of the whole output directory.
type Options struct {
	OutputDir     string
	Suffix        string
	TypesModule   string
	RuntimeModule string
}

// Assemble renders every document plus the runtime module and the barrel
// index. Two documents mapping to the same mocks file name is an error.
func Assemble(docs []Document, opts Options) ([]File, error) {
	files := make([]File, 0, len(docs)+2)
	owners := make(map[string]string, len(docs))
	var names []string

	for _, doc := range docs {
		name := MocksFileName(doc.Source, opts.Suffix)
		if prev, ok := owners[name]; ok {
			return nil, errors.WithHintf(
				errors.Newf("%s and %s both generate %s", prev, doc.Source, name),
				"rename one of the graph documents or generate them into separate directories")
		}
		owners[name] = doc.Source
		names = append(names, name)

		files = append(files, File{
			Name: name,
			Content: RenderFile(doc.Definitions, FileOptions{
				Source:        doc.Source,
				OutputDir:     opts.OutputDir,
				SourceRoot:    doc.SourceRoot,
				TypesModule:   opts.TypesModule,
				RuntimeModule: opts.RuntimeModule,
			}),
		})
	}

	if opts.RuntimeModule == "" || opts.RuntimeModule == DefaultRuntimeModule {
		files = append(files, File{Name: RuntimeFileName, Content: Runtime()})
	}
	files = append(files, File{Name: IndexFileName, Content: GenerateIndex(names)})

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Writer writes generated files into a directory.
type Writer struct {
	dir    string
	logger *zap.SugaredLogger
}

// NewWriter creates a writer for dir.
func NewWriter(dir string, log *zap.SugaredLogger) *Writer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Writer{dir: dir, logger: log.Named("output")}
}

// Write stores files, skipping those whose content is already current.
// It returns the paths actually written.
func (w *Writer) Write(files []File) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", w.dir)
	}

	var written []string
	for _, f := range files {
		path := filepath.Join(w.dir, f.Name)
		if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, []byte(f.Content)) {
			w.logger.Debugw("Unchanged", logger.FieldFile, path)
			continue
		}
		if err := os.WriteFile(path, []byte(f.Content), 0644); err != nil {
			return written, errors.Wrapf(err, "failed to write %s", path)
		}
		w.logger.Debugw("Wrote file", logger.FieldFile, path, logger.FieldSize, len(f.Content))
		written = append(written, path)
	}
	return written, nil
}
