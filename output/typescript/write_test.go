package typescript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/tools/txtar"

	"github.com/nicu/typemockr/errors"
)

func TestAssemble(t *testing.T) {
	defs := sampleDefinitions()
	files, err := Assemble([]Document{
		{Source: "graphs/models.json", Definitions: defs},
		{Source: "graphs/billing.yaml", Definitions: defs[:1]},
	}, Options{OutputDir: "src/mocks"})
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"billing.mocks.ts", "index.ts", "mock-runtime.ts", "models.mocks.ts"}, names)
	assert.Equal(t, goldenFile(t, "index.ts"), files[1].Content)
	assert.Equal(t, Runtime(), files[2].Content)
	assert.Equal(t, goldenFile(t, "models.mocks.ts"), files[3].Content)
}

func TestAssembleExternalRuntime(t *testing.T) {
	files, err := Assemble([]Document{{Source: "a.json"}}, Options{RuntimeModule: "@app/testing"})
	require.NoError(t, err)
	for _, f := range files {
		assert.NotEqual(t, RuntimeFileName, f.Name)
	}
}

func TestAssembleNameCollision(t *testing.T) {
	_, err := Assemble([]Document{
		{Source: "v1/models.json"},
		{Source: "v2/models.yaml"},
	}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "models.mocks.ts")
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestWriterSkipsUnchangedFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "mocks")
	w := NewWriter(dir, zaptest.NewLogger(t).Sugar())
	files := []File{
		{Name: "a.mocks.ts", Content: "export {};\n"},
		{Name: "index.ts", Content: "export * from './a.mocks';\n"},
	}

	written, err := w.Write(files)
	require.NoError(t, err)
	assert.Len(t, written, 2)

	written, err = w.Write(files)
	require.NoError(t, err)
	assert.Empty(t, written)

	files[0].Content = "export const a = 1;\n"
	written, err = w.Write(files)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.mocks.ts")}, written)

	data, err := os.ReadFile(filepath.Join(dir, "a.mocks.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export const a = 1;\n", string(data))
}

// materialize writes the archive's files under a fresh directory. Names
// starting with "fresh/" or "current/" select the tree.
func materialize(t *testing.T, archive string) (fresh, current string) {
	t.Helper()
	root := t.TempDir()
	for _, f := range txtar.Parse([]byte(archive)).Files {
		path := filepath.Join(root, filepath.FromSlash(f.Name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, f.Data, 0644))
	}
	fresh, current = filepath.Join(root, "fresh"), filepath.Join(root, "current")
	require.NoError(t, os.MkdirAll(current, 0755))
	return fresh, current
}

func TestCompareDirectoriesUpToDate(t *testing.T) {
	fresh, current := materialize(t, `
-- fresh/models.mocks.ts --
export function createUserMock() {}
-- fresh/index.ts --
export * from './models.mocks';
-- current/models.mocks.ts --
export function createUserMock() {}
-- current/index.ts --
export * from './models.mocks';
-- current/handwritten.ts --
export const extra = true;
`)
	result, err := CompareDirectories(fresh, current)
	require.NoError(t, err)
	assert.True(t, result.UpToDate)
	assert.NoError(t, result.Err())
}

func TestCompareDirectoriesReportsChanges(t *testing.T) {
	fresh, current := materialize(t, `
-- fresh/models.mocks.ts --
export function createUserMock() { return 2; }
-- fresh/billing.mocks.ts --
export function createInvoiceMock() {}
-- fresh/index.ts --
export * from './billing.mocks';
export * from './models.mocks';
-- current/models.mocks.ts --
export function createUserMock() { return 1; }
-- current/index.ts --
export * from './billing.mocks';
export * from './models.mocks';
`)
	result, err := CompareDirectories(fresh, current)
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.Equal(t, []string{"models.mocks.ts"}, result.Differences)
	assert.Equal(t, []string{"billing.mocks.ts"}, result.Missing)

	err = result.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrOutOfDate))
}

func TestCheckRoundTrip(t *testing.T) {
	out := t.TempDir()
	files, err := Assemble([]Document{{Source: "models.json", Definitions: sampleDefinitions()}}, Options{OutputDir: out})
	require.NoError(t, err)
	_, err = NewWriter(out, nil).Write(files)
	require.NoError(t, err)

	tmp := t.TempDir()
	_, err = NewWriter(tmp, nil).Write(files)
	require.NoError(t, err)

	result, err := CompareDirectories(tmp, out)
	require.NoError(t, err)
	assert.True(t, result.UpToDate)

	changed := sampleDefinitions()
	changed[0].Body = "  return { ...overrides };\n"
	files, err = Assemble([]Document{{Source: "models.json", Definitions: changed}}, Options{OutputDir: out})
	require.NoError(t, err)
	tmp = t.TempDir()
	_, err = NewWriter(tmp, nil).Write(files)
	require.NoError(t, err)

	result, err = CompareDirectories(tmp, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"models.mocks.ts"}, result.Differences)
}
