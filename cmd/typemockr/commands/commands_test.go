package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/nicu/typemockr/config"
	"github.com/nicu/typemockr/errors"
	"github.com/nicu/typemockr/factory"
	"github.com/nicu/typemockr/infer"
	"github.com/nicu/typemockr/internal/util"
)

var graphs = txtar.Parse([]byte(`
Graph documents used by the command tests.

-- graphs/tree.json --
{
  "version": "1.0.0",
  "entities": [
    {"name": "TreeNode", "kind": "instance",
     "location": {"file": "src/tree.ts", "line": 1},
     "properties": [
       {"name": "id", "value": {"kind": "primitive", "type": "string"}},
       {"name": "children", "value": {"kind": "array", "element": {"kind": "reference", "target": "TreeNode"}}},
       {"name": "parent", "optional": true, "value": {"kind": "reference", "target": "TreeNode"}}
     ]}
  ]
}
-- graphs/users.yaml --
version: "1.0.0"
entities:
  - name: Role
    kind: union
    value:
      kind: union
      members:
        - {kind: constant, value: admin}
        - {kind: constant, value: member}
  - name: User
    kind: instance
    location: {file: src/user.ts, line: 3}
    properties:
      - name: email
        value: {kind: primitive, type: string}
      - name: role
        value: {kind: reference, target: Role}
      - name: blob
        value: {kind: template-literal}
-- graphs/future.json --
{"version": "2.1.0", "entities": []}
`))

// workspace materializes the graphs and returns a default config writing
// into <root>/mocks.
func workspace(t *testing.T) (string, *config.Config) {
	t.Helper()
	root := t.TempDir()
	for _, f := range graphs.Files {
		path := filepath.Join(root, filepath.FromSlash(f.Name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, f.Data, 0644))
	}

	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.LoadWithViper(v)
	require.NoError(t, err)
	cfg.Output.Dir = filepath.Join(root, "mocks")
	cfg.Output.TypesModule = "@app/types"
	return root, cfg
}

func TestGenerateWritesOutputDirectory(t *testing.T) {
	root, cfg := workspace(t)
	inputs := []string{
		filepath.Join(root, "graphs", "tree.json"),
		filepath.Join(root, "graphs", "users.yaml"),
	}

	sum, written, err := generate(context.Background(), cfg, inputs)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Documents)
	assert.Equal(t, 3, sum.Definitions)
	assert.Equal(t, 1, sum.Diagnostics[factory.DiagUnsupported])
	assert.Len(t, written, 4)

	tree, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "tree.mocks.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(tree), "export function createTreeNodeMock(overrides: Partial<TreeNode> = {}, options: MockOptions = {}): TreeNode {")
	assert.Contains(t, string(tree), "import type { TreeNode } from '@app/types';")

	users, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "users.mocks.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(users), "faker.helpers.arrayElement(['admin', 'member'] as const)")
	assert.Contains(t, string(users), "role: createRoleMock(),")

	index, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "index.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "export * from './tree.mocks';")
	assert.Contains(t, string(index), "export * from './users.mocks';")

	_, written, err = generate(context.Background(), cfg, inputs)
	require.NoError(t, err)
	assert.Empty(t, written, "second run leaves unchanged files alone")
}

func TestGenerateHonoursMaxDepthAndMappings(t *testing.T) {
	root, cfg := workspace(t)
	cfg.Generator.MaxDepth = util.Ptr(4)
	cfg.Mapping.Rules = []infer.Mapping{{Expr: "faker.internet.email()", Patterns: []string{"*.email"}}}

	_, _, err := generate(context.Background(), cfg, []string{
		filepath.Join(root, "graphs", "tree.json"),
		filepath.Join(root, "graphs", "users.yaml"),
	})
	require.NoError(t, err)

	tree, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "tree.mocks.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(tree), "const { depth = 0, maxDepth = 4 } = options;")

	users, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "users.mocks.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(users), "email: faker.internet.email(),")
}

func TestGenerateRejectsIncompatibleDocument(t *testing.T) {
	root, cfg := workspace(t)
	_, _, err := generate(context.Background(), cfg, []string{
		filepath.Join(root, "graphs", "tree.json"),
		filepath.Join(root, "graphs", "future.json"),
	})
	require.Error(t, err)
	assert.True(t, errors.IsIncompatibleVersion(err))

	_, statErr := os.Stat(cfg.Output.Dir)
	assert.True(t, os.IsNotExist(statErr), "nothing is written when a document fails")
}

func TestCheckDetectsStaleMocks(t *testing.T) {
	root, cfg := workspace(t)
	inputs := []string{filepath.Join(root, "graphs", "tree.json")}

	result, err := check(context.Background(), cfg, inputs)
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.Contains(t, result.Missing, "tree.mocks.ts")

	_, _, err = generate(context.Background(), cfg, inputs)
	require.NoError(t, err)

	result, err = check(context.Background(), cfg, inputs)
	require.NoError(t, err)
	assert.True(t, result.UpToDate)

	cfg.Generator.MaxDepth = util.Ptr(5)
	result, err = check(context.Background(), cfg, inputs)
	require.NoError(t, err)
	assert.Equal(t, []string{"tree.mocks.ts"}, result.Differences)
	assert.True(t, errors.Is(result.Err(), errors.ErrOutOfDate))
}

func TestFormatCommand(t *testing.T) {
	root, cfg := workspace(t)
	inputs := []string{filepath.Join(root, "graphs", "tree.json")}

	marker := filepath.Join(root, "formatted.txt")
	cfg.Output.FormatCommand = "sh -c 'echo \"$@\" > " + marker + "' format"
	_, written, err := generate(context.Background(), cfg, inputs)
	require.NoError(t, err)

	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(written, " ")+"\n", string(data))

	cfg.Output.FormatCommand = "false"
	cfg.Generator.MaxDepth = util.Ptr(3)
	_, _, err = generate(context.Background(), cfg, inputs)
	assert.Error(t, err)

	cfg.Output.FormatCommand = "prettier 'unterminated"
	cfg.Generator.MaxDepth = util.Ptr(4)
	_, _, err = generate(context.Background(), cfg, inputs)
	assert.Error(t, err)
}

func TestResolveInputs(t *testing.T) {
	cfg := &config.Config{Input: config.InputConfig{Files: []string{"a.json"}}}

	got, err := resolveInputs([]string{"b.json"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.json"}, got)

	got, err = resolveInputs(nil, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json"}, got)

	_, err = resolveInputs(nil, &config.Config{})
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestRenderConfig(t *testing.T) {
	_, cfg := workspace(t)

	for _, format := range []string{"toml", "json", "yaml"} {
		var buf bytes.Buffer
		require.NoError(t, renderConfig(&buf, cfg, format), format)
		assert.Contains(t, buf.String(), "max_depth", format)
		assert.Contains(t, buf.String(), "@app/types", format)
	}

	var buf bytes.Buffer
	err := renderConfig(&buf, cfg, "ini")
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedFormat(err))
}

func TestWhereTable(t *testing.T) {
	table, err := whereTable([]config.Setting{
		{Key: "output.dir", Value: "mocks", Source: config.SourceDefault, Path: "built-in default"},
		{Key: "generator.max_depth", Value: 3, Source: config.SourceProject, Path: "/repo/typemockr.toml"},
	})
	require.NoError(t, err)
	assert.Contains(t, table, "output.dir")
	assert.Contains(t, table, "/repo/typemockr.toml")
}

func TestVersionCommandJSON(t *testing.T) {
	var buf bytes.Buffer
	VersionCmd.SetOut(&buf)
	VersionCmd.SetArgs([]string{"--json"})
	require.NoError(t, VersionCmd.Execute())
	assert.Contains(t, buf.String(), `"graph_format"`)
}
