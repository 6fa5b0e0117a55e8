package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/scrylabs/scry/internal/config"
	"github.com/scrylabs/scry/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestFindSymbolAcrossLanguages(t *testing.T) {
	root := writeTree(t, map[string]string{
		"api.ts":    "export function getUser(id: string) {}\n",
		"svc.py":    "def get_user(user_id):\n    pass\n",
		"view.dart": "Widget getUserCard() {\n  return Card();\n}\n",
	})

	e := New(config.Default())
	result := e.FindSymbol(types.FindSymbolRequest{SymbolName: "getUser", ProjectPath: root})
	require.True(t, result.Success)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, 3, result.FilesAnalyzed)
	assert.Equal(t, "getUser", result.Symbols[0].Name, "exact match sorts first")
}

func TestFindSymbolValidation(t *testing.T) {
	e := New(config.Default())

	missing := e.FindSymbol(types.FindSymbolRequest{ProjectPath: "."})
	assert.False(t, missing.Success)
	assert.Contains(t, missing.Message, "symbolName")

	badKind := e.FindSymbol(types.FindSymbolRequest{
		SymbolName: "x", ProjectPath: ".", KindFilter: "gadget",
	})
	assert.False(t, badKind.Success)
	assert.Contains(t, badKind.Message, "gadget")
}

func TestFindSymbolEmptyProject(t *testing.T) {
	root := writeTree(t, map[string]string{"README.md": "no source here\n"})

	e := New(config.Default())
	result := e.FindSymbol(types.FindSymbolRequest{SymbolName: "x", ProjectPath: root})
	assert.True(t, result.Success)
	assert.Equal(t, "no source files found", result.Message)
}

func TestFindSymbolSuggestsNearMisses(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.ts": "export function getUser() {}\n",
	})

	e := New(config.Default())
	result := e.FindSymbol(types.FindSymbolRequest{SymbolName: "getUsr", ProjectPath: root})
	require.True(t, result.Success)
	assert.Zero(t, result.Count)
	assert.Contains(t, result.Suggestions, "getUser")
}

func TestFindReferencesSplitsRoles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"users.py": "def get_user(user_id):\n    return None\n",
		"app.py":   "from users import get_user\n\nu = get_user(1)\n",
	})

	e := New(config.Default())
	result := e.FindReferences(types.FindReferencesRequest{SymbolName: "get_user", ProjectPath: root})
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Definitions)
	assert.Equal(t, 2, result.Usages)
	assert.Len(t, result.References, 3)
}

func TestAnalyzeDependencyGraph(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.ts": "import './b';\n",
		"b.ts": "import './c';\n",
		"c.ts": "import './a';\n",
	})

	e := New(config.Default())
	result := e.AnalyzeDependencyGraph(types.DependencyGraphRequest{
		ProjectPath:    root,
		DetectCircular: true,
		MaxDepth:       10,
	})
	require.True(t, result.Success)
	assert.Equal(t, 3, result.Statistics.FileCount)
	assert.Equal(t, 3, result.Statistics.EdgeCount)
	assert.Equal(t, 1, result.Statistics.CycleCount)
	assert.Equal(t, 1, result.Statistics.ClusterCount)
	assert.Contains(t, result.Rendered, "graph TD")
	assert.NotEmpty(t, result.Statistics.ContentHash)
}

func TestAnalyzeDependencyGraphBadRoot(t *testing.T) {
	e := New(config.Default())
	result := e.AnalyzeDependencyGraph(types.DependencyGraphRequest{
		ProjectPath: filepath.Join(t.TempDir(), "absent"),
	})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "dependency analysis error")
}

func TestAnalyzeComplexity(t *testing.T) {
	e := New(config.Default())
	result := e.AnalyzeComplexity(types.ComplexityRequest{
		SourceText: "function f(x: number) {\n  if (x > 0) { return x; }\n  return 0;\n}\n",
	})
	require.True(t, result.Success)
	assert.Equal(t, "typescript", result.Language)
	assert.Equal(t, 2, result.Report.Cyclomatic.Value)
	assert.Equal(t, 100.0, result.OverallScore)

	empty := e.AnalyzeComplexity(types.ComplexityRequest{SourceText: "  "})
	assert.False(t, empty.Success)
}

func TestGracefulDegradationWithUnreadableFile(t *testing.T) {
	root := writeTree(t, map[string]string{
		"good.py": "def fine():\n    pass\n",
		"big.py":  "def too_big():\n    pass\n# padding beyond the size limit\n",
	})

	cfg := config.Default()
	cfg.Analysis.MaxFileSize = 30
	e := New(cfg)
	result := e.FindSymbol(types.FindSymbolRequest{SymbolName: "fine", ProjectPath: root})
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Count)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "big.py", result.Diagnostics[0].File)
}

func TestGracefulDegradationWithInvalidSyntax(t *testing.T) {
	root := writeTree(t, map[string]string{
		"good.ts":   "export function fine() {}\n",
		"broken.ts": "export function broken( {{{\n",
	})

	e := New(config.Default())
	result := e.FindSymbol(types.FindSymbolRequest{SymbolName: "fine", ProjectPath: root})
	require.True(t, result.Success, "one unparsable file must not fail the operation")
	assert.Equal(t, 1, result.Count)
}

func TestOperationsAreIdempotent(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.ts": "import './b';\nexport function alpha() {}\n",
		"b.ts": "export function beta() {}\n",
	})

	e := New(config.Default())
	req := types.DependencyGraphRequest{ProjectPath: root, DetectCircular: true}
	first := e.AnalyzeDependencyGraph(req)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.AnalyzeDependencyGraph(req))
	}
}
