package depgraph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrylabs/scry/internal/config"
	"github.com/scrylabs/scry/internal/project"
	"github.com/scrylabs/scry/internal/types"
)

func buildProject(t *testing.T, files map[string]string) *project.Project {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	proj, err := project.NewCache(config.Default()).GetOrCreate(root)
	require.NoError(t, err)
	return proj
}

func edgeSet(graph *types.DependencyGraph) map[string]bool {
	set := make(map[string]bool)
	for _, e := range graph.Edges {
		set[e.From+"->"+e.To] = true
	}
	return set
}

func TestBuildResolvesRelativeImports(t *testing.T) {
	proj := buildProject(t, map[string]string{
		"src/app.ts":        "import { store } from './store';\nimport { log } from '../lib/log';\nimport axios from 'axios';\n",
		"src/store.ts":      "export const store = {};\n",
		"lib/log.ts":        "export function log(m: string) {}\n",
	})

	graph := Build(proj, Options{})
	edges := edgeSet(graph)
	assert.True(t, edges["src/app.ts->src/store.ts"], "extensionless ./store resolves to src/store.ts")
	assert.True(t, edges["src/app.ts->lib/log.ts"], "../ segments resolve across directories")
	assert.Len(t, graph.Edges, 2, "package imports are excluded by default")
}

func TestBuildIncludeExternal(t *testing.T) {
	proj := buildProject(t, map[string]string{
		"app.ts": "import axios from 'axios';\n",
	})

	assert.Empty(t, Build(proj, Options{}).Edges)

	graph := Build(proj, Options{IncludeExternal: true})
	require.Len(t, graph.Edges, 1)
	assert.Equal(t, "axios", graph.Edges[0].To)
}

func TestBuildUnresolvableSpecifierDropped(t *testing.T) {
	proj := buildProject(t, map[string]string{
		"app.ts": "import { gone } from './missing';\n",
	})

	graph := Build(proj, Options{})
	assert.Empty(t, graph.Edges)
	require.Len(t, graph.Nodes, 1)
}

func TestBuildPythonModuleResolution(t *testing.T) {
	proj := buildProject(t, map[string]string{
		"main.py":            "from pkg.worker import run\nimport helpers\n",
		"helpers.py":         "def assist():\n    pass\n",
		"pkg/__init__.py":    "",
		"pkg/worker.py":      "from . import sibling\n",
		"pkg/sibling.py":     "x = 1\n",
	})

	graph := Build(proj, Options{})
	edges := edgeSet(graph)
	assert.True(t, edges["main.py->pkg/worker.py"], "dotted module path resolves to a file")
	assert.True(t, edges["main.py->helpers.py"])
}

func TestCycleReportedInDiscoveryOrder(t *testing.T) {
	proj := buildProject(t, map[string]string{
		"a.ts": "import './b';\n",
		"b.ts": "import './c';\n",
		"c.ts": "import './a';\n",
	})

	graph := Build(proj, Options{DetectCircular: true})
	require.Len(t, graph.CircularDependencies, 1)
	assert.Equal(t, []string{"a.ts", "b.ts", "c.ts"}, graph.CircularDependencies[0])
}

func TestCycleRotationIsSameCycle(t *testing.T) {
	// The entry node determines the reported rotation: DFS starting at b
	// (after a is excluded) reports the same cycle starting from b.
	proj := buildProject(t, map[string]string{
		"b.ts": "import './c';\n",
		"c.ts": "import './b';\n",
	})

	graph := Build(proj, Options{DetectCircular: true})
	require.Len(t, graph.CircularDependencies, 1)
	assert.Equal(t, []string{"b.ts", "c.ts"}, graph.CircularDependencies[0])
}

func TestNoCyclesWithoutDetectFlag(t *testing.T) {
	proj := buildProject(t, map[string]string{
		"a.ts": "import './b';\n",
		"b.ts": "import './a';\n",
	})
	assert.Empty(t, Build(proj, Options{}).CircularDependencies)
}

func TestClustersPartitionConnectedFiles(t *testing.T) {
	proj := buildProject(t, map[string]string{
		"a.ts":     "import './b';\n",
		"b.ts":     "export const b = 1;\n",
		"x.ts":     "import './y';\n",
		"y.ts":     "export const y = 1;\n",
		"alone.ts": "export const z = 1;\n",
	})

	graph := Build(proj, Options{})
	require.Len(t, graph.Clusters, 2)
	assert.Equal(t, []string{"a.ts", "b.ts"}, graph.Clusters[0])
	assert.Equal(t, []string{"x.ts", "y.ts"}, graph.Clusters[1])
}

func TestTargetFileRestrictsScope(t *testing.T) {
	proj := buildProject(t, map[string]string{
		"ui/views/home.ts":  "import '../state';\n",
		"ui/state.ts":       "export const state = {};\n",
		"deep/far/away.ts":  "export const far = 1;\n",
	})

	graph := Build(proj, Options{TargetFile: "ui/views/home.ts", MaxDepth: 1})
	files := make([]string, 0, len(graph.Nodes))
	for _, n := range graph.Nodes {
		files = append(files, n.File)
	}
	assert.Contains(t, files, "ui/views/home.ts")
	assert.Contains(t, files, "ui/state.ts")
	assert.NotContains(t, files, "deep/far/away.ts")
}

func TestRenderMermaid(t *testing.T) {
	proj := buildProject(t, map[string]string{
		"a.ts": "import './b';\n",
		"b.ts": "import './a';\n",
	})

	graph := Build(proj, Options{DetectCircular: true})
	rendered := Render(graph)
	assert.Contains(t, rendered, "graph TD")
	assert.Contains(t, rendered, "a.ts")
	assert.Contains(t, rendered, "Circular dependencies:")
}
