package depgraph

import (
	"path"
	"sort"
	"strings"

	"github.com/scrylabs/scry/internal/debug"
	"github.com/scrylabs/scry/internal/langdetect"
	"github.com/scrylabs/scry/internal/project"
	"github.com/scrylabs/scry/internal/types"
)

// Options tune graph construction. MaxDepth only applies when TargetFile
// is set.
type Options struct {
	TargetFile      string
	MaxDepth        int
	IncludeExternal bool
	DetectCircular  bool
}

// Build constructs the import graph for a project. Specifiers that cannot
// be resolved to an existing unit are dropped: graphs are best effort,
// never fatal.
func Build(proj *project.Project, opts Options) *types.DependencyGraph {
	graph := &types.DependencyGraph{}

	paths := proj.Paths()
	if opts.TargetFile != "" {
		paths = nearTarget(paths, opts.TargetFile, opts.MaxDepth)
	}
	inScope := make(map[string]bool, len(paths))
	for _, p := range paths {
		inScope[p] = true
	}

	adjacency := make(map[string][]string)
	for _, from := range paths {
		unit := proj.Units[from]
		node := types.DependencyNode{File: from, Exports: unit.Exports}

		for _, imp := range unit.Imports {
			resolved, external := resolve(proj, from, imp.Path)
			if external {
				if opts.IncludeExternal {
					node.Imports = append(node.Imports, imp.Path)
					graph.Edges = append(graph.Edges, types.DependencyEdge{
						From: from, To: imp.Path, Relation: "import",
					})
				}
				continue
			}
			if resolved == "" {
				debug.LogGraph("dropped unresolvable specifier %q in %s", imp.Path, from)
				continue
			}
			node.Imports = append(node.Imports, resolved)
			if !inScope[resolved] {
				continue
			}
			graph.Edges = append(graph.Edges, types.DependencyEdge{
				From: from, To: resolved, Relation: "import",
			})
			adjacency[from] = append(adjacency[from], resolved)
		}
		graph.Nodes = append(graph.Nodes, node)
	}

	if opts.DetectCircular {
		graph.CircularDependencies = findCycles(paths, adjacency)
	}
	graph.Clusters = findClusters(adjacency)
	return graph
}

// resolve maps an import specifier to a project-relative unit path.
// external reports specifiers that name a package rather than a file.
func resolve(proj *project.Project, from, specifier string) (resolved string, external bool) {
	unit := proj.Units[from]
	dir := path.Dir(from)

	switch unit.Language {
	case langdetect.LanguagePython:
		return resolvePython(proj, dir, specifier), false
	case langdetect.LanguageDart:
		if strings.HasPrefix(specifier, "package:") || strings.HasPrefix(specifier, "dart:") {
			return "", true
		}
		return existing(proj, path.Join(dir, specifier), langdetect.LanguageDart), false
	default:
		if !strings.HasPrefix(specifier, "./") && !strings.HasPrefix(specifier, "../") {
			return "", true
		}
		return existing(proj, path.Join(dir, specifier), unit.Language), false
	}
}

// existing checks candidate paths against the parsed units, appending the
// language's default extension (and sibling extensions) when the specifier
// has none, plus the index-file convention for directories.
func existing(proj *project.Project, candidate string, lang langdetect.Language) string {
	if proj.Units[candidate] != nil {
		return candidate
	}
	if path.Ext(candidate) != "" {
		return ""
	}
	exts := []string{lang.Ext()}
	switch lang {
	case langdetect.LanguageTypeScript:
		exts = []string{".ts", ".tsx", ".js", ".jsx"}
	case langdetect.LanguageJavaScript:
		exts = []string{".js", ".jsx", ".ts", ".tsx"}
	}
	for _, ext := range exts {
		if proj.Units[candidate+ext] != nil {
			return candidate + ext
		}
	}
	for _, ext := range exts {
		if idx := candidate + "/index" + ext; proj.Units[idx] != nil {
			return idx
		}
	}
	return ""
}

// resolvePython maps dotted module paths to files. Leading dots walk up
// from the importing file's directory; absolute module paths resolve from
// the project root.
func resolvePython(proj *project.Project, dir, specifier string) string {
	base := ""
	if strings.HasPrefix(specifier, ".") {
		dots := 0
		for dots < len(specifier) && specifier[dots] == '.' {
			dots++
		}
		base = dir
		for i := 1; i < dots; i++ {
			base = path.Dir(base)
		}
		specifier = specifier[dots:]
		if specifier == "" {
			return ""
		}
	}

	rel := strings.ReplaceAll(specifier, ".", "/")
	candidate := rel
	if base != "" && base != "." {
		candidate = path.Join(base, rel)
	}
	if unit := proj.Units[candidate+".py"]; unit != nil {
		return candidate + ".py"
	}
	if unit := proj.Units[candidate+"/__init__.py"]; unit != nil {
		return candidate + "/__init__.py"
	}
	return ""
}

// findCycles runs DFS from every node in sorted order, maintaining a
// recursion stack and path list. A back edge yields the path slice from the
// first occurrence of the revisited node. Cycles reached from unrelated
// roots are reported again rather than deduplicated; discovery order is part
// of the contract.
func findCycles(paths []string, adjacency map[string][]string) [][]string {
	var cycles [][]string
	onStack := make(map[string]bool)
	visited := make(map[string]bool)
	var pathStack []string

	var dfs func(node string)
	dfs = func(node string) {
		onStack[node] = true
		pathStack = append(pathStack, node)

		for _, next := range adjacency[node] {
			if onStack[next] {
				for i, p := range pathStack {
					if p == next {
						cycle := make([]string, len(pathStack)-i)
						copy(cycle, pathStack[i:])
						cycles = append(cycles, cycle)
						break
					}
				}
				continue
			}
			if !visited[next] {
				dfs(next)
			}
		}

		pathStack = pathStack[:len(pathStack)-1]
		onStack[node] = false
		visited[node] = true
	}

	for _, p := range paths {
		if !visited[p] {
			dfs(p)
		}
	}
	return cycles
}

// findClusters groups files into undirected connected components via
// union-find. Components with fewer than two members are not clusters.
func findClusters(adjacency map[string][]string) [][]string {
	parent := make(map[string]string)
	var find func(x string) string
	find = func(x string) string {
		if _, ok := parent[x]; !ok {
			parent[x] = x
		}
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for from, tos := range adjacency {
		for _, to := range tos {
			union(from, to)
		}
	}

	members := make(map[string][]string)
	for node := range parent {
		root := find(node)
		members[root] = append(members[root], node)
	}

	var clusters [][]string
	for _, cluster := range members {
		if len(cluster) < 2 {
			continue
		}
		sort.Strings(cluster)
		clusters = append(clusters, cluster)
	}
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i][0] < clusters[j][0]
	})
	return clusters
}

// nearTarget keeps paths whose directory is within maxDepth hops of the
// target file's directory, walking up and down the path tree.
func nearTarget(paths []string, target string, maxDepth int) []string {
	targetDir := path.Dir(target)
	var out []string
	for _, p := range paths {
		if p == target || dirDistance(path.Dir(p), targetDir) <= maxDepth {
			out = append(out, p)
		}
	}
	return out
}

// dirDistance counts the path segments separating two directories: hops up
// from a to the common ancestor plus hops down to b.
func dirDistance(a, b string) int {
	if a == b {
		return 0
	}
	as := splitDir(a)
	bs := splitDir(b)
	common := 0
	for common < len(as) && common < len(bs) && as[common] == bs[common] {
		common++
	}
	return (len(as) - common) + (len(bs) - common)
}

func splitDir(dir string) []string {
	if dir == "." || dir == "" {
		return nil
	}
	return strings.Split(dir, "/")
}
