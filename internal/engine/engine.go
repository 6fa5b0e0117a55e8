package engine

import (
	"fmt"
	"strings"

	"github.com/scrylabs/scry/internal/complexity"
	"github.com/scrylabs/scry/internal/config"
	"github.com/scrylabs/scry/internal/debug"
	"github.com/scrylabs/scry/internal/depgraph"
	"github.com/scrylabs/scry/internal/project"
	"github.com/scrylabs/scry/internal/refs"
	"github.com/scrylabs/scry/internal/symbols"
	"github.com/scrylabs/scry/internal/types"
)

// Engine exposes the four analysis operations behind request/result
// objects. Every failure path is expressed in the result: no operation
// returns a Go error or panics at the caller, so a driving agent can always
// parse something actionable.
type Engine struct {
	cfg   *config.Config
	cache *project.Cache
}

// New creates an engine with a process-lifetime project cache.
func New(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{cfg: cfg, cache: project.NewCache(cfg)}
}

// FindSymbol searches declarations by substring. An empty result set is a
// success with suggestions, not a failure.
func (e *Engine) FindSymbol(req types.FindSymbolRequest) *types.FindSymbolResult {
	if req.SymbolName == "" {
		return &types.FindSymbolResult{Message: "symbolName is required"}
	}
	kinds, err := parseKindFilter(req.KindFilter)
	if err != nil {
		return &types.FindSymbolResult{Message: err.Error()}
	}

	proj, errResult := e.openProject(req.ProjectPath)
	if errResult != "" {
		return &types.FindSymbolResult{Message: errResult}
	}
	if proj.FileCount() == 0 {
		return &types.FindSymbolResult{
			Success:     true,
			Message:     "no source files found",
			Symbols:     []types.Symbol{},
			Diagnostics: proj.Diagnostics,
		}
	}

	found := symbols.Find(proj, req.SymbolName, kinds)
	result := &types.FindSymbolResult{
		Success:       true,
		Symbols:       found,
		Count:         len(found),
		FilesAnalyzed: proj.FileCount(),
		Diagnostics:   proj.Diagnostics,
	}
	if len(found) == 0 {
		result.Message = fmt.Sprintf("no symbols matching %q", req.SymbolName)
		result.Suggestions = symbols.Suggest(proj, req.SymbolName)
	}
	return result
}

// FindReferences locates every occurrence of a symbol, split into
// definitions and usages.
func (e *Engine) FindReferences(req types.FindReferencesRequest) *types.FindReferencesResult {
	if req.SymbolName == "" {
		return &types.FindReferencesResult{Message: "symbolName is required"}
	}

	proj, errResult := e.openProject(req.ProjectPath)
	if errResult != "" {
		return &types.FindReferencesResult{Message: errResult}
	}
	if proj.FileCount() == 0 {
		return &types.FindReferencesResult{
			Success:     true,
			Message:     "no source files found",
			References:  []types.Reference{},
			Diagnostics: proj.Diagnostics,
		}
	}

	references := refs.Find(proj, req.SymbolName, refs.Options{
		File: req.FilePath,
		Line: req.Line,
	})
	definitions, usages := refs.Count(references)
	result := &types.FindReferencesResult{
		Success:     true,
		References:  references,
		Definitions: definitions,
		Usages:      usages,
		Diagnostics: proj.Diagnostics,
	}
	if len(references) == 0 {
		result.Message = fmt.Sprintf("no references to %q", req.SymbolName)
	}
	return result
}

// AnalyzeDependencyGraph builds the import graph plus a rendered diagram
// and summary statistics.
func (e *Engine) AnalyzeDependencyGraph(req types.DependencyGraphRequest) *types.DependencyGraphResult {
	proj, errResult := e.openProject(req.ProjectPath)
	if errResult != "" {
		return &types.DependencyGraphResult{Message: "dependency analysis error: " + errResult}
	}
	if proj.FileCount() == 0 {
		return &types.DependencyGraphResult{
			Success:     true,
			Message:     "no source files found",
			Diagnostics: proj.Diagnostics,
		}
	}

	maxDepth := req.MaxDepth
	if maxDepth <= 0 {
		maxDepth = config.DefaultMaxDepth
	}
	graph := depgraph.Build(proj, depgraph.Options{
		TargetFile:      req.TargetFile,
		MaxDepth:        maxDepth,
		IncludeExternal: req.IncludeExternal,
		DetectCircular:  req.DetectCircular,
	})

	return &types.DependencyGraphResult{
		Success:  true,
		Graph:    graph,
		Rendered: depgraph.Render(graph),
		Statistics: types.GraphStatistics{
			FileCount:    len(graph.Nodes),
			EdgeCount:    len(graph.Edges),
			CycleCount:   len(graph.CircularDependencies),
			ClusterCount: len(graph.Clusters),
			TotalBytes:   proj.TotalBytes,
			ContentHash:  fmt.Sprintf("%016x", proj.ContentHash()),
		},
		Diagnostics: proj.Diagnostics,
	}
}

// AnalyzeComplexity measures a source snippet directly; no project is
// involved.
func (e *Engine) AnalyzeComplexity(req types.ComplexityRequest) *types.ComplexityResult {
	report, lang, err := complexity.Analyze(req.SourceText, complexity.Options{
		Metrics:             req.Metrics,
		CyclomaticThreshold: e.cfg.Thresholds.Cyclomatic,
		CognitiveThreshold:  e.cfg.Thresholds.Cognitive,
	})
	if err != nil {
		return &types.ComplexityResult{Message: err.Error()}
	}
	return &types.ComplexityResult{
		Success:         true,
		Language:        lang.String(),
		Report:          report,
		Recommendations: complexity.Recommendations(report),
		OverallScore:    complexity.Score(report),
	}
}

// openProject resolves and caches the project, translating errors into
// result-message strings.
func (e *Engine) openProject(path string) (*project.Project, string) {
	if path == "" {
		return nil, "projectPath is required"
	}
	proj, err := e.cache.GetOrCreate(path)
	if err != nil {
		debug.Log("engine", "project open failed: %v", err)
		return nil, err.Error()
	}
	return proj, ""
}

func parseKindFilter(filter string) ([]types.SymbolKind, error) {
	if filter == "" {
		return nil, nil
	}
	valid := map[types.SymbolKind]bool{
		types.SymbolKindFunction:  true,
		types.SymbolKindClass:     true,
		types.SymbolKindInterface: true,
		types.SymbolKindType:      true,
		types.SymbolKindVariable:  true,
		types.SymbolKindMethod:    true,
	}
	var kinds []types.SymbolKind
	for _, part := range strings.Split(filter, ",") {
		kind := types.SymbolKind(strings.TrimSpace(strings.ToLower(part)))
		if !valid[kind] {
			return nil, fmt.Errorf("unknown symbol kind %q (valid: function, class, interface, type, variable, method)", part)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
