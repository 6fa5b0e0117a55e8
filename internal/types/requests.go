package types

// Request/result shapes for the four engine operations. There is no wire
// protocol: these are plain in-process call/return objects. Every failure
// path is expressed through Success/Message rather than an error that
// terminates the interaction.

// FindSymbolRequest looks up declarations by (sub)name across a project.
type FindSymbolRequest struct {
	SymbolName  string `json:"symbolName"`
	ProjectPath string `json:"projectPath"`
	KindFilter  string `json:"kindFilter,omitempty"`
}

// FindSymbolResult lists matches, exact-name matches first.
type FindSymbolResult struct {
	Success       bool         `json:"success"`
	Message       string       `json:"message,omitempty"`
	Symbols       []Symbol     `json:"symbols"`
	Count         int          `json:"count"`
	FilesAnalyzed int          `json:"filesAnalyzed"`
	Suggestions   []string     `json:"suggestions,omitempty"`
	Diagnostics   []Diagnostic `json:"diagnostics,omitempty"`
}

// FindReferencesRequest locates all occurrences of a symbol. FilePath and
// Line optionally anchor precise mode; without them the resolver falls back
// to a project-wide exact-token scan.
type FindReferencesRequest struct {
	SymbolName  string `json:"symbolName"`
	ProjectPath string `json:"projectPath"`
	FilePath    string `json:"filePath,omitempty"`
	Line        int    `json:"line,omitempty"`
}

// FindReferencesResult splits occurrences into definitions and usages.
type FindReferencesResult struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message,omitempty"`
	References  []Reference  `json:"references"`
	Definitions int          `json:"definitions"`
	Usages      int          `json:"usages"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// DependencyGraphRequest builds the project import graph. TargetFile
// restricts output to files within MaxDepth directory hops of the target.
type DependencyGraphRequest struct {
	ProjectPath     string `json:"projectPath"`
	TargetFile      string `json:"targetFile,omitempty"`
	MaxDepth        int    `json:"maxDepth,omitempty"`
	IncludeExternal bool   `json:"includeExternal,omitempty"`
	DetectCircular  bool   `json:"detectCircular,omitempty"`
}

// GraphStatistics summarizes the graph for human consumption.
type GraphStatistics struct {
	FileCount    int    `json:"fileCount"`
	EdgeCount    int    `json:"edgeCount"`
	CycleCount   int    `json:"cycleCount"`
	ClusterCount int    `json:"clusterCount"`
	TotalBytes   int64  `json:"totalBytes"`
	ContentHash  string `json:"contentHash,omitempty"`
}

// DependencyGraphResult carries the graph plus a rendered diagram.
type DependencyGraphResult struct {
	Success     bool             `json:"success"`
	Message     string           `json:"message,omitempty"`
	Graph       *DependencyGraph `json:"graph,omitempty"`
	Rendered    string           `json:"rendered,omitempty"`
	Statistics  GraphStatistics  `json:"statistics"`
	Diagnostics []Diagnostic     `json:"diagnostics,omitempty"`
}

// ComplexityRequest analyzes a source snippet. Metrics selects a subset:
// "all" (default), "cyclomatic", "cognitive", or "halstead".
type ComplexityRequest struct {
	SourceText string `json:"sourceText"`
	Metrics    string `json:"metrics,omitempty"`
}

// ComplexityResult carries the report plus actionable recommendations for
// any metric that exceeded its threshold.
type ComplexityResult struct {
	Success         bool              `json:"success"`
	Message         string            `json:"message,omitempty"`
	Language        string            `json:"language,omitempty"`
	Report          *ComplexityReport `json:"report,omitempty"`
	Recommendations []string          `json:"recommendations,omitempty"`
	OverallScore    float64           `json:"overallScore"`
}
