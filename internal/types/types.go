package types

// SymbolKind classifies a declared symbol. Kind is determined structurally:
// a variable initialized to a function literal is a function, not a variable.
type SymbolKind string

const (
	SymbolKindFunction  SymbolKind = "function"
	SymbolKindClass     SymbolKind = "class"
	SymbolKindInterface SymbolKind = "interface"
	SymbolKindType      SymbolKind = "type"
	SymbolKindVariable  SymbolKind = "variable"
	SymbolKindMethod    SymbolKind = "method"
)

// Symbol is a single declaration site discovered in a project.
// Line is 1-based, Column is 0-based.
type Symbol struct {
	Name    string     `json:"name"`
	Kind    SymbolKind `json:"kind"`
	File    string     `json:"file"`
	Line    int        `json:"line"`
	Column  int        `json:"column"`
	Preview string     `json:"preview,omitempty"`
}

// RefRole distinguishes declaration sites from every other occurrence.
type RefRole string

const (
	RoleDefinition RefRole = "definition"
	RoleUsage      RefRole = "usage"
)

// Reference is one syntactic occurrence of a symbol name.
type Reference struct {
	Name      string  `json:"name"`
	File      string  `json:"file"`
	Line      int     `json:"line"`
	Column    int     `json:"column"`
	Statement string  `json:"statement,omitempty"`
	Role      RefRole `json:"role"`
}

// Import is a single import specifier extracted from a unit.
type Import struct {
	Path string `json:"path"`
	Line int    `json:"line"`
}

// DependencyNode is one file in the import graph with its direct
// import and export lists.
type DependencyNode struct {
	File    string   `json:"file"`
	Imports []string `json:"imports"`
	Exports []string `json:"exports,omitempty"`
}

// DependencyEdge links an importing file to a resolved target.
// Relation is always "import" today; kept explicit for forward compatibility.
type DependencyEdge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
}

// DependencyGraph is the full project import graph.
// CircularDependencies holds minimal cycles in DFS discovery order; the same
// cycle may appear more than once when reached from unrelated DFS roots.
// Clusters are the non-trivial undirected connected components: every file
// that appears in an edge belongs to exactly one cluster, files without
// edges are excluded.
type DependencyGraph struct {
	Nodes                []DependencyNode `json:"nodes"`
	Edges                []DependencyEdge `json:"edges"`
	CircularDependencies [][]string       `json:"circularDependencies"`
	Clusters             [][]string       `json:"clusters"`
}

// MetricStatus reports whether a metric value passed its threshold.
type MetricStatus string

const (
	StatusPass MetricStatus = "pass"
	StatusFail MetricStatus = "fail"
)

// MetricResult is a single thresholded metric value.
type MetricResult struct {
	Value     int          `json:"value"`
	Threshold int          `json:"threshold"`
	Status    MetricStatus `json:"status"`
}

// HalsteadMetrics are the token-count-derived software-science estimates.
// They are reproducible heuristics, not calibrated predictions.
type HalsteadMetrics struct {
	DistinctOperators int     `json:"distinctOperators"`
	DistinctOperands  int     `json:"distinctOperands"`
	TotalOperators    int     `json:"totalOperators"`
	TotalOperands     int     `json:"totalOperands"`
	Vocabulary        int     `json:"vocabulary"`
	Length            int     `json:"length"`
	Volume            float64 `json:"volume"`
	Difficulty        float64 `json:"difficulty"`
	Effort            float64 `json:"effort"`
	TimeToProgram     float64 `json:"timeToProgram"`
	EstimatedDefects  float64 `json:"estimatedDefects"`
}

// AdditionalMetrics are the line- and declaration-count measurements.
type AdditionalMetrics struct {
	LinesOfCode           int     `json:"linesOfCode"`
	CommentLines          int     `json:"commentLines"`
	CommentRatio          float64 `json:"commentRatio"`
	FunctionCount         int     `json:"functionCount"`
	ClassCount            int     `json:"classCount"`
	AverageFunctionLength float64 `json:"averageFunctionLength"`
}

// ComplexityReport aggregates every metric family for one analyzed unit.
// Cyclomatic.Value is always >= 1: a unit with zero branches has one path.
type ComplexityReport struct {
	Cyclomatic MetricResult      `json:"cyclomaticComplexity"`
	Cognitive  MetricResult      `json:"cognitiveComplexity"`
	Halstead   HalsteadMetrics   `json:"halsteadMetrics"`
	Additional AdditionalMetrics `json:"additionalMetrics"`
}

// Diagnostic records a contained per-file failure (parse error, unreadable
// file) that degraded completeness without aborting the operation.
type Diagnostic struct {
	File    string `json:"file"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}
