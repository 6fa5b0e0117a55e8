package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/scrylabs/scry/internal/debug"
	"github.com/scrylabs/scry/internal/langdetect"
	"github.com/scrylabs/scry/internal/types"
)

// Unit is one parsed source file plus its extracted metadata. A Unit is
// owned exclusively by the project that created it and lives for the
// process lifetime; the AST handle is never shared across projects.
type Unit struct {
	Path     string
	Language langdetect.Language
	Content  []byte
	Tree     *tree_sitter.Tree // nil for line-scanned languages (Dart)
	Symbols  []types.Symbol
	Imports  []types.Import
	Exports  []string
	Hash     uint64
}

// Line returns the 1-based source line, or "" when out of range.
func (u *Unit) Line(n int) string {
	lines := strings.Split(string(u.Content), "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// Parser owns tree-sitter parsers and symbol queries per file extension.
// Not safe for concurrent use; callers needing parallelism create one
// Parser per worker.
type Parser struct {
	parsers map[string]*tree_sitter.Parser
	queries map[string]*tree_sitter.Query
}

// New creates a parser with all supported grammars loaded.
func New() *Parser {
	p := &Parser{
		parsers: make(map[string]*tree_sitter.Parser),
		queries: make(map[string]*tree_sitter.Query),
	}
	p.setupTypeScript()
	p.setupJavaScript()
	p.setupPython()
	return p
}

// Supported reports whether the extension has an extraction path, AST-backed
// or line-scanned.
func Supported(ext string) bool {
	switch ext {
	case ".ts", ".tsx", ".js", ".jsx", ".py", ".dart":
		return true
	}
	return false
}

// Parse builds a Unit for one file. The relative path is stored as-is so
// results stay stable regardless of project root location. Parse failures
// return an error; callers skip the file and continue with the rest of the
// project.
func (p *Parser) Parse(relPath string, content []byte) (unit *Unit, err error) {
	ext := strings.ToLower(filepath.Ext(relPath))
	lang := langdetect.FromExtension(ext)

	unit = &Unit{
		Path:     relPath,
		Language: lang,
		Content:  content,
		Hash:     xxhash.Sum64(content),
	}

	if lang == langdetect.LanguageDart {
		unit.Symbols = scanDartSymbols(relPath, content)
		unit.Imports = scanDartImports(content)
		unit.Exports = dartExports(unit.Symbols)
		return unit, nil
	}

	parser, ok := p.parsers[ext]
	if !ok {
		return nil, fmt.Errorf("no parser registered for %s", ext)
	}

	// Tree-sitter C library can mutate input buffers via CGO. Parse a copy
	// so Unit.Content stays immutable.
	defer func() {
		if r := recover(); r != nil {
			debug.LogParse("tree-sitter panic in %s: %v", relPath, r)
			unit = nil
			err = fmt.Errorf("parser panic in %s: %v", relPath, r)
		}
	}()
	buf := make([]byte, len(content))
	copy(buf, content)

	tree := parser.Parse(buf, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned no tree for %s", relPath)
	}
	unit.Tree = tree
	unit.Content = buf

	p.extract(unit, ext)
	return unit, nil
}

// symbolRank orders kinds for deduplication: when the same declaration
// matches several query patterns (an arrow-function variable, a method that
// also matches the plain function pattern) the structurally stronger kind
// wins. This is what makes a variable holding a function literal come out
// as a function.
var symbolRank = map[types.SymbolKind]int{
	types.SymbolKindMethod:    6,
	types.SymbolKindFunction:  5,
	types.SymbolKindClass:     4,
	types.SymbolKindInterface: 3,
	types.SymbolKindType:      2,
	types.SymbolKindVariable:  1,
}

func (p *Parser) extract(unit *Unit, ext string) {
	query := p.queries[ext]
	if query == nil {
		return
	}

	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()
	matches := qc.Matches(query, unit.Tree.RootNode(), unit.Content)
	captureNames := query.CaptureNames()

	type slot struct {
		sym      types.Symbol
		rank     int
		exported bool
	}
	seen := make(map[string]*slot)
	var order []string

	for {
		match := matches.Next()
		if match == nil {
			break
		}

		// Collect captured names from this match for name resolution.
		capturedNames := make(map[string]string, 2)
		for _, c := range match.Captures {
			name := captureNames[c.Index]
			if strings.Contains(name, ".name") || strings.Contains(name, ".source") {
				capturedNames[name] = string(unit.Content[c.Node.StartByte():c.Node.EndByte()])
			}
		}

		for _, c := range match.Captures {
			node := c.Node
			captureName := captureNames[c.Index]
			switch captureName {
			case "function", "method", "variable", "class", "interface", "type":
				kind := captureKind(captureName)
				name := capturedNames[captureName+".name"]
				if name == "" {
					if nameNode := node.ChildByFieldName("name"); nameNode != nil {
						name = string(unit.Content[nameNode.StartByte():nameNode.EndByte()])
					}
				}
				if name == "" {
					continue
				}
				pos := node.StartPosition()
				sym := types.Symbol{
					Name:    name,
					Kind:    kind,
					File:    unit.Path,
					Line:    int(pos.Row) + 1,
					Column:  int(pos.Column),
					Preview: previewLine(unit.Content, int(pos.Row)),
				}
				key := fmt.Sprintf("%s:%d", name, sym.Line)
				rank := symbolRank[kind]
				if existing, ok := seen[key]; ok {
					if rank > existing.rank {
						existing.sym = sym
						existing.rank = rank
					}
					continue
				}
				seen[key] = &slot{sym: sym, rank: rank, exported: isExported(&node, name, unit.Language)}
				order = append(order, key)

			case "import":
				if imp := p.parseImport(&node, unit.Content, capturedNames); imp != nil {
					unit.Imports = append(unit.Imports, *imp)
				}
			}
		}
	}

	for _, key := range order {
		s := seen[key]
		unit.Symbols = append(unit.Symbols, s.sym)
		if s.exported {
			unit.Exports = append(unit.Exports, s.sym.Name)
		}
	}
}

func captureKind(capture string) types.SymbolKind {
	switch capture {
	case "function":
		return types.SymbolKindFunction
	case "method":
		return types.SymbolKindMethod
	case "class":
		return types.SymbolKindClass
	case "interface":
		return types.SymbolKindInterface
	case "type":
		return types.SymbolKindType
	default:
		return types.SymbolKindVariable
	}
}

// parseImport extracts the import specifier from an import node.
func (p *Parser) parseImport(node *tree_sitter.Node, content []byte, capturedNames map[string]string) *types.Import {
	line := int(node.StartPosition().Row) + 1

	// TypeScript/JavaScript: source field captured as a quoted string.
	if source, ok := capturedNames["import.source"]; ok {
		return &types.Import{Path: strings.Trim(source, `"'`), Line: line}
	}
	if sourceNode := node.ChildByFieldName("source"); sourceNode != nil {
		source := string(content[sourceNode.StartByte():sourceNode.EndByte()])
		return &types.Import{Path: strings.Trim(source, `"'`), Line: line}
	}

	// Python: parse the statement text directly.
	if node.Kind() == "import_statement" || node.Kind() == "import_from_statement" {
		text := string(content[node.StartByte():node.EndByte()])
		if path := pythonImportPath(text); path != "" {
			return &types.Import{Path: path, Line: line}
		}
	}
	return nil
}

// pythonImportPath pulls the module path out of an import statement.
// "from a.b import c" -> "a.b", "import a.b as x" -> "a.b".
func pythonImportPath(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if rest, ok := strings.CutPrefix(stmt, "from "); ok {
		if module, _, found := strings.Cut(rest, " import "); found {
			return strings.TrimSpace(module)
		}
		return ""
	}
	if rest, ok := strings.CutPrefix(stmt, "import "); ok {
		module := strings.TrimSpace(rest)
		if idx := strings.IndexAny(module, " ,"); idx >= 0 {
			module = module[:idx]
		}
		return module
	}
	return ""
}

// isExported decides visibility for graph export lists: TS/JS declarations
// under an export statement, Python names without a leading underscore.
func isExported(node *tree_sitter.Node, name string, lang langdetect.Language) bool {
	switch lang {
	case langdetect.LanguagePython:
		return !strings.HasPrefix(name, "_")
	case langdetect.LanguageTypeScript, langdetect.LanguageJavaScript:
		for parent := node.Parent(); parent != nil; parent = parent.Parent() {
			if parent.Kind() == "export_statement" {
				return true
			}
		}
		return false
	}
	return false
}

func previewLine(content []byte, row int) string {
	lines := strings.Split(string(content), "\n")
	if row < 0 || row >= len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[row])
}
