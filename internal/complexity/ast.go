package complexity

import (
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/scrylabs/scry/internal/debug"
	"github.com/scrylabs/scry/internal/langdetect"
)

// astCalculator measures curly-brace languages on a real syntax tree.
type astCalculator struct {
	lang langdetect.Language
}

func (c *astCalculator) parse(source []byte) *tree_sitter.Tree {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	var ptr unsafe.Pointer
	switch c.lang {
	case langdetect.LanguageJavaScript:
		ptr = tree_sitter_javascript.Language()
	default:
		ptr = tree_sitter_typescript.LanguageTypescript()
	}
	if err := parser.SetLanguage(tree_sitter.NewLanguage(ptr)); err != nil {
		debug.Log("complexity", "failed to set language %s: %v", c.lang, err)
		return nil
	}
	return parser.Parse(source, nil)
}

// decisionKinds each add one path to cyclomatic complexity.
var decisionKinds = map[string]bool{
	"if_statement":           true,
	"for_statement":          true,
	"for_in_statement":       true,
	"while_statement":        true,
	"do_statement":           true,
	"switch_case":            true,
	"catch_clause":           true,
	"ternary_expression":     true,
	"conditional_expression": true,
}

// Cyclomatic returns 1 + the number of decision points in the tree. The
// floor of 1 is the single path through straight-line code.
func (c *astCalculator) Cyclomatic(source []byte) int {
	tree := c.parse(source)
	if tree == nil {
		return 1
	}
	defer tree.Close()
	return 1 + c.countDecisions(tree.RootNode(), source)
}

func (c *astCalculator) countDecisions(node *tree_sitter.Node, source []byte) int {
	count := 0
	if decisionKinds[node.Kind()] {
		count++
	}
	if node.Kind() == "binary_expression" {
		if op := node.ChildByFieldName("operator"); op != nil {
			switch string(source[op.StartByte():op.EndByte()]) {
			case "&&", "||", "??":
				count++
			}
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil {
			count += c.countDecisions(child, source)
		}
	}
	return count
}

// nestingKinds increase the nesting penalty for everything inside them.
var nestingKinds = map[string]bool{
	"if_statement":     true,
	"for_statement":    true,
	"for_in_statement": true,
	"while_statement":  true,
	"do_statement":     true,
	"switch_statement": true,
	"catch_clause":     true,
}

// Cognitive scores control structures at 1 + current nesting depth, so
// deeply nested branching costs more than the same branches written flat.
// Boolean operators add 1 without nesting; else clauses add 1.
func (c *astCalculator) Cognitive(source []byte) int {
	tree := c.parse(source)
	if tree == nil {
		return 0
	}
	defer tree.Close()

	var walk func(node *tree_sitter.Node, depth int) int
	walk = func(node *tree_sitter.Node, depth int) int {
		total := 0
		kind := node.Kind()
		childDepth := depth

		switch {
		case nestingKinds[kind]:
			// An else-if chain is one structure: the nested if directly
			// under an else clause does not pay the nesting penalty again.
			parent := node.Parent()
			if kind == "if_statement" && parent != nil && parent.Kind() == "else_clause" {
				total++
			} else {
				total += 1 + depth
			}
			childDepth = depth + 1
		case kind == "else_clause":
			total++
		case kind == "ternary_expression" || kind == "conditional_expression":
			total += 1 + depth
			childDepth = depth + 1
		case kind == "binary_expression":
			if op := node.ChildByFieldName("operator"); op != nil {
				switch string(source[op.StartByte():op.EndByte()]) {
				case "&&", "||", "??":
					total++
				}
			}
		}

		for i := uint(0); i < node.NamedChildCount(); i++ {
			if child := node.NamedChild(i); child != nil {
				total += walk(child, childDepth)
			}
		}
		return total
	}
	return walk(tree.RootNode(), 0)
}
