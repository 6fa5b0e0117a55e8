package refs

import (
	"regexp"
	"sort"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/scrylabs/scry/internal/parser"
	"github.com/scrylabs/scry/internal/project"
	"github.com/scrylabs/scry/internal/types"
)

// Options selects between precise and fallback resolution. When File and
// Line name a declaration site, occurrences in that file are restricted to
// the ones bound to that declaration, so a shadowed local does not pollute
// results for the outer binding. Name matches in other files are kept:
// without whole-program import resolution they cannot be told apart.
type Options struct {
	File string
	Line int
}

// occurrence is one name hit plus the position data binding needs.
// scopeStart/scopeEnd are only meaningful for definitions: the byte range
// in which the declared name is visible.
type occurrence struct {
	ref        types.Reference
	start      uint
	scopeStart uint
	scopeEnd   uint
}

// identifierKinds are the AST node kinds that can carry a symbol name.
var identifierKinds = map[string]bool{
	"identifier":                    true,
	"property_identifier":           true,
	"type_identifier":               true,
	"shorthand_property_identifier": true,
}

// declarationKinds are parent node kinds whose name field marks the
// occurrence as a definition rather than a usage.
var declarationKinds = map[string]bool{
	"function_declaration":           true,
	"generator_function_declaration": true,
	"method_definition":              true,
	"class_declaration":              true,
	"abstract_class_declaration":     true,
	"interface_declaration":          true,
	"type_alias_declaration":         true,
	"enum_declaration":               true,
	"variable_declarator":            true,
	"function_definition":            true, // python
	"class_definition":               true, // python
}

// scopeKinds bound name visibility for precise-mode binding. Anything not
// inside one of these is module scoped.
var scopeKinds = map[string]bool{
	"function_declaration":           true,
	"generator_function_declaration": true,
	"function_expression":            true,
	"arrow_function":                 true,
	"method_definition":              true,
	"function_definition":            true,
	"lambda":                         true,
	"class_declaration":              true,
	"class_definition":               true,
}

// Find locates every occurrence of name across the project. A name with no
// occurrences yields an empty slice, never an error. Ordering is file path,
// then line, then column.
func Find(proj *project.Project, name string, opts Options) []types.Reference {
	if name == "" {
		return nil
	}

	perFile := make(map[string][]occurrence)
	for _, path := range proj.Paths() {
		unit := proj.Units[path]
		if unit.Tree != nil {
			perFile[path] = findInTree(unit, name)
		} else {
			perFile[path] = findByScan(unit, name)
		}
	}

	// Precise mode: the caller claims a declaration at File:Line. A stale
	// anchor reports nothing; a live one restricts the anchor file to the
	// occurrences bound to that declaration.
	if opts.File != "" && opts.Line > 0 {
		anchored, ok := filterByAnchor(perFile[opts.File], opts.Line)
		if !ok {
			return nil
		}
		perFile[opts.File] = anchored
	}

	var out []types.Reference
	for _, occs := range perFile {
		for _, o := range occs {
			out = append(out, o.ref)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Column < out[j].Column
	})
	return out
}

// filterByAnchor keeps the occurrences bound to the definition at
// anchorLine. An anchor line with no occurrence at all reports (nil, false);
// an anchor on a usage line keeps everything, since there is no declaration
// to scope by.
func filterByAnchor(occs []occurrence, anchorLine int) ([]occurrence, bool) {
	anchorSeen := false
	var anchorDef *occurrence
	var defs []*occurrence
	for i := range occs {
		if occs[i].ref.Line == anchorLine {
			anchorSeen = true
		}
		if occs[i].ref.Role == types.RoleDefinition {
			defs = append(defs, &occs[i])
			if occs[i].ref.Line == anchorLine {
				anchorDef = &occs[i]
			}
		}
	}
	if !anchorSeen {
		return nil, false
	}
	if anchorDef == nil {
		return occs, true
	}

	var kept []occurrence
	for _, o := range occs {
		if bindsTo(o, anchorDef, defs) {
			kept = append(kept, o)
		}
	}
	return kept, true
}

// bindsTo reports whether the occurrence resolves to the anchored
// definition: among all definitions whose scope contains the occurrence,
// the innermost ones win.
func bindsTo(o occurrence, anchor *occurrence, defs []*occurrence) bool {
	innermost := ^uint(0)
	for _, d := range defs {
		if o.start >= d.scopeStart && o.start < d.scopeEnd {
			if size := d.scopeEnd - d.scopeStart; size < innermost {
				innermost = size
			}
		}
	}
	if o.start < anchor.scopeStart || o.start >= anchor.scopeEnd {
		return false
	}
	return anchor.scopeEnd-anchor.scopeStart == innermost
}

func findInTree(unit *parser.Unit, name string) []occurrence {
	var out []occurrence
	fileEnd := uint(len(unit.Content))

	var walk func(node tree_sitter.Node)
	walk = func(node tree_sitter.Node) {
		if identifierKinds[node.Kind()] {
			text := string(unit.Content[node.StartByte():node.EndByte()])
			if text == name {
				pos := node.StartPosition()
				occ := occurrence{
					ref: types.Reference{
						Name:      name,
						File:      unit.Path,
						Line:      int(pos.Row) + 1,
						Column:    int(pos.Column),
						Statement: strings.TrimSpace(unit.Line(int(pos.Row) + 1)),
						Role:      role(&node),
					},
					start: node.StartByte(),
				}
				if occ.ref.Role == types.RoleDefinition {
					occ.scopeStart, occ.scopeEnd = bindingScope(&node, fileEnd)
				}
				out = append(out, occ)
			}
		}
		for i := uint(0); i < node.NamedChildCount(); i++ {
			if child := node.NamedChild(i); child != nil {
				walk(*child)
			}
		}
	}
	walk(*unit.Tree.RootNode())
	return out
}

// role reports definition exactly when the node is the declared name of its
// parent: a declaration's name field, the left side of a Python assignment,
// or a parameter. Everything else, including reassignment of an existing
// curly-language binding, is a usage.
func role(node *tree_sitter.Node) types.RefRole {
	parent := node.Parent()
	if parent == nil {
		return types.RoleUsage
	}

	switch kind := parent.Kind(); {
	case declarationKinds[kind]:
		if fieldIs(parent, "name", node) {
			return types.RoleDefinition
		}
	case kind == "assignment":
		if fieldIs(parent, "left", node) {
			return types.RoleDefinition
		}
	case kind == "parameters" || kind == "formal_parameters" || kind == "typed_parameter" || kind == "lambda_parameters":
		return types.RoleDefinition
	case kind == "default_parameter" || kind == "typed_default_parameter":
		if fieldIs(parent, "name", node) {
			return types.RoleDefinition
		}
	case kind == "required_parameter" || kind == "optional_parameter":
		if fieldIs(parent, "pattern", node) {
			return types.RoleDefinition
		}
	}
	return types.RoleUsage
}

func fieldIs(parent *tree_sitter.Node, field string, node *tree_sitter.Node) bool {
	f := parent.ChildByFieldName(field)
	return f != nil && f.StartByte() == node.StartByte() && f.EndByte() == node.EndByte()
}

// bindingScope returns the byte range in which a definition's name is
// visible. A function or class name binds in the scope enclosing the
// declaration, not in its own body; parameters and body-level names bind
// inside the nearest enclosing scope node.
func bindingScope(node *tree_sitter.Node, fileEnd uint) (uint, uint) {
	start := node.Parent()
	if start != nil && scopeKinds[start.Kind()] {
		start = start.Parent()
	}
	for anc := start; anc != nil; anc = anc.Parent() {
		if scopeKinds[anc.Kind()] {
			return anc.StartByte(), anc.EndByte()
		}
	}
	return 0, fileEnd
}

// findByScan is the line-scanning path for units without a tree. Word
// boundary matching keeps "build" from matching "Prebuild"; the unit's own
// symbol table decides which lines hold definitions, and the first
// word-bounded hit on such a line is the declared name. Scan definitions
// are module scoped.
func findByScan(unit *parser.Unit, name string) []occurrence {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return nil
	}

	defs := make(map[int]bool)
	for _, sym := range unit.Symbols {
		if sym.Name == name {
			defs[sym.Line] = true
		}
	}

	fileEnd := uint(len(unit.Content))
	var out []occurrence
	offset := 0
	for i, raw := range strings.Split(string(unit.Content), "\n") {
		lineStart := offset
		offset += len(raw) + 1

		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		for k, loc := range re.FindAllStringIndex(raw, -1) {
			r := types.RoleUsage
			if defs[i+1] && k == 0 {
				r = types.RoleDefinition
			}
			out = append(out, occurrence{
				ref: types.Reference{
					Name:      name,
					File:      unit.Path,
					Line:      i + 1,
					Column:    loc[0],
					Statement: trimmed,
					Role:      r,
				},
				start:    uint(lineStart + loc[0]),
				scopeEnd: fileEnd,
			})
		}
	}
	return out
}

// Count splits references into definition and usage tallies.
func Count(references []types.Reference) (definitions, usages int) {
	for _, ref := range references {
		if ref.Role == types.RoleDefinition {
			definitions++
		} else {
			usages++
		}
	}
	return definitions, usages
}
