package parser

import (
	"regexp"
	"strings"

	"github.com/scrylabs/scry/internal/types"
)

// Dart has no grammar binding in our stack, so it gets a line-scanning
// extraction path instead of a tree. The scanner tracks brace depth to tell
// top-level functions from methods and masks string/comment content so
// braces inside literals do not skew the depth.

var (
	dartClassRe   = regexp.MustCompile(`^\s*(?:abstract\s+)?(?:class|mixin)\s+([A-Za-z_]\w*)`)
	dartEnumRe    = regexp.MustCompile(`^\s*enum\s+([A-Za-z_]\w*)`)
	dartTypedefRe = regexp.MustCompile(`^\s*typedef\s+([A-Za-z_]\w*)`)
	dartFuncRe    = regexp.MustCompile(`^\s*(?:static\s+)?(?:[A-Za-z_][\w<>,?\[\] ]*\s+)?([A-Za-z_]\w*)\s*\([^;]*\)\s*(?:async\*?\s*|sync\*?\s*)?(?:\{|=>)`)
	dartVarFuncRe = regexp.MustCompile(`^\s*(?:final|var|const)\s+([A-Za-z_]\w*)\s*=\s*\([^)]*\)\s*(?:async\s*)?(?:=>|\{)`)
	dartVarRe     = regexp.MustCompile(`^\s*(?:final|const|var|late)\s+(?:[A-Za-z_][\w<>,?\[\] ]*\s+)?([A-Za-z_]\w*)\s*[=;]`)
	dartImportRe  = regexp.MustCompile(`^\s*(?:import|export|part)\s+'([^']+)'`)
)

// dartKeywords are words that look like a function name to the regex but
// open a control block instead.
var dartKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "assert": true, "super": true, "new": true, "throw": true,
	"await": true, "do": true, "else": true, "try": true,
}

func scanDartSymbols(path string, content []byte) []types.Symbol {
	var symbols []types.Symbol
	depth := 0
	classDepth := -1 // brace depth at which the innermost class body opened

	for i, raw := range strings.Split(string(content), "\n") {
		line := maskDartLiterals(raw)
		trimmed := strings.TrimSpace(line)
		lineNo := i + 1

		// Column comes from the submatch position, not a substring search:
		// a name like "build" can also occur inside an earlier longer token.
		add := func(m []int, kind types.SymbolKind) {
			symbols = append(symbols, types.Symbol{
				Name:    line[m[2]:m[3]],
				Kind:    kind,
				File:    path,
				Line:    lineNo,
				Column:  m[2],
				Preview: strings.TrimSpace(raw),
			})
		}

		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "//"):

		case dartClassRe.MatchString(line):
			add(dartClassRe.FindStringSubmatchIndex(line), types.SymbolKindClass)
			if strings.Contains(line, "{") {
				classDepth = depth
			}

		case dartEnumRe.MatchString(line):
			add(dartEnumRe.FindStringSubmatchIndex(line), types.SymbolKindType)

		case dartTypedefRe.MatchString(line):
			add(dartTypedefRe.FindStringSubmatchIndex(line), types.SymbolKindType)

		case dartVarFuncRe.MatchString(line):
			// A variable initialized with a function literal is a function.
			add(dartVarFuncRe.FindStringSubmatchIndex(line), types.SymbolKindFunction)

		case dartFuncRe.MatchString(line):
			m := dartFuncRe.FindStringSubmatchIndex(line)
			if dartKeywords[line[m[2]:m[3]]] {
				break
			}
			kind := types.SymbolKindFunction
			if classDepth >= 0 && depth > classDepth {
				kind = types.SymbolKindMethod
			}
			add(m, kind)

		case dartVarRe.MatchString(line):
			add(dartVarRe.FindStringSubmatchIndex(line), types.SymbolKindVariable)
		}

		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth < 0 {
			depth = 0
		}
		if classDepth >= 0 && depth <= classDepth {
			classDepth = -1
		}
	}
	return symbols
}

func scanDartImports(content []byte) []types.Import {
	var imports []types.Import
	for i, raw := range strings.Split(string(content), "\n") {
		if m := dartImportRe.FindStringSubmatch(raw); m != nil {
			imports = append(imports, types.Import{Path: m[1], Line: i + 1})
		}
	}
	return imports
}

func dartExports(symbols []types.Symbol) []string {
	var exports []string
	for _, s := range symbols {
		if !strings.HasPrefix(s.Name, "_") {
			exports = append(exports, s.Name)
		}
	}
	return exports
}

// maskDartLiterals blanks string literal and trailing comment content so
// brace counting and declaration regexes only see code.
func maskDartLiterals(line string) string {
	out := []byte(line)
	var quote byte
	for i := 0; i < len(out); i++ {
		c := out[i]
		if quote != 0 {
			if c == '\\' {
				if i+1 < len(out) {
					out[i+1] = ' '
				}
				out[i] = ' '
				i++
				continue
			}
			if c == quote {
				quote = 0
			} else {
				out[i] = ' '
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '/':
			if i+1 < len(out) && out[i+1] == '/' {
				return string(out[:i])
			}
		}
	}
	return string(out)
}
