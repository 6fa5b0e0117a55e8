package complexity

import (
	"regexp"
	"strings"

	"github.com/scrylabs/scry/internal/langdetect"
)

// patternCalculator measures languages without an AST path by scanning
// masked source lines for decision keywords. It intentionally mirrors the
// AST calculator's counting rules so simple inputs score identically under
// either path.
type patternCalculator struct {
	lang langdetect.Language
}

var (
	branchKeywordRe = regexp.MustCompile(`\b(if|elif|for|while|case|when|except|catch)\b`)
	boolOpRe        = regexp.MustCompile(`&&|\|\||\b(and|or)\b`)
	// A conditional needs whitespace before the ? and a matching : so that
	// nullable type markers like "int? x" do not count.
	ternaryRe = regexp.MustCompile(`\s\?\s[^:]*:`)
)

// Cyclomatic is 1 plus one per decision keyword, boolean operator, and
// ternary expression found outside strings and comments.
func (c *patternCalculator) Cyclomatic(source []byte) int {
	count := 1
	for _, line := range maskedLines(string(source), c.lang) {
		count += len(branchKeywordRe.FindAllString(line, -1))
		count += len(boolOpRe.FindAllString(line, -1))
		if c.lang != langdetect.LanguagePython {
			count += len(ternaryRe.FindAllString(line, -1))
		}
	}
	return count
}

// Cognitive weights each decision by its nesting level. Nesting comes from
// brace depth for curly languages and indentation for Python.
func (c *patternCalculator) Cognitive(source []byte) int {
	total := 0
	depth := 0
	var indentStack []int

	for _, line := range maskedLines(string(source), c.lang) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		nesting := depth
		if c.lang == langdetect.LanguagePython {
			indent := len(line) - len(strings.TrimLeft(line, " \t"))
			for len(indentStack) > 0 && indent <= indentStack[len(indentStack)-1] {
				indentStack = indentStack[:len(indentStack)-1]
			}
			nesting = len(indentStack)
			if branchKeywordRe.MatchString(trimmed) || strings.HasPrefix(trimmed, "else") {
				indentStack = append(indentStack, indent)
			}
		}

		for range branchKeywordRe.FindAllString(trimmed, -1) {
			total += 1 + nesting
		}
		total += len(boolOpRe.FindAllString(trimmed, -1))
		if c.lang != langdetect.LanguagePython {
			for range ternaryRe.FindAllString(trimmed, -1) {
				total += 1 + nesting
			}
		}

		if c.lang != langdetect.LanguagePython {
			depth += strings.Count(line, "{") - strings.Count(line, "}")
			if depth < 0 {
				depth = 0
			}
		}
	}
	return total
}

// maskedLines blanks string literals and comments so keyword scans only see
// code. Python's # comments and both triple-quote forms are handled line by
// line; curly languages get // comments and quote masking.
func maskedLines(source string, lang langdetect.Language) []string {
	lines := strings.Split(source, "\n")
	out := make([]string, len(lines))
	pendingClose := "" // close marker of an open block construct, if any

	openMarkers := []string{"/*"}
	lineComment := "//"
	if lang == langdetect.LanguagePython {
		openMarkers = []string{`"""`, `'''`}
		lineComment = "#"
	}

	for i, line := range lines {
		if pendingClose != "" {
			if idx := strings.Index(line, pendingClose); idx >= 0 {
				skip := idx + len(pendingClose)
				pendingClose = ""
				out[i] = strings.Repeat(" ", skip) + maskInline(line[skip:], lineComment, openMarkers, &pendingClose)
			} else {
				out[i] = ""
			}
			continue
		}
		out[i] = maskInline(line, lineComment, openMarkers, &pendingClose)
	}
	return out
}

func closeOf(openMarker string) string {
	if openMarker == "/*" {
		return "*/"
	}
	return openMarker
}

// maskInline blanks quoted spans and strips trailing comments from one line.
// Sets pendingClose when the line opens a block construct it does not close.
func maskInline(line, lineComment string, openMarkers []string, pendingClose *string) string {
	var b strings.Builder
	var quote byte
	i := 0
outer:
	for i < len(line) {
		c := line[i]
		if quote != 0 {
			if c == '\\' && i+1 < len(line) {
				b.WriteString("  ")
				i += 2
				continue
			}
			if c == quote {
				quote = 0
			}
			b.WriteByte(' ')
			i++
			continue
		}
		if strings.HasPrefix(line[i:], lineComment) {
			return b.String()
		}
		for _, open := range openMarkers {
			if !strings.HasPrefix(line[i:], open) {
				continue
			}
			rest := line[i+len(open):]
			if idx := strings.Index(rest, closeOf(open)); idx >= 0 {
				skip := len(open) + idx + len(closeOf(open))
				b.WriteString(strings.Repeat(" ", skip))
				i += skip
				continue outer
			}
			*pendingClose = closeOf(open)
			return b.String()
		}
		if c == '\'' || c == '"' {
			quote = c
			b.WriteByte(' ')
			i++
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}
