package complexity

import (
	"regexp"
	"strings"

	"github.com/scrylabs/scry/internal/langdetect"
	"github.com/scrylabs/scry/internal/types"
)

var (
	curlyFunctionRe = regexp.MustCompile(`\bfunction\b|=>|^\s*(?:public\s+|private\s+|protected\s+|static\s+|async\s+)*\w+\s*\([^;]*\)\s*\{`)
	pythonDefRe     = regexp.MustCompile(`^\s*(?:async\s+)?def\s+\w+`)
	dartFunctionRe  = regexp.MustCompile(`^\s*(?:static\s+)?[\w<>,?\[\] ]*\w+\s*\([^;]*\)\s*(?:async\*?\s*)?(?:\{|=>)`)
	classRe         = regexp.MustCompile(`^\s*(?:export\s+)?(?:abstract\s+)?class\s+\w+`)
)

// additional computes the line- and declaration-count metrics. Lines of
// code excludes blanks and comment-only lines; the comment ratio is
// comment lines over total non-blank lines.
func additional(source []byte, lang langdetect.Language) types.AdditionalMetrics {
	var m types.AdditionalMetrics
	masked := maskedLines(string(source), lang)
	raw := strings.Split(string(source), "\n")

	functionRe := curlyFunctionRe
	switch lang {
	case langdetect.LanguagePython:
		functionRe = pythonDefRe
	case langdetect.LanguageDart:
		functionRe = dartFunctionRe
	}

	nonBlank := 0
	for i, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		nonBlank++
		if strings.TrimSpace(masked[i]) == "" {
			// Content survived in the raw line but the mask removed all of
			// it, so this line is comment only.
			m.CommentLines++
			continue
		}
		m.LinesOfCode++
		if functionRe.MatchString(masked[i]) {
			m.FunctionCount++
		}
		if classRe.MatchString(masked[i]) {
			m.ClassCount++
		}
	}

	if nonBlank > 0 {
		m.CommentRatio = float64(m.CommentLines) / float64(nonBlank)
	}
	if m.FunctionCount > 0 {
		m.AverageFunctionLength = float64(m.LinesOfCode) / float64(m.FunctionCount)
	}
	return m
}
