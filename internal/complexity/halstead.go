package complexity

import (
	"math"
	"strings"
	"unicode"

	"github.com/scrylabs/scry/internal/langdetect"
	"github.com/scrylabs/scry/internal/types"
)

// halsteadOperatorWords are keyword operators: control keywords count as
// operators, built-in value words do not.
var halsteadOperatorWords = map[string]bool{
	"if": true, "else": true, "elif": true, "for": true, "while": true,
	"switch": true, "case": true, "return": true, "break": true,
	"continue": true, "new": true, "delete": true, "typeof": true,
	"instanceof": true, "in": true, "of": true, "and": true, "or": true,
	"not": true, "try": true, "catch": true, "except": true, "finally": true,
	"throw": true, "raise": true, "await": true, "yield": true, "do": true,
}

// halsteadSymbols lists punctuation operators longest first so the scanner
// always takes the greedy match.
var halsteadSymbols = []string{
	"===", "!==", "**=", ">>>", "<<=", ">>=", "&&", "||", "??", "==", "!=",
	"<=", ">=", "=>", "->", "++", "--", "+=", "-=", "*=", "/=", "%=", "**",
	"<<", ">>", "+", "-", "*", "/", "%", "=", "<", ">", "!", "&", "|", "^",
	"~", "?", ":", ".", ",", ";", "(", ")", "[", "]", "{", "}",
}

// halstead tokenizes masked source and derives the software-science
// estimates. Time uses the conventional 18 mental discriminations per
// second; defect estimation divides volume by 3000.
func halstead(source []byte, lang langdetect.Language) types.HalsteadMetrics {
	operators := make(map[string]int)
	operands := make(map[string]int)

	for _, line := range maskedLines(string(source), lang) {
		i := 0
		for i < len(line) {
			c := line[i]
			switch {
			case c == ' ' || c == '\t':
				i++
			case unicode.IsLetter(rune(c)) || c == '_':
				j := i + 1
				for j < len(line) && (isWordByte(line[j])) {
					j++
				}
				word := line[i:j]
				if halsteadOperatorWords[word] {
					operators[word]++
				} else {
					operands[word]++
				}
				i = j
			case c >= '0' && c <= '9':
				j := i + 1
				for j < len(line) && (isWordByte(line[j]) || line[j] == '.') {
					j++
				}
				operands[line[i:j]]++
				i = j
			default:
				matched := false
				for _, sym := range halsteadSymbols {
					if strings.HasPrefix(line[i:], sym) {
						operators[sym]++
						i += len(sym)
						matched = true
						break
					}
				}
				if !matched {
					i++
				}
			}
		}
	}

	m := types.HalsteadMetrics{
		DistinctOperators: len(operators),
		DistinctOperands:  len(operands),
	}
	for _, n := range operators {
		m.TotalOperators += n
	}
	for _, n := range operands {
		m.TotalOperands += n
	}
	m.Vocabulary = m.DistinctOperators + m.DistinctOperands
	m.Length = m.TotalOperators + m.TotalOperands

	if m.Vocabulary > 0 {
		m.Volume = float64(m.Length) * math.Log2(float64(m.Vocabulary))
	}
	if m.DistinctOperands > 0 {
		m.Difficulty = float64(m.DistinctOperators) / 2 *
			float64(m.TotalOperands) / float64(m.DistinctOperands)
	}
	m.Effort = m.Difficulty * m.Volume
	m.TimeToProgram = m.Effort / 18
	m.EstimatedDefects = m.Volume / 3000
	return m
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
