package complexity

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrylabs/scry/internal/langdetect"
	"github.com/scrylabs/scry/internal/types"
)

func analyze(t *testing.T, source string) (*types.ComplexityReport, langdetect.Language) {
	t.Helper()
	report, lang, err := Analyze(source, Options{})
	require.NoError(t, err)
	return report, lang
}

func TestCyclomaticBaselineIsOne(t *testing.T) {
	report, lang := analyze(t, "function greet(name: string): string {\n  return 'hi ' + name;\n}\n")
	assert.Equal(t, langdetect.LanguageTypeScript, lang)
	assert.Equal(t, 1, report.Cyclomatic.Value)
	assert.Equal(t, types.StatusPass, report.Cyclomatic.Status)
}

func TestCyclomaticCountsEachDecision(t *testing.T) {
	source := `function work(xs: number[]): number {
  let total = 0;
  if (xs.length > 0) {
    total += 1;
  }
  for (const x of xs) {
    total += x;
  }
  while (total > 100) {
    total -= 10;
  }
  return total;
}
`
	report, _ := analyze(t, source)
	assert.Equal(t, 4, report.Cyclomatic.Value, "one path plus if, for, while")
}

func TestCognitiveExceedsCyclomaticWhenNested(t *testing.T) {
	source := `function deep(a: boolean, b: boolean, c: boolean): number {
  if (a) {
    if (b) {
      if (c) {
        return 3;
      }
    }
  }
  return 0;
}
`
	report, _ := analyze(t, source)
	assert.Equal(t, 4, report.Cyclomatic.Value)
	assert.Equal(t, 6, report.Cognitive.Value, "1 + 2 + 3 for three nesting levels")
	assert.Greater(t, report.Cognitive.Value, report.Cyclomatic.Value)
}

func TestBooleanOperatorsAddPaths(t *testing.T) {
	source := "function check(a: boolean, b: boolean): boolean {\n  return a && b || !a;\n}\n"
	report, _ := analyze(t, source)
	assert.Equal(t, 3, report.Cyclomatic.Value, "one path plus && plus ||")
}

func TestPythonPatternPath(t *testing.T) {
	source := `def triage(items):
    kept = []
    for item in items:
        if item.ok and item.fresh:
            kept.append(item)
    return kept
`
	report, lang := analyze(t, source)
	assert.Equal(t, langdetect.LanguagePython, lang)
	assert.Equal(t, 4, report.Cyclomatic.Value, "for + if + and")
	// The if sits one level inside the for.
	assert.Equal(t, 4, report.Cognitive.Value)
}

func TestAstAndPatternAgreeOnSimpleInput(t *testing.T) {
	// The same control skeleton expressed in both calculator paths.
	tsReport, _ := analyze(t, "function f(x: number) {\n  if (x > 0) {\n    return x;\n  }\n  return 0;\n}\n")
	pyReport, _ := analyze(t, "def f(x):\n    if x > 0:\n        return x\n    return 0\n")
	assert.Equal(t, tsReport.Cyclomatic.Value, pyReport.Cyclomatic.Value)
}

func branchy(n int) string {
	var b strings.Builder
	b.WriteString("function f(x: number): number {\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "  if (x === %d) { return %d; }\n", i, i)
	}
	b.WriteString("  return -1;\n}\n")
	return b.String()
}

func TestThresholdBoundary(t *testing.T) {
	// Nine branches on top of the base path sit exactly at the default
	// threshold of 10; one more crosses it.
	atLimit, _, err := Analyze(branchy(9), Options{})
	require.NoError(t, err)
	assert.Equal(t, 10, atLimit.Cyclomatic.Value)
	assert.Equal(t, types.StatusPass, atLimit.Cyclomatic.Status, "value == threshold passes")

	overLimit, _, err := Analyze(branchy(10), Options{})
	require.NoError(t, err)
	assert.Equal(t, 11, overLimit.Cyclomatic.Value)
	assert.Equal(t, types.StatusFail, overLimit.Cyclomatic.Status)
}

func TestKeywordsInStringsAndCommentsIgnored(t *testing.T) {
	source := `def label():
    # if this were counted the metric would lie
    return "if and while"
`
	report, _ := analyze(t, source)
	assert.Equal(t, 1, report.Cyclomatic.Value)
}

func TestSingleQuotedDocstringIgnored(t *testing.T) {
	source := `def doc():
    '''
    if this or that while waiting
    '''
    return 1
`
	report, lang := analyze(t, source)
	assert.Equal(t, langdetect.LanguagePython, lang)
	assert.Equal(t, 1, report.Cyclomatic.Value)
}

func TestDartNullableTypeNotCounted(t *testing.T) {
	source := `int? count;
Widget build(BuildContext context) {
  String? name = fetch();
  return Text(name);
}
`
	report, lang := analyze(t, source)
	assert.Equal(t, langdetect.LanguageDart, lang)
	assert.Equal(t, 1, report.Cyclomatic.Value)
}

func TestHalsteadFormulas(t *testing.T) {
	report, _ := analyze(t, "function add(a: number, b: number): number {\n  return a + b;\n}\n")
	h := report.Halstead

	assert.Equal(t, h.Vocabulary, h.DistinctOperators+h.DistinctOperands)
	assert.Equal(t, h.Length, h.TotalOperators+h.TotalOperands)
	assert.Greater(t, h.Volume, 0.0)
	assert.InDelta(t, h.Effort/18, h.TimeToProgram, 1e-9)
	assert.InDelta(t, h.Volume/3000, h.EstimatedDefects, 1e-9)
}

func TestMetricsFilter(t *testing.T) {
	source := "function f(x: number) {\n  if (x) { return 1; }\n  return 0;\n}\n"

	report, _, err := Analyze(source, Options{Metrics: MetricsCyclomatic})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Cyclomatic.Value)
	assert.Zero(t, report.Cognitive.Value)
	assert.Zero(t, report.Halstead.Length)

	_, _, err = Analyze(source, Options{Metrics: "bogus"})
	require.Error(t, err)
}

func TestEmptySourceIsError(t *testing.T) {
	_, _, err := Analyze("   \n", Options{})
	require.Error(t, err)
}

func TestDartPatternPath(t *testing.T) {
	source := `Widget build(BuildContext context) {
  if (loading) {
    return CircularProgressIndicator();
  }
  return items.isEmpty ? Empty() : ListView();
}
`
	report, lang := analyze(t, source)
	assert.Equal(t, langdetect.LanguageDart, lang)
	assert.Equal(t, 3, report.Cyclomatic.Value, "if plus ternary")
}

func TestRecommendationsOnFailure(t *testing.T) {
	report, _, err := Analyze(branchy(12), Options{})
	require.NoError(t, err)
	recs := Recommendations(report)
	require.NotEmpty(t, recs)
	assert.Contains(t, recs[0], "cyclomatic")

	assert.Less(t, Score(report), 100.0)
}

func TestAdditionalMetrics(t *testing.T) {
	source := `// adds two numbers
function add(a: number, b: number): number {
  return a + b;
}

class Calc {
}
`
	report, _ := analyze(t, source)
	assert.Equal(t, 1, report.Additional.FunctionCount)
	assert.Equal(t, 1, report.Additional.ClassCount)
	assert.Equal(t, 1, report.Additional.CommentLines)
	assert.Greater(t, report.Additional.CommentRatio, 0.0)
}
