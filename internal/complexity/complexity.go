package complexity

import (
	"fmt"
	"strings"

	"github.com/scrylabs/scry/internal/config"
	"github.com/scrylabs/scry/internal/langdetect"
	"github.com/scrylabs/scry/internal/types"
)

// Metrics filter values.
const (
	MetricsAll        = "all"
	MetricsCyclomatic = "cyclomatic"
	MetricsCognitive  = "cognitive"
	MetricsHalstead   = "halstead"
)

// Options select the metric families to compute and the pass/fail
// thresholds. Zero thresholds fall back to the defaults.
type Options struct {
	Metrics             string
	CyclomaticThreshold int
	CognitiveThreshold  int
}

// calculator is the per-language measurement strategy. Typed curly-brace
// languages get syntax trees; the rest fall back to keyword patterns.
type calculator interface {
	Cyclomatic(source []byte) int
	Cognitive(source []byte) int
}

// Analyze classifies sourceText and produces a complexity report. The
// report shape is identical for every language, so callers never branch on
// the detected tag.
func Analyze(sourceText string, opts Options) (*types.ComplexityReport, langdetect.Language, error) {
	if strings.TrimSpace(sourceText) == "" {
		return nil, langdetect.LanguageUnknown, fmt.Errorf("source text is empty")
	}
	if opts.Metrics == "" {
		opts.Metrics = MetricsAll
	}
	switch opts.Metrics {
	case MetricsAll, MetricsCyclomatic, MetricsCognitive, MetricsHalstead:
	default:
		return nil, langdetect.LanguageUnknown, fmt.Errorf("unknown metrics filter %q", opts.Metrics)
	}
	if opts.CyclomaticThreshold <= 0 {
		opts.CyclomaticThreshold = config.DefaultCyclomaticThreshold
	}
	if opts.CognitiveThreshold <= 0 {
		opts.CognitiveThreshold = config.DefaultCognitiveThreshold
	}

	lang := langdetect.Detect(sourceText)
	source := []byte(sourceText)

	var calc calculator
	switch lang {
	case langdetect.LanguageTypeScript, langdetect.LanguageJavaScript:
		calc = &astCalculator{lang: lang}
	default:
		calc = &patternCalculator{lang: lang}
	}

	report := &types.ComplexityReport{}
	if opts.Metrics == MetricsAll || opts.Metrics == MetricsCyclomatic {
		report.Cyclomatic = threshold(calc.Cyclomatic(source), opts.CyclomaticThreshold)
	}
	if opts.Metrics == MetricsAll || opts.Metrics == MetricsCognitive {
		report.Cognitive = threshold(calc.Cognitive(source), opts.CognitiveThreshold)
	}
	if opts.Metrics == MetricsAll || opts.Metrics == MetricsHalstead {
		report.Halstead = halstead(source, lang)
	}
	if opts.Metrics == MetricsAll {
		report.Additional = additional(source, lang)
	}
	return report, lang, nil
}

// threshold wraps a value with its pass/fail verdict: pass iff
// value <= threshold.
func threshold(value, limit int) types.MetricResult {
	status := types.StatusPass
	if value > limit {
		status = types.StatusFail
	}
	return types.MetricResult{Value: value, Threshold: limit, Status: status}
}

// Recommendations derives refactoring advice from failing metrics.
func Recommendations(report *types.ComplexityReport) []string {
	var out []string
	if report.Cyclomatic.Status == types.StatusFail {
		out = append(out, fmt.Sprintf(
			"cyclomatic complexity %d exceeds %d: extract branches into helper functions",
			report.Cyclomatic.Value, report.Cyclomatic.Threshold))
	}
	if report.Cognitive.Status == types.StatusFail {
		out = append(out, fmt.Sprintf(
			"cognitive complexity %d exceeds %d: flatten nested control flow with early returns",
			report.Cognitive.Value, report.Cognitive.Threshold))
	}
	if report.Halstead.Volume > 3000 {
		out = append(out, "Halstead volume is high: split this unit into smaller files or functions")
	}
	if report.Additional.LinesOfCode > 20 && report.Additional.CommentRatio < 0.05 {
		out = append(out, "comment ratio is below 5%: document non-obvious intent")
	}
	return out
}

// Score condenses the report into 0-100, docking points in proportion to
// how far each thresholded metric overshoots.
func Score(report *types.ComplexityReport) float64 {
	score := 100.0
	if over := report.Cyclomatic.Value - report.Cyclomatic.Threshold; over > 0 {
		score -= float64(over) * 5
	}
	if over := report.Cognitive.Value - report.Cognitive.Threshold; over > 0 {
		score -= float64(over) * 3
	}
	if report.Halstead.Volume > 3000 {
		score -= (report.Halstead.Volume - 3000) / 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
