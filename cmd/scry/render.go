package main

import (
	"fmt"
	"io"

	"github.com/scrylabs/scry/internal/types"
)

// Text renderers for the non-JSON output paths. One line per finding,
// grep-friendly file:line:column prefixes.

func renderSymbols(w io.Writer, result *types.FindSymbolResult) {
	if !result.Success {
		fmt.Fprintf(w, "error: %s\n", result.Message)
		return
	}
	if result.Count == 0 {
		fmt.Fprintf(w, "%s\n", result.Message)
		for _, s := range result.Suggestions {
			fmt.Fprintf(w, "  did you mean %q?\n", s)
		}
		renderDiagnostics(w, result.Diagnostics)
		return
	}

	for _, sym := range result.Symbols {
		fmt.Fprintf(w, "%s:%d:%d  %-9s %s\n", sym.File, sym.Line, sym.Column, sym.Kind, sym.Name)
		if sym.Preview != "" {
			fmt.Fprintf(w, "    %s\n", sym.Preview)
		}
	}
	fmt.Fprintf(w, "%d symbol(s) in %d file(s)\n", result.Count, result.FilesAnalyzed)
	renderDiagnostics(w, result.Diagnostics)
}

func renderReferences(w io.Writer, result *types.FindReferencesResult) {
	if !result.Success {
		fmt.Fprintf(w, "error: %s\n", result.Message)
		return
	}
	if len(result.References) == 0 {
		fmt.Fprintf(w, "%s\n", result.Message)
		renderDiagnostics(w, result.Diagnostics)
		return
	}

	for _, ref := range result.References {
		fmt.Fprintf(w, "%s:%d:%d  [%s] %s\n", ref.File, ref.Line, ref.Column, ref.Role, ref.Statement)
	}
	fmt.Fprintf(w, "%d definition(s), %d usage(s)\n", result.Definitions, result.Usages)
	renderDiagnostics(w, result.Diagnostics)
}

func renderGraph(w io.Writer, result *types.DependencyGraphResult) {
	if !result.Success {
		fmt.Fprintf(w, "error: %s\n", result.Message)
		return
	}
	if result.Graph == nil {
		fmt.Fprintf(w, "%s\n", result.Message)
		return
	}

	fmt.Fprint(w, result.Rendered)
	s := result.Statistics
	fmt.Fprintf(w, "\n%d files, %d edges, %d cycles, %d clusters (%d bytes, hash %s)\n",
		s.FileCount, s.EdgeCount, s.CycleCount, s.ClusterCount, s.TotalBytes, s.ContentHash)
	renderDiagnostics(w, result.Diagnostics)
}

func renderComplexity(w io.Writer, result *types.ComplexityResult) {
	if !result.Success {
		fmt.Fprintf(w, "error: %s\n", result.Message)
		return
	}

	r := result.Report
	fmt.Fprintf(w, "language: %s\n", result.Language)
	fmt.Fprintf(w, "cyclomatic: %d/%d [%s]\n", r.Cyclomatic.Value, r.Cyclomatic.Threshold, r.Cyclomatic.Status)
	fmt.Fprintf(w, "cognitive:  %d/%d [%s]\n", r.Cognitive.Value, r.Cognitive.Threshold, r.Cognitive.Status)
	fmt.Fprintf(w, "halstead:   vocabulary=%d length=%d volume=%.1f difficulty=%.1f effort=%.1f time=%.1fs defects=%.3f\n",
		r.Halstead.Vocabulary, r.Halstead.Length, r.Halstead.Volume,
		r.Halstead.Difficulty, r.Halstead.Effort, r.Halstead.TimeToProgram, r.Halstead.EstimatedDefects)
	fmt.Fprintf(w, "additional: loc=%d comments=%d (%.0f%%) functions=%d classes=%d avg-fn-length=%.1f\n",
		r.Additional.LinesOfCode, r.Additional.CommentLines, r.Additional.CommentRatio*100,
		r.Additional.FunctionCount, r.Additional.ClassCount, r.Additional.AverageFunctionLength)
	fmt.Fprintf(w, "score: %.0f/100\n", result.OverallScore)

	for _, rec := range result.Recommendations {
		fmt.Fprintf(w, "  - %s\n", rec)
	}
}

func renderDiagnostics(w io.Writer, diagnostics []types.Diagnostic) {
	for _, d := range diagnostics {
		fmt.Fprintf(w, "warning: %s (%s): %s\n", d.File, d.Stage, d.Message)
	}
}
