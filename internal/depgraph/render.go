package depgraph

import (
	"fmt"
	"strings"

	"github.com/scrylabs/scry/internal/types"
)

// Render produces a mermaid flowchart of the graph plus a plain-text
// summary of cycles and clusters. Output is deterministic: nodes and edges
// appear in the order the builder emitted them, which follows sorted file
// order.
func Render(graph *types.DependencyGraph) string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	ids := make(map[string]string, len(graph.Nodes))
	for i, node := range graph.Nodes {
		id := fmt.Sprintf("n%d", i)
		ids[node.File] = id
		fmt.Fprintf(&b, "    %s[%q]\n", id, node.File)
	}
	for _, edge := range graph.Edges {
		from, to := ids[edge.From], ids[edge.To]
		if to == "" {
			// External target: render it inline without declaring a node.
			fmt.Fprintf(&b, "    %s --> ext_%s[%q]\n", from, sanitize(edge.To), edge.To)
			continue
		}
		fmt.Fprintf(&b, "    %s --> %s\n", from, to)
	}

	if len(graph.CircularDependencies) > 0 {
		b.WriteString("\nCircular dependencies:\n")
		for _, cycle := range graph.CircularDependencies {
			fmt.Fprintf(&b, "    %s -> %s\n", strings.Join(cycle, " -> "), cycle[0])
		}
	}
	if len(graph.Clusters) > 0 {
		b.WriteString("\nClusters:\n")
		for i, cluster := range graph.Clusters {
			fmt.Fprintf(&b, "    [%d] %s\n", i+1, strings.Join(cluster, ", "))
		}
	}
	return b.String()
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}
