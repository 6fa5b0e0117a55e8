package symbols

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/scrylabs/scry/internal/project"
	"github.com/scrylabs/scry/internal/types"
)

// maxSuggestions caps the "did you mean" list on an empty search.
const maxSuggestions = 3

// Find returns every symbol whose name contains query, optionally filtered
// by kind. Matching is case-insensitive substring. Results order exact
// matches first, then by file path, then by line, so repeated searches over
// an unchanged project are byte-identical.
func Find(proj *project.Project, query string, kinds []types.SymbolKind) []types.Symbol {
	kindSet := make(map[types.SymbolKind]bool, len(kinds))
	for _, k := range kinds {
		kindSet[k] = true
	}
	lowered := strings.ToLower(query)

	var out []types.Symbol
	for _, path := range proj.Paths() {
		for _, sym := range proj.Units[path].Symbols {
			if len(kindSet) > 0 && !kindSet[sym.Kind] {
				continue
			}
			if !strings.Contains(strings.ToLower(sym.Name), lowered) {
				continue
			}
			out = append(out, sym)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		iExact := strings.EqualFold(out[i].Name, query)
		jExact := strings.EqualFold(out[j].Name, query)
		if iExact != jExact {
			return iExact
		}
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out
}

// Suggest offers the closest declared names when a search came up empty,
// ranked by Levenshtein distance.
func Suggest(proj *project.Project, query string) []string {
	type candidate struct {
		name string
		dist int
	}
	seen := make(map[string]bool)
	var candidates []candidate
	for _, path := range proj.Paths() {
		for _, sym := range proj.Units[path].Symbols {
			if seen[sym.Name] {
				continue
			}
			seen[sym.Name] = true
			dist := edlib.LevenshteinDistance(query, sym.Name)
			if dist <= len(query)/2+1 {
				candidates = append(candidates, candidate{sym.Name, dist})
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].name < candidates[j].name
	})

	var out []string
	for _, c := range candidates {
		out = append(out, c.name)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
