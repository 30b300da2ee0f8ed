package marker

import (
	"github.com/ShayHill/todoist-bot/internal/hierarchy"
	pkgstrings "github.com/ShayHill/todoist-bot/pkg/strings"
)

// Match pairs a marker with the nodes it marks, in forest pre-order.
type Match struct {
	Marker Marker
	Nodes  []*hierarchy.Node
}

// Resolve returns one Match per marker, in marker order. Markers are matched
// independently: a node whose name satisfies several suffixes (for example "-n"
// and "x-n") appears under each of them.
func Resolve(f *hierarchy.Forest, markers []Marker) []Match {
	matches := make([]Match, len(markers))
	for i, m := range markers {
		matches[i].Marker = m
	}
	for _, n := range f.Nodes() {
		for i, m := range markers {
			if pkgstrings.HasTrimmedSuffix(n.Name, m.Suffix) {
				matches[i].Nodes = append(matches[i].Nodes, n)
			}
		}
	}
	return matches
}

// Matched counts the marked nodes across all matches. A node marked by two
// markers counts twice.
func Matched(matches []Match) int {
	total := 0
	for _, m := range matches {
		total += len(m.Nodes)
	}
	return total
}
