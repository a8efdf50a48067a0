package steiner

import (
	"sort"

	"github.com/kcar/core/internal/models"
	"github.com/kcar/core/internal/relgraph"
)

// Tree is a solved group Steiner tree. Nodes are graph indices in ascending
// order and include Root. Keywords is the covered keyword set in bit order.
type Tree struct {
	Root     int
	Weight   float64
	Nodes    []int
	Keywords []string
}

// InherentLabels returns the sorted union of the categories carried by the
// tree's nodes.
func (t *Tree) InherentLabels(g *relgraph.Graph) []string {
	seen := make(map[string]struct{})
	for _, i := range t.Nodes {
		for _, l := range g.Node(i).Labels() {
			seen[l] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Model resolves node indices to names against g.
func (t *Tree) Model(g *relgraph.Graph) models.SteinerTree {
	names := make([]string, len(t.Nodes))
	for i, idx := range t.Nodes {
		names[i] = g.Node(idx).Name
	}
	covered := make([]string, len(t.Keywords))
	copy(covered, t.Keywords)

	return models.SteinerTree{
		Root:            g.Node(t.Root).Name,
		Weight:          t.Weight,
		Nodes:           names,
		CoveredKeywords: covered,
		InherentLabels:  t.InherentLabels(g),
	}
}
