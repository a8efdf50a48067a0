package relgraph

import "sort"

// MatchingNodes returns, in ascending order, the indices of the nodes whose
// primary category equals keyword or whose secondary categories contain it.
func (g *Graph) MatchingNodes(keyword string) []int {
	if g.frozen {
		matches := g.byLabel[keyword]
		if len(matches) == 0 {
			return nil
		}
		out := make([]int, len(matches))
		copy(out, matches)
		return out
	}

	var out []int
	for _, n := range g.nodes {
		if n.HasLabel(keyword) {
			out = append(out, n.Index)
		}
	}
	return out
}

// Categories returns every label carried by at least one node, sorted.
func (g *Graph) Categories() []string {
	var out []string
	if g.frozen {
		out = make([]string, 0, len(g.byLabel))
		for label := range g.byLabel {
			out = append(out, label)
		}
	} else {
		for label := range buildLabelIndex(g.nodes) {
			out = append(out, label)
		}
	}
	sort.Strings(out)
	return out
}

func buildLabelIndex(nodes []*Node) map[string][]int {
	idx := make(map[string][]int)
	for _, n := range nodes {
		for _, label := range n.Labels() {
			list := idx[label]
			// A label can be both primary and secondary on the same node.
			if len(list) > 0 && list[len(list)-1] == n.Index {
				continue
			}
			idx[label] = append(list, n.Index)
		}
	}
	return idx
}
