// Package relgraph holds the API relatedness graph: API nodes connected by
// edges whose cost falls as the two APIs co-occur in more mashups.
//
// A Graph goes through two phases. While building, nodes are added and
// co-occurrence counts accumulated. ApplyExponentialDamping then turns every
// count c into the traversal cost exp(-c) and freezes the graph; from that
// point it is read-only and safe for concurrent readers.
package relgraph

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kcar/core/internal/models"
)

var (
	ErrDuplicateNode = errors.New("duplicate node")
	ErrEmptyNodeName = errors.New("node name is empty")
	ErrGraphFrozen   = errors.New("graph is frozen")
)

// Node is an API vertex. Index is its fixed position in the graph.
type Node struct {
	Index               int
	Name                string
	PrimaryCategory     string
	SecondaryCategories []string
}

// Labels returns the primary category followed by the secondary ones.
func (n *Node) Labels() []string {
	out := make([]string, 0, len(n.SecondaryCategories)+1)
	if n.PrimaryCategory != "" {
		out = append(out, n.PrimaryCategory)
	}
	return append(out, n.SecondaryCategories...)
}

// HasLabel reports whether the node's primary or secondary categories
// contain label.
func (n *Node) HasLabel(label string) bool {
	if n.PrimaryCategory == label {
		return true
	}
	for _, c := range n.SecondaryCategories {
		if c == label {
			return true
		}
	}
	return false
}

// Edge is one direction of an undirected relatedness edge.
type Edge struct {
	To     int
	Count  int
	Weight float64
}

// AccumulateStats summarizes one AccumulateCooccurrence call.
type AccumulateStats struct {
	Groups     int
	Pairs      int
	Unresolved int
}

type Graph struct {
	nodes  []*Node
	byName map[string]int

	// counts[i][j] == counts[j][i], never i == j.
	counts []map[int]int

	frozen  bool
	adj     [][]Edge
	byLabel map[string][]int
}

func New() *Graph {
	return &Graph{
		byName: make(map[string]int),
	}
}

// Build returns a frozen graph made from records and groups, along with the
// co-occurrence counts gathered on the way.
func Build(records []models.APIRecord, groups []models.MashupGroup) (*Graph, AccumulateStats, error) {
	g := New()
	if err := g.AddNodes(records); err != nil {
		return nil, AccumulateStats{}, err
	}
	stats, err := g.AccumulateCooccurrence(groups)
	if err != nil {
		return nil, AccumulateStats{}, err
	}
	if err := g.ApplyExponentialDamping(); err != nil {
		return nil, AccumulateStats{}, err
	}
	return g, stats, nil
}

// AddNodes appends one node per record in record order. A name that is
// empty, repeated within records, or already present rejects the whole batch
// and leaves the graph unchanged.
func (g *Graph) AddNodes(records []models.APIRecord) error {
	if g.frozen {
		return fmt.Errorf("adding nodes: %w", ErrGraphFrozen)
	}

	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if r.Name == "" {
			return fmt.Errorf("record %d: %w", i, ErrEmptyNodeName)
		}
		if _, ok := g.byName[r.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateNode, r.Name)
		}
		if _, ok := seen[r.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateNode, r.Name)
		}
		seen[r.Name] = struct{}{}
	}

	for _, r := range records {
		n := &Node{
			Index:               len(g.nodes),
			Name:                r.Name,
			PrimaryCategory:     strings.TrimSpace(r.PrimaryCategory),
			SecondaryCategories: normalizeLabels(r.SecondaryCategories),
		}
		g.nodes = append(g.nodes, n)
		g.counts = append(g.counts, make(map[int]int))
		g.byName[n.Name] = n.Index
	}
	return nil
}

// AccumulateCooccurrence adds one to the edge between every pair of distinct
// APIs that appear in the same group. Names repeated within a group count
// once; names that match no node are skipped.
func (g *Graph) AccumulateCooccurrence(groups []models.MashupGroup) (AccumulateStats, error) {
	var stats AccumulateStats
	if g.frozen {
		return stats, fmt.Errorf("accumulating co-occurrence: %w", ErrGraphFrozen)
	}

	for _, group := range groups {
		stats.Groups++

		members := make([]int, 0, len(group.APIs))
		seen := make(map[string]struct{}, len(group.APIs))
		for _, name := range group.APIs {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}

			idx, ok := g.byName[name]
			if !ok {
				stats.Unresolved++
				continue
			}
			members = append(members, idx)
		}

		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				a, b := members[i], members[j]
				g.counts[a][b]++
				g.counts[b][a]++
				stats.Pairs++
			}
		}
	}
	return stats, nil
}

// ApplyExponentialDamping replaces every edge count c with the cost exp(-c)
// and freezes the graph. It may only run once.
func (g *Graph) ApplyExponentialDamping() error {
	if g.frozen {
		return fmt.Errorf("applying damping: %w", ErrGraphFrozen)
	}

	g.adj = make([][]Edge, len(g.nodes))
	for i, peers := range g.counts {
		edges := make([]Edge, 0, len(peers))
		for j, c := range peers {
			edges = append(edges, Edge{To: j, Count: c, Weight: math.Exp(-float64(c))})
		}
		sort.Slice(edges, func(a, b int) bool { return edges[a].To < edges[b].To })
		g.adj[i] = edges
	}

	g.byLabel = buildLabelIndex(g.nodes)
	g.frozen = true
	return nil
}

// Frozen reports whether damping has been applied.
func (g *Graph) Frozen() bool { return g.frozen }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node at position i.
func (g *Graph) Node(i int) *Node { return g.nodes[i] }

// Lookup resolves a node by name.
func (g *Graph) Lookup(name string) (*Node, bool) {
	i, ok := g.byName[name]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// Neighbors returns the edges leaving node i ordered by target index. Before
// damping an edge's Weight is its raw count.
func (g *Graph) Neighbors(i int) []Edge {
	if g.frozen {
		return g.adj[i]
	}
	edges := make([]Edge, 0, len(g.counts[i]))
	for j, c := range g.counts[i] {
		edges = append(edges, Edge{To: j, Count: c, Weight: float64(c)})
	}
	sort.Slice(edges, func(a, b int) bool { return edges[a].To < edges[b].To })
	return edges
}

// Weight returns the cost of the edge between a and b.
func (g *Graph) Weight(a, b int) (float64, bool) {
	c, ok := g.counts[a][b]
	if !ok {
		return 0, false
	}
	if !g.frozen {
		return float64(c), true
	}
	return math.Exp(-float64(c)), true
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, peers := range g.counts {
		total += len(peers)
	}
	return total / 2
}

func normalizeLabels(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
