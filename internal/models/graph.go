// Package models defines the core data structures and database interaction logic.
// It includes entity definitions and methods for persistence and validation.
package models

// Graph is the serializable view of a relatedness graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Stats *Stats `json:"stats,omitempty"`
}

type Node struct {
	ID                  string   `json:"id"`
	Index               int      `json:"index"`
	PrimaryCategory     string   `json:"primary_category"`
	SecondaryCategories []string `json:"secondary_categories,omitempty"`
	Degree              int      `json:"degree"`
}

// Edge is listed once per unordered pair, Source before Target in node order.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"`
}

type Stats struct {
	TotalNodes      int            `json:"total_nodes"`
	TotalEdges      int            `json:"total_edges"`
	IsolatedNodes   int            `json:"isolated_nodes"`
	Damped          bool           `json:"damped"`
	NodesByCategory map[string]int `json:"nodes_by_category,omitempty"`
}
