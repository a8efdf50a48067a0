// Package models defines the core data structures and database interaction logic.
// It includes entity definitions and methods for persistence and validation.
package models

// SteinerTree is a recommended API composition.
//
// CoveredKeywords holds exactly the requested keywords the tree covers.
// InherentLabels is every category carried by a node of the tree, which can
// be a superset of what was asked for.
type SteinerTree struct {
	Root            string   `json:"root"`
	Weight          float64  `json:"weight"`
	Nodes           []string `json:"nodes"`
	CoveredKeywords []string `json:"covered_keywords"`
	InherentLabels  []string `json:"inherent_labels,omitempty"`
}

// QueryRequest asks for a tree covering Keywords. When Dataset is set the
// query runs against a graph built from it instead of the loaded snapshot.
type QueryRequest struct {
	Keywords []string `json:"keywords"`
	Dataset  *Dataset `json:"dataset,omitempty"`
}
