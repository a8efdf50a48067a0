// Package parser provides utilities for parsing and transforming input data.
// It handles data normalization, validation, and conversion between formats.
package parser

import (
	log "github.com/sirupsen/logrus"

	"github.com/kcar/core/internal/models"
	"github.com/kcar/core/internal/relgraph"
)

// BuildGraph turns a dataset into a frozen relatedness graph.
func BuildGraph(ds *models.Dataset) (*relgraph.Graph, error) {
	g, stats, err := relgraph.Build(ds.APIs, ds.Mashups)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"apis":       g.Len(),
		"mashups":    stats.Groups,
		"pairs":      stats.Pairs,
		"unresolved": stats.Unresolved,
		"edges":      g.EdgeCount(),
	}).Debug("Relatedness graph built")

	return g, nil
}

// GraphView renders g for serialization. Each undirected edge appears once.
func GraphView(g *relgraph.Graph) *models.Graph {
	view := &models.Graph{
		Nodes: make([]models.Node, 0, g.Len()),
		Edges: []models.Edge{},
	}
	stats := &models.Stats{
		TotalNodes:      g.Len(),
		Damped:          g.Frozen(),
		NodesByCategory: make(map[string]int),
	}

	for i := 0; i < g.Len(); i++ {
		n := g.Node(i)
		edges := g.Neighbors(i)

		view.Nodes = append(view.Nodes, models.Node{
			ID:                  n.Name,
			Index:               n.Index,
			PrimaryCategory:     n.PrimaryCategory,
			SecondaryCategories: n.SecondaryCategories,
			Degree:              len(edges),
		})

		if len(edges) == 0 {
			stats.IsolatedNodes++
		}
		for _, label := range n.Labels() {
			stats.NodesByCategory[label]++
		}

		for _, e := range edges {
			if e.To < i {
				continue
			}
			view.Edges = append(view.Edges, models.Edge{
				Source: n.Name,
				Target: g.Node(e.To).Name,
				Count:  e.Count,
				Weight: e.Weight,
			})
		}
	}

	stats.TotalEdges = len(view.Edges)
	view.Stats = stats
	return view
}
