// Package models defines the core data structures and database interaction logic.
// It includes entity definitions and methods for persistence and validation.
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphUnmarshal(t *testing.T) {
	t.Run("empty graph", func(t *testing.T) {
		var graph Graph
		err := json.Unmarshal([]byte(`{"nodes": [], "edges": []}`), &graph)

		require.NoError(t, err)
		assert.Empty(t, graph.Nodes)
		assert.Empty(t, graph.Edges)
		assert.Nil(t, graph.Stats)
	})

	t.Run("graph with weighted edges and stats", func(t *testing.T) {
		jsonData := `{
			"nodes": [
				{"id": "Twitter", "index": 0, "primary_category": "Social", "degree": 1},
				{"id": "Google Maps", "index": 1, "primary_category": "Mapping", "secondary_categories": ["Viewer"], "degree": 1}
			],
			"edges": [
				{"source": "Twitter", "target": "Google Maps", "count": 3, "weight": 0.049787}
			],
			"stats": {
				"total_nodes": 2,
				"total_edges": 1,
				"isolated_nodes": 0,
				"damped": true,
				"nodes_by_category": {"Social": 1, "Mapping": 1, "Viewer": 1}
			}
		}`

		var graph Graph
		err := json.Unmarshal([]byte(jsonData), &graph)

		require.NoError(t, err)
		require.Len(t, graph.Nodes, 2)
		require.Len(t, graph.Edges, 1)
		assert.Equal(t, []string{"Viewer"}, graph.Nodes[1].SecondaryCategories)
		assert.Equal(t, 3, graph.Edges[0].Count)
		assert.InDelta(t, 0.049787, graph.Edges[0].Weight, 1e-9)
		require.NotNil(t, graph.Stats)
		assert.True(t, graph.Stats.Damped)
		assert.Equal(t, 1, graph.Stats.NodesByCategory["Viewer"])
	})

	t.Run("stats omitted when nil", func(t *testing.T) {
		data, err := json.Marshal(Graph{Nodes: []Node{}, Edges: []Edge{}})
		require.NoError(t, err)

		assert.NotContains(t, string(data), "stats")
	})
}

func TestSteinerTreeJSON(t *testing.T) {
	t.Run("inherent labels omitted when empty", func(t *testing.T) {
		tree := SteinerTree{Root: "B", Nodes: []string{"B"}, CoveredKeywords: []string{"cat1"}}

		data, err := json.Marshal(tree)
		require.NoError(t, err)

		assert.Contains(t, string(data), `"covered_keywords":["cat1"]`)
		assert.NotContains(t, string(data), "inherent_labels")
	})

	t.Run("query request with inline dataset", func(t *testing.T) {
		jsonData := `{
			"keywords": ["Mapping", "Social"],
			"dataset": {
				"apis": [{"name": "A", "primary_category": "Mapping"}],
				"mashups": [{"name": "M1", "apis": ["A"]}]
			}
		}`

		var req QueryRequest
		require.NoError(t, json.Unmarshal([]byte(jsonData), &req))

		assert.Equal(t, []string{"Mapping", "Social"}, req.Keywords)
		require.NotNil(t, req.Dataset)
		assert.Len(t, req.Dataset.APIs, 1)
		assert.Equal(t, []string{"A"}, req.Dataset.Mashups[0].APIs)
	})
}
