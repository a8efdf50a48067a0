// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kcar/core/internal/parser"
	"github.com/kcar/core/internal/relgraph"
)

// Three APIs, two mashups: A is used with B and with C.
const datasetJSON = `{
	"apis": [
		{"name": "A", "primary_category": "mapping"},
		{"name": "B", "primary_category": "payments"},
		{"name": "C", "primary_category": "social", "secondary_categories": ["photos"]}
	],
	"mashups": [
		{"name": "m1", "apis": ["A", "B"]},
		{"name": "m2", "apis": ["A", "C"]}
	]
}`

func loadGraph(t *testing.T) *relgraph.Graph {
	t.Helper()

	ds, err := parser.ParseDataset([]byte(datasetJSON))
	require.NoError(t, err)

	g, err := parser.BuildGraph(ds)
	require.NoError(t, err)

	return g
}
