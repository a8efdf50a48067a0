// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"io"
	"net/http"

	"github.com/kcar/core/internal/parser"
)

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// GraphHandler builds a relatedness graph from the posted dataset and
// returns its view. It does not touch the server's loaded graph.
func GraphHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	defer r.Body.Close()

	ds, err := parser.ParseDataset(body)
	if err != nil {
		http.Error(w, "Invalid dataset: "+err.Error(), http.StatusBadRequest)
		return
	}

	g, err := parser.BuildGraph(ds)
	if err != nil {
		http.Error(w, "Invalid dataset: "+err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, r, parser.GraphView(g))
}

func (s *Server) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.graph == nil {
		http.Error(w, "No graph loaded", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, r, CategoriesResponse{Categories: s.graph.Categories()})
}
