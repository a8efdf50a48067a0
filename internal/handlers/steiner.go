// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/kcar/core/internal/parser"
	"github.com/kcar/core/internal/relgraph"
	"github.com/kcar/core/internal/steiner"
)

// SteinerHandler answers a QueryRequest with the cheapest API tree covering
// its keywords.
func (s *Server) SteinerHandler(w http.ResponseWriter, r *http.Request) {
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

	req, err := parser.ParseQuery(body)
	if err != nil {
		http.Error(w, "Invalid query: "+err.Error(), http.StatusBadRequest)
		return
	}

	var g *relgraph.Graph
	if req.Dataset != nil {
		if g, err = parser.BuildGraph(req.Dataset); err != nil {
			http.Error(w, "Invalid dataset: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else if g = s.graph; g == nil {
		http.Error(w, "No graph loaded", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	if s.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.QueryTimeout)
		defer cancel()
	}

	tree, err := steiner.New(g, s.solverOptions(req.Dataset != nil)...).Solve(ctx, req.Keywords)
	if err != nil {
		status := solveStatus(err)
		log.WithError(err).WithField("keywords", req.Keywords).WithField("status", status).Info("Steiner query failed")
		http.Error(w, err.Error(), status)
		return
	}

	result := tree.Model(g)
	log.WithFields(log.Fields{
		"keywords": req.Keywords,
		"root":     result.Root,
		"weight":   result.Weight,
		"size":     len(result.Nodes),
	}).Info("Steiner query answered")

	writeJSON(w, r, result)
}

func solveStatus(err error) int {
	switch {
	case errors.Is(err, steiner.ErrNoKeywords):
		return http.StatusBadRequest
	case errors.Is(err, steiner.ErrUnsatisfiableKeyword), errors.Is(err, steiner.ErrSubsetCeilingExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
